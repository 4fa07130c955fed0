package audio

import (
	"fmt"
	"sync"
)

// Link is a one-directional edge from an Output to an Input. The available
// flag means "this link's slot is empty and may be filled by the producer";
// it starts true, flips false on Notify, and flips back to true on Reset.
//
// Between two consecutive Reset(L) calls there must be exactly one Notify(L):
// a second Notify before the consumer resets either blocks (backpressure,
// the default) or is fatal, depending on the caller's protocol guarantee.
type Link struct {
	From *Output
	To   *Input

	mu        sync.Mutex
	available bool
	cond      *sync.Cond
}

// NewLink creates a link from an output to an input and registers it with
// both endpoints.
func NewLink(from *Output, to *Input) *Link {
	l := &Link{From: from, To: to, available: true}
	l.cond = sync.NewCond(&l.mu)
	from.registerLink(l)
	to.registerLink(l)
	return l
}

// Notify delivers buf to the link's input. If the link's slot is not
// available (a previous Notify has not yet been Reset) and blocking is
// true, the call blocks on the link's condition variable until Reset makes
// it available again — this is the engine's only intra-cycle backpressure
// mechanism. If blocking is false, an outstanding unavailable slot is a
// protocol violation and is fatal: the caller asserted no contention could
// occur.
func (l *Link) Notify(buf *Buffer, blocking bool) {
	l.mu.Lock()
	for !l.available {
		if !blocking {
			l.mu.Unlock()
			panic(fmt.Sprintf("audio: link notified twice without an intervening reset (from=%s to=%s)", l.From.name, l.To.name))
		}
		l.cond.Wait()
	}
	l.available = false
	l.mu.Unlock()

	l.To.linkReady(l, buf)
}

// Reset marks the link available again and wakes any producer blocked on a
// second Notify.
func (l *Link) Reset() {
	l.mu.Lock()
	l.available = true
	l.mu.Unlock()
	l.cond.Broadcast()
}

// InputForward is a pass-through edge used only when the owning node is a
// forwarder: it multicasts notifications to another node's input without
// gating readiness the way a Link does.
type InputForward struct {
	From *Input
	To   *Input
}

// NewInputForward creates a forward from one input to another and registers
// it with both sides for arrival accounting and notification fan-out.
func NewInputForward(from, to *Input) *InputForward {
	f := &InputForward{From: from, To: to}
	from.forwardsTo = append(from.forwardsTo, f)
	to.registerForward(f)
	return f
}

// OutputForward mirrors InputForward for output-to-output pass-through
// chains (e.g. an inner node's output bridged to its chain's boundary
// output).
type OutputForward struct {
	From *Output
	To   *Output
}

// NewOutputForward creates a forward from one output to another.
func NewOutputForward(from, to *Output) *OutputForward {
	f := &OutputForward{From: from, To: to}
	from.forwardsTo = append(from.forwardsTo, f)
	return f
}
