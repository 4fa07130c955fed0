package audio

import (
	"fmt"
	"sync"
)

// arrivalSanityLimit bounds the per-cycle waiting counters. A snapshot
// beyond this is treated as a fatal logic error (spec §4.2 sanity
// invariant) rather than silently wrapping or corrupting accounting.
const arrivalSanityLimit = 1 << 20

// Parent is the minimal back-reference a channel needs into its owning
// node: a name for diagnostics. Readiness is reported separately, through
// the onReady callback given to NewInput.
type Parent interface {
	Name() string
}

// Input is the arrival-counted endpoint of a node. Per cycle it tracks how
// many links/forwards are still outstanding (linksWaiting), and once that
// count reaches zero it calls onReady to tell the owning component this
// input is satisfied.
type Input struct {
	name   string
	parent Parent

	mu             sync.Mutex
	links          []*Link
	forwardsTo     []*InputForward // forwards this input propagates arrivals to
	numForwardsIn  int             // forwards registered against this input (count toward waiting)
	linksWaiting   int64
	arrivals       map[interface{}]*Buffer
	mixBuf         *Buffer
	zeroBuf        *Buffer
	bufSize        int
	onReady        func()
}

// NewInput constructs an Input owned by parent. onReady is invoked exactly
// once per cycle, the moment linksWaiting reaches zero.
func NewInput(name string, parent Parent, onReady func()) *Input {
	return &Input{
		name:     name,
		parent:   parent,
		arrivals: make(map[interface{}]*Buffer),
		onReady:  onReady,
	}
}

func (in *Input) Name() string { return in.name }

// LinkTo creates a Link from out into this input.
func (in *Input) LinkTo(out *Output) *Link {
	return NewLink(out, in)
}

// ForwardTo creates a pass-through forward from this input to target.
// Parent here carries no forwarder-ness information by design, keeping the
// tagged dispatch in node, not audio. No check is made, here or in package
// node, that this input's parent is a forwarder and target's is not.
func (in *Input) ForwardTo(target *Input) *InputForward {
	return NewInputForward(in, target)
}

func (in *Input) registerLink(l *Link) {
	in.mu.Lock()
	in.links = append(in.links, l)
	in.mu.Unlock()
}

func (in *Input) registerForward(f *InputForward) {
	in.mu.Lock()
	in.numForwardsIn++
	in.mu.Unlock()
}

// InitCycle preallocates the mix buffer this input will need if it has
// multiple arrivals, sized to the domain's block size. Allocating here
// rather than in GetBuffer keeps the hot path allocation-free (resolves
// the "mix buffer reuse" open question in favor of preallocation).
func (in *Input) InitCycle(bufSize int, zero *Buffer) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.bufSize = bufSize
	in.zeroBuf = zero
	if in.totalSourcesLocked() >= 2 && (in.mixBuf == nil || in.mixBuf.Size() != bufSize) {
		in.mixBuf = NewOwned(bufSize)
	}
}

// ResetCycle arms the input for the next cycle: clears this cycle's
// arrivals, resets every owning link to available, and recomputes
// linksWaiting from the static topology (links + forwards registered
// against this input).
func (in *Input) ResetCycle() {
	in.mu.Lock()
	links := append([]*Link(nil), in.links...)
	in.arrivals = make(map[interface{}]*Buffer)
	waiting := int64(len(in.links) + in.numForwardsIn)
	in.linksWaiting = waiting
	in.mu.Unlock()

	for _, l := range links {
		l.Reset()
	}
}

func (in *Input) totalSourcesLocked() int {
	return len(in.links) + in.numForwardsIn
}

// GetLinksWaiting returns the number of outstanding arrivals for this cycle.
func (in *Input) GetLinksWaiting() int64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.linksWaiting
}

// linkReady is invoked by a Link's producer side when its buffer arrives.
func (in *Input) linkReady(l *Link, buf *Buffer) {
	in.deliverArrival(l, buf)
}

// forwardReady is invoked when an upstream input forwards its arrival on to
// this one.
func (in *Input) forwardReady(f *InputForward, buf *Buffer) {
	in.deliverArrival(f, buf)
}

func (in *Input) deliverArrival(key interface{}, buf *Buffer) {
	in.mu.Lock()
	in.arrivals[key] = buf
	in.linksWaiting--
	waiting := in.linksWaiting
	forwardsTo := append([]*InputForward(nil), in.forwardsTo...)
	in.mu.Unlock()

	if waiting < 0 || waiting > arrivalSanityLimit {
		panic(fmt.Sprintf("audio: input %q links_waiting out of range: %d", in.name, waiting))
	}
	if waiting == 0 && in.onReady != nil {
		in.onReady()
	}
	for _, f := range forwardsTo {
		f.To.forwardReady(f, buf)
	}
}

// GetBuffer decides the zero-copy/mix outcome for this cycle's arrivals:
// no sources → the domain's shared zero buffer; exactly one source →
// that source's own buffer (no copy); two or more → the sum in the
// preallocated mix buffer.
func (in *Input) GetBuffer() *Buffer {
	in.mu.Lock()
	defer in.mu.Unlock()

	total := in.totalSourcesLocked()
	switch {
	case total == 0:
		return in.zeroBuf
	case total == 1:
		for _, buf := range in.arrivals {
			return buf
		}
		return in.zeroBuf
	default:
		in.mixBuf.Zero()
		for _, buf := range in.arrivals {
			in.mixBuf.Mix(buf)
		}
		return in.mixBuf
	}
}

// Output is the per-cycle publishing endpoint of a node. Its current buffer
// is reused from a two-slot ring across cycles (resolving the spec's
// per-cycle allocation open question) rather than reallocated every time.
type Output struct {
	name   string
	parent Parent

	mu         sync.Mutex
	links      []*Link
	forwardsTo []*OutputForward
	ring       [2]*Buffer
	ringIdx    int
	current    *Buffer
}

// NewOutput constructs an Output owned by parent.
func NewOutput(name string, parent Parent) *Output {
	return &Output{name: name, parent: parent}
}

func (out *Output) Name() string { return out.name }

// LinkTo creates a Link from this output to in.
func (out *Output) LinkTo(in *Input) *Link {
	return NewLink(out, in)
}

// ForwardTo cascades this output's buffer to target whenever it notifies.
func (out *Output) ForwardTo(target *Output) *OutputForward {
	return NewOutputForward(out, target)
}

func (out *Output) registerLink(l *Link) {
	out.mu.Lock()
	out.links = append(out.links, l)
	out.mu.Unlock()
}

// InitCycle arms this cycle's publishing buffer: the next ring slot,
// zeroed, allocated once and reused thereafter.
func (out *Output) InitCycle(bufSize int) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.ringIdx = (out.ringIdx + 1) % len(out.ring)
	buf := out.ring[out.ringIdx]
	if buf == nil || buf.Size() != bufSize {
		buf = NewOwned(bufSize)
		out.ring[out.ringIdx] = buf
	} else {
		buf.Zero()
	}
	out.current = buf
}

// ResetCycle clears the output's notion of "current" buffer identity for
// diagnostics; the backing storage itself is retained in the ring.
func (out *Output) ResetCycle() {
	out.mu.Lock()
	out.current = nil
	out.mu.Unlock()
}

// GetBuffer returns this cycle's current published buffer, if any.
func (out *Output) GetBuffer() *Buffer {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.current
}

// SetBuffer installs buf as the current buffer (used by IO source nodes to
// install a driver-borrowed buffer in place of the owned ring slot) and
// immediately notifies downstream links/forwards.
func (out *Output) SetBuffer(buf *Buffer) {
	out.mu.Lock()
	out.current = buf
	out.mu.Unlock()
	out.Notify()
}

// Notify cascades the current buffer to every forward target (which then
// notify their own links/forwards in turn) and signals every direct link.
func (out *Output) Notify() {
	out.mu.Lock()
	buf := out.current
	forwardsTo := append([]*OutputForward(nil), out.forwardsTo...)
	links := append([]*Link(nil), out.links...)
	out.mu.Unlock()

	if buf == nil {
		panic(fmt.Sprintf("audio: output %q notified with no current buffer", out.name))
	}
	for _, f := range forwardsTo {
		f.To.SetBuffer(buf)
	}
	for _, l := range links {
		l.Notify(buf, true)
	}
}
