package topology

import (
	"context"

	"github.com/shaban/pulsarengine/audio"
	"github.com/shaban/pulsarengine/domain"
	"github.com/shaban/pulsarengine/node"
)

// Dispatcher serializes graph-construction calls against a domain.Domain,
// replacing the teacher's unsafe.Pointer-based AVFoundation Engine wrapper
// with the real node/audio types this engine builds graphs out of. Callers
// that build a graph from multiple goroutines (e.g. a config loader
// fanning out per-chain construction) get deterministic ordering and a
// correlation ID per mutation; a single-goroutine builder can ignore the
// queue entirely and call domain.Domain directly.
type Dispatcher struct {
	Domain *domain.Domain
	q      *Queue
}

// NewDispatcher wraps dom. If q is nil a default queue is created and
// started.
func NewDispatcher(dom *domain.Domain, q *Queue) *Dispatcher {
	if q == nil {
		q = New(32, nil)
	}
	q.Start()
	return &Dispatcher{Domain: dom, q: q}
}

// Close stops the dispatcher's queue.
func (d *Dispatcher) Close() { d.q.Close() }

// RegisterNode enqueues n's registration with the domain.
func (d *Dispatcher) RegisterNode(n domain.Node) error {
	_, err := d.q.Enqueue(Func(func(ctx context.Context) error {
		d.Domain.Register(n)
		return nil
	}))
	return err
}

// Link enqueues a Link from an output to an input.
func (d *Dispatcher) Link(from *audio.Output, to *audio.Input) error {
	_, err := d.q.Enqueue(Func(func(ctx context.Context) error {
		audio.NewLink(from, to)
		return nil
	}))
	return err
}

// ForwardInput enqueues an input-to-input forward (spec §3.3: forwarders
// bypass link gating across a sub-graph boundary).
func (d *Dispatcher) ForwardInput(from, to *audio.Input) error {
	_, err := d.q.Enqueue(Func(func(ctx context.Context) error {
		audio.NewInputForward(from, to)
		return nil
	}))
	return err
}

// ForwardOutput enqueues an output-to-output forward.
func (d *Dispatcher) ForwardOutput(from, to *audio.Output) error {
	_, err := d.q.Enqueue(Func(func(ctx context.Context) error {
		audio.NewOutputForward(from, to)
		return nil
	}))
	return err
}

// RunSync enqueues fn and blocks until it has actually run, returning its
// error. Useful for a construction step whose result (e.g. a node handle)
// the caller needs before continuing, while still serializing with other
// in-flight mutations.
func (d *Dispatcher) RunSync(fn Func) error {
	done := make(chan error, 1)
	_, err := d.q.Enqueue(Func(func(ctx context.Context) error {
		err := fn(ctx)
		done <- err
		return err
	}))
	if err != nil {
		return err
	}
	return <-done
}

var _ node.Scheduler = (*domain.Domain)(nil)
