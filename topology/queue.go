// Package topology serializes graph-construction mutations — registering a
// node, wiring a link or forward — onto a single goroutine ahead of
// domain activation (spec §9/SPEC_FULL.md §6: topology is frozen once a
// domain activates, so this queue's whole job is ordering the
// construction phase, not runtime changes). It is grounded on the
// teacher's engine/queue Queue/Dispatcher pair, adapted from an
// AVFoundation-engine mutation queue into a domain/node-graph one: the
// single-goroutine-serializes-mutations shape is kept, operations now
// carry a correlation ID for log matching instead of wrapping unsafe
// pointers.
package topology

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrClosed is returned by Enqueue once the queue has been closed.
var ErrClosed = errors.New("topology: queue closed")

// Op is one graph-construction mutation. It should be quick and
// non-blocking — no DSP, no driver I/O — any heavy preparation happens
// before Enqueue.
type Op interface {
	Apply(ctx context.Context) error
}

// Func adapts a plain function into an Op.
type Func func(ctx context.Context) error

func (f Func) Apply(ctx context.Context) error { return f(ctx) }

// entry pairs an Op with the correlation ID logged at enqueue time so the
// matching "applied" log line can be found by the same ID.
type entry struct {
	id uuid.UUID
	op Op
}

// Queue runs every enqueued Op, in order, on one goroutine.
type Queue struct {
	logger *log.Logger

	ch      chan entry
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// New creates a queue with the given channel buffer (0 or negative uses a
// default of 32, matching typical graph-construction burst sizes).
func New(buffer int, logger *log.Logger) *Queue {
	if buffer <= 0 {
		buffer = 32
	}
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{ch: make(chan entry, buffer), ctx: ctx, cancel: cancel, logger: logger.With("component", "topology")}
}

// Start begins the worker goroutine. Safe to call more than once.
func (q *Queue) Start() {
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go q.run()
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			q.drain()
			return
		case e := <-q.ch:
			q.apply(e)
		}
	}
}

// drain applies whatever is already buffered, best-effort, for a short
// grace period after Close before giving up.
func (q *Queue) drain() {
	deadline := time.After(10 * time.Millisecond)
	for {
		select {
		case e := <-q.ch:
			q.apply(e)
		case <-deadline:
			return
		default:
			return
		}
	}
}

func (q *Queue) apply(e entry) {
	q.logger.Debug("applying topology op", "id", e.id)
	if err := e.op.Apply(q.ctx); err != nil {
		q.logger.Error("topology op failed", "id", e.id, "err", err)
		return
	}
	q.logger.Debug("applied topology op", "id", e.id)
}

// Enqueue schedules op and returns the correlation ID logged alongside it.
func (q *Queue) Enqueue(op Op) (uuid.UUID, error) {
	if q == nil || q.ch == nil {
		return uuid.Nil, errors.New("topology: queue not initialized")
	}
	if q.ctx.Err() != nil {
		return uuid.Nil, ErrClosed
	}
	id := uuid.New()
	q.logger.Debug("enqueuing topology op", "id", id)
	select {
	case q.ch <- entry{id: id, op: op}:
		return id, nil
	case <-q.ctx.Done():
		return uuid.Nil, ErrClosed
	}
}

// Close stops the worker and waits for it to finish (including the best-
// effort drain of anything still buffered).
func (q *Queue) Close() {
	if q == nil {
		return
	}
	q.cancel()
	q.wg.Wait()
}
