// Package domain implements the FIFO run-queue scheduler and worker pool
// that executes a graph's nodes (spec §5), grounded directly on
// original_source/pulsar/domain.h/.cxx's domain/be_thread design: a mutex
// plus condition-variable run queue, a fixed pool of worker goroutines each
// running the be_thread loop, and a zero buffer shared by every node whose
// inputs go unconnected this cycle.
package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/shaban/pulsarengine/audio"
	"github.com/shaban/pulsarengine/internal/fault"
	"github.com/shaban/pulsarengine/internal/metrics"
	"github.com/shaban/pulsarengine/node"
)

// Node is the subset of node.Base every registered node must satisfy so the
// domain can drive its lifecycle without importing concrete node variants.
type Node interface {
	node.Runnable
	Name() string
	Activate()
}

// Domain is the scheduling unit: one run queue, one worker pool, one shared
// zero buffer, bound to a fixed sample rate and buffer size for its whole
// lifetime (spec §5: topology is frozen once a domain activates).
type Domain struct {
	name       string
	sampleRate uint64
	bufferSize uint64

	logger  *log.Logger
	metrics *metrics.Domain

	zeroBuffer *audio.Buffer

	mu         sync.Mutex
	cond       *sync.Cond
	runQueue   []node.Runnable
	nodes      []Node
	activated  bool
	shutdown   bool
	lockBound  time.Duration // 0 disables the lock watchdog

	group  *errgroup.Group
	cancel context.CancelFunc
}

// Option configures a Domain at construction time.
type Option func(*Domain)

// WithLogger overrides the domain's logger (default: a new charmbracelet/log
// logger writing to stderr).
func WithLogger(l *log.Logger) Option {
	return func(d *Domain) { d.logger = l }
}

// WithMetrics attaches a metrics.Domain so the scheduler reports run-queue
// depth and active worker gauges as it runs.
func WithMetrics(m *metrics.Domain) Option {
	return func(d *Domain) { d.metrics = m }
}

// WithLockWatchdog aborts the process (via internal/fault) if a node's
// Execute, which runs under that node's mutex, takes longer than bound. The
// run-queue mutex is not timed. Off by default; grounded on the
// original engine's logjam debug instrumentation, reimplemented from
// scratch since the C++ timed-mutex wrapper does not translate (see
// SPEC_FULL.md §5).
func WithLockWatchdog(bound time.Duration) Option {
	return func(d *Domain) { d.lockBound = bound }
}

// New creates a domain with the given name, sample rate, and buffer size.
// The zero buffer is allocated once here and reused for the domain's entire
// lifetime (spec §9 decision: no per-cycle allocation).
func New(name string, sampleRate, bufferSize uint64, opts ...Option) *Domain {
	d := &Domain{
		name:       name,
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		zeroBuffer: audio.NewOwned(int(bufferSize)),
		logger:     log.Default().With("domain", name),
	}
	d.cond = sync.NewCond(&d.mu)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the domain's name.
func (d *Domain) Name() string { return d.name }

// SampleRate satisfies node.Scheduler.
func (d *Domain) SampleRate() uint64 { return d.sampleRate }

// BufferSize satisfies node.Scheduler.
func (d *Domain) BufferSize() uint64 { return d.bufferSize }

// ZeroBuffer satisfies node.Scheduler: every node shares one read-only-by-
// convention zero buffer for unconnected inputs.
func (d *Domain) ZeroBuffer() *audio.Buffer { return d.zeroBuffer }

// Register adds a node to the domain's managed set. Must be called before
// Activate; registering after activation only activates the node
// immediately (mirrors the original's make_node "activate if already
// activated" behavior) without changing threads already running.
func (d *Domain) Register(n Node) {
	d.mu.Lock()
	d.nodes = append(d.nodes, n)
	activated := d.activated
	d.mu.Unlock()
	if activated {
		n.Activate()
	}
}

// AddReadyNode enqueues n onto the FIFO run queue and wakes one worker.
// Called by a node's WillRun once every one of its inputs has arrived this
// cycle (spec §5 add_ready_node).
func (d *Domain) AddReadyNode(n node.Runnable) {
	d.mu.Lock()
	if !d.activated {
		d.mu.Unlock()
		fault.Fault(fault.CategoryProgrammer, "domain %q: add_ready_node called before activation", d.name)
	}
	d.runQueue = append(d.runQueue, n)
	if d.metrics != nil {
		d.metrics.RunQueueDepth.Set(float64(len(d.runQueue)))
	}
	d.mu.Unlock()
	d.cond.Signal()
}

// Activate activates every node registered so far, reports CPU feature
// availability, and starts numWorkers worker goroutines. Per
// spec §5/§9, topology may not change after this call.
func (d *Domain) Activate(ctx context.Context, numWorkers int) error {
	d.mu.Lock()
	if d.activated {
		d.mu.Unlock()
		fault.Fault(fault.CategoryProgrammer, "domain %q: activate called twice", d.name)
	}
	if numWorkers <= 0 {
		d.mu.Unlock()
		fault.Fault(fault.CategoryProgrammer, "domain %q: activate requires at least one worker", d.name)
	}
	d.activated = true
	nodes := append([]Node(nil), d.nodes...)
	d.mu.Unlock()

	d.logger.Info("cpu features",
		"brand", cpuid.CPU.BrandName,
		"logical_cores", cpuid.CPU.LogicalCores,
		"features", cpuid.CPU.FeatureSet(),
	)

	// Activate every node before any worker exists to run one, so a node
	// can never be popped off the run queue before it is activated.
	for _, n := range nodes {
		n.Activate()
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	g, runCtx := errgroup.WithContext(runCtx)
	d.group = g

	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			d.workerLoop(runCtx)
			return nil
		})
	}
	return nil
}

// workerLoop is the Go translation of the original's be_thread: wait for
// the run queue to be non-empty or the context to be canceled, pop the
// front node, execute it outside the lock.
func (d *Domain) workerLoop(ctx context.Context) {
	stop := make(chan struct{})
	go func() {
		<-ctx.Done()
		d.mu.Lock()
		d.shutdown = true
		d.mu.Unlock()
		d.cond.Broadcast()
		close(stop)
	}()

	for {
		d.mu.Lock()
		for len(d.runQueue) == 0 && !d.shutdown {
			d.cond.Wait()
		}
		if d.shutdown && len(d.runQueue) == 0 {
			d.mu.Unlock()
			return
		}
		n := d.runQueue[0]
		d.runQueue = d.runQueue[1:]
		if d.metrics != nil {
			d.metrics.RunQueueDepth.Set(float64(len(d.runQueue)))
			d.metrics.ActiveWorkers.Add(1)
		}
		d.mu.Unlock()

		d.executeWithWatchdog(n)

		if d.metrics != nil {
			d.metrics.ActiveWorkers.Add(-1)
		}
	}
}

// executeWithWatchdog runs n.Execute, optionally racing it against
// lockBound so a node that wedges (deadlocks on its own node mutex, or an
// errant infinite loop) is reported instead of silently starving the pool.
func (d *Domain) executeWithWatchdog(n node.Runnable) {
	if d.lockBound <= 0 {
		n.Execute()
		return
	}

	done := make(chan struct{})
	go func() {
		n.Execute()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d.lockBound):
		if d.metrics != nil {
			d.metrics.LockWatchdogHit.Inc()
		}
		fault.Fault(fault.CategoryInvariant, "domain %q: node execute exceeded lock watchdog bound %s", d.name, d.lockBound)
	}
}

// Shutdown cancels the worker pool and waits for every worker to exit.
func (d *Domain) Shutdown() error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	if d.group == nil {
		return nil
	}
	if err := d.group.Wait(); err != nil {
		return fmt.Errorf("domain %q: shutdown: %w", d.name, err)
	}
	return nil
}
