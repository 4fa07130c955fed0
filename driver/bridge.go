// Package driver implements the realtime-callback bridge between an IO
// node and an external audio driver (spec §4.8): the callback-side publish
// of driver input buffers onto graph outputs, the condition-variable park
// until downstream feedback reaches the node's graph inputs, the deadline
// watchdog, and the done-flag race resolved by an explicit state machine
// (SPEC_FULL.md §7 decision 2) instead of a bare bool.
package driver

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shaban/pulsarengine/audio"
	"github.com/shaban/pulsarengine/internal/fault"
	"github.com/shaban/pulsarengine/internal/metrics"
	"github.com/shaban/pulsarengine/node"
)

// State tracks one callback/run round-trip through the bridge. The bare
// done_flag bool in the original design admits a race between a callback
// that has not yet parked and a run that fires early; the explicit
// progression below closes it — InputsReady (the run trigger) only ever
// transitions Published→Consumed, so a run that fires before the callback
// reaches Published is detectable as a protocol violation rather than a
// silently dropped signal.
type State int

const (
	// Reset is the bridge's idle state between callbacks.
	Reset State = iota
	// Armed means the callback has taken the node mutex and is about to
	// publish driver inputs onto graph outputs.
	Armed
	// Published means graph outputs have been set and the callback is
	// parked waiting for the graph's run to complete.
	Published
	// Consumed means the graph's run has copied data to driver outputs;
	// the callback may now wake, clear state, and return.
	Consumed
)

// Port pairs a graph channel with the driver-side buffer slice that mirrors
// it for one callback invocation.
type Port struct {
	Output *audio.Output // graph output this driver input publishes to
	Input  *audio.Input  // graph input this driver output reads from
}

// Bridge is the per-IO-node realtime callback bridge.
type Bridge struct {
	io   *node.IO
	name string

	mu    sync.Mutex
	cond  *sync.Cond
	state State

	watchdogTimeout time.Duration
	timer           *time.Timer

	driverOutputs []*audio.Output // graph outputs fed by driver input buffers
	driverInputs  []*audio.Input  // graph inputs copied to driver output buffers

	pendingOut    [][]float32 // driver output buffers for the in-flight Process call
	pendingFrames int

	logger  *log.Logger
	metrics *metrics.Domain
}

// New creates a bridge for io. driverOutputs/driverInputs describe the
// channel-to-driver-buffer wiring in a fixed, stable order matching the
// buffer slices Process will be given.
func New(io *node.IO, watchdogTimeout time.Duration, driverOutputs []*audio.Output, driverInputs []*audio.Input, logger *log.Logger, m *metrics.Domain) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	b := &Bridge{
		io:              io,
		name:            io.Name(),
		watchdogTimeout: watchdogTimeout,
		driverOutputs:   driverOutputs,
		driverInputs:    driverInputs,
		logger:          logger.With("io_node", io.Name()),
		metrics:         m,
		state:           Reset,
	}
	b.cond = sync.NewCond(&b.mu)
	io.SetIODelegate(b)
	return b
}

// Arm starts the deadline watchdog. Must be called once the driver stream
// is open and before the first callback can fire.
func (b *Bridge) Arm() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetWatchdogLocked()
}

func (b *Bridge) resetWatchdogLocked() {
	if b.timer != nil {
		b.timer.Stop()
	}
	if b.watchdogTimeout <= 0 {
		return
	}
	b.timer = time.AfterFunc(b.watchdogTimeout, func() {
		fault.Fault(fault.CategoryInvariant, "io node %q: deadline watchdog expired after %s", b.name, b.watchdogTimeout)
	})
	if b.metrics != nil {
		b.metrics.WatchdogResets.Inc()
	}
}

// Process is the driver callback contract entry point (spec §6):
// (inBufPtrs, outBufPtrs, nframes, ...) → error. inBufPtrs are the driver's
// input buffers (become graph outputs); outBufPtrs are the driver's output
// buffers this call must fill (sourced from graph inputs).
func (b *Bridge) Process(inBufPtrs, outBufPtrs [][]float32, nframes int) error {
	if len(inBufPtrs) != len(b.driverOutputs) {
		fault.Fault(fault.CategoryInvariant, "io node %q: driver gave %d input buffers, expected %d", b.name, len(inBufPtrs), len(b.driverOutputs))
	}
	if len(outBufPtrs) != len(b.driverInputs) {
		fault.Fault(fault.CategoryInvariant, "io node %q: driver gave %d output buffers, expected %d", b.name, len(outBufPtrs), len(b.driverInputs))
	}

	// Step 1: take the node mutex; reentrancy is detectable as a non-Reset
	// state left over from a callback that hasn't returned yet.
	b.io.Lock()
	if b.state != Reset {
		b.io.Unlock()
		fault.Fault(fault.CategoryInvariant, "io node %q: reentrant driver callback detected (state=%d)", b.name, b.state)
	}
	b.state = Armed

	// Step 2: publish each driver input as a borrowed buffer onto the
	// matching graph output.
	for i, out := range b.driverOutputs {
		borrowed := audio.NewBorrowed(inBufPtrs[i][:nframes])
		out.SetBuffer(borrowed)
	}

	b.mu.Lock()
	b.pendingOut = outBufPtrs
	b.pendingFrames = nframes
	b.state = Published
	b.mu.Unlock()

	// Step 3: release the node mutex before parking.
	b.io.Unlock()

	// Step 4: wait until the graph's run (InputsReady, below) has copied
	// graph inputs into outBufPtrs and flipped state to Consumed.
	b.mu.Lock()
	for b.state != Consumed {
		b.cond.Wait()
	}
	b.pendingOut = nil
	// Step 5: clear state, reset the watchdog, return control to the driver.
	b.state = Reset
	b.resetWatchdogLocked()
	b.mu.Unlock()

	return nil
}

// InputsReady implements node.IODelegate: the driver-side run of spec
// §4.8's step 4/5. It copies each graph input's buffer into the
// corresponding driver output buffer captured by the in-flight Process
// call, signals the condition variable, runs the base node's own run (a
// no-op unless this IO node also carries a filter delegate, e.g. a metering
// tap), and finally re-arms the IO node's channels for the next callback.
func (b *Bridge) InputsReady() {
	b.io.Lock()
	defer b.io.Unlock()

	b.mu.Lock()
	if b.state != Published {
		b.mu.Unlock()
		fault.Fault(fault.CategoryInvariant, "io node %q: run completed before callback published (state=%d)", b.name, b.state)
	}
	outBufPtrs := b.pendingOut
	nframes := b.pendingFrames
	b.mu.Unlock()

	for i, in := range b.driverInputs {
		buf := in.GetBuffer()
		n := nframes
		if buf.Size() < n {
			n = buf.Size()
		}
		copy(outBufPtrs[i][:n], buf.Samples()[:n])
	}

	b.mu.Lock()
	b.state = Consumed
	b.mu.Unlock()
	b.cond.Broadcast()

	if err := b.io.RunOnce(); err != nil {
		fault.Fault(fault.CategoryPlugin, "io node %q: run failed: %v", b.name, err)
	}

	// Reset the IO node's links and arrival counts, as Execute does for a
	// filter after its run, so the next callback's cycle can complete.
	b.io.Audio.ResetCycle()
}

var _ fmt.Stringer = State(0)

func (s State) String() string {
	switch s {
	case Reset:
		return "reset"
	case Armed:
		return "armed"
	case Published:
		return "published"
	case Consumed:
		return "consumed"
	default:
		return "unknown"
	}
}
