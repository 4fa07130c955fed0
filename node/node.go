// Package node implements the graph node lifecycle (spec §4.6): init,
// activate, the will_run/execute/notify cycle, and the property map each
// node carries. Rather than a deep virtual hierarchy, behavior that differs
// per variant (filter/io/forwarder/chain) dispatches on a Kind tag carried
// by a single Base type (spec §9 design note), mirroring the teacher's
// ChannelKind enum in engine/channel/channel.go.
package node

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/shaban/pulsarengine/audio"
	"github.com/shaban/pulsarengine/property"
)

// Kind tags which cycle-dispatch behavior a node follows.
type Kind int

const (
	KindFilter Kind = iota
	KindIO
	KindForwarder
	KindChain
)

func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindIO:
		return "io"
	case KindForwarder:
		return "forwarder"
	case KindChain:
		return "chain"
	default:
		return "unknown"
	}
}

// isForwarderLike reports whether a kind follows the forwarder dispatch
// rules (chain is "a named forwarder grouping", spec glossary).
func (k Kind) isForwarderLike() bool {
	return k == KindForwarder || k == KindChain
}

// Runnable is anything the scheduler's run queue can pop and run.
type Runnable interface {
	Execute()
}

// Scheduler is the subset of domain.Domain a node needs: enqueueing itself
// once ready, and the shared block parameters. Declaring this interface
// here (rather than node importing domain) keeps the dependency one-way:
// domain imports node, node never imports domain.
type Scheduler interface {
	AddReadyNode(n Runnable)
	ZeroBuffer() *audio.Buffer
	SampleRate() uint64
	BufferSize() uint64
}

// FilterDelegate is implemented by a plugin host adapter (or any other pure
// DSP routine) that a Filter node runs once all of its inputs have arrived.
type FilterDelegate interface {
	Run() error
}

// IODelegate is implemented by the driver bridge (package driver). Called
// once an IO node's graph inputs have all arrived this cycle; the delegate
// is responsible for copying data out to the external driver and waking
// whatever goroutine is parked waiting on it.
type IODelegate interface {
	InputsReady()
}

// Base is the concrete representation of every node variant. Behavior is
// selected by Kind plus whichever delegate is non-nil for that kind.
type Base struct {
	id   string
	name string
	kind Kind

	sched      Scheduler
	Audio      *audio.Component
	Properties *property.Map

	mu sync.Mutex // serializes Execute and (for IO) the driver callback

	filterDelegate FilterDelegate
	ioDelegate     IODelegate

	activated bool
}

// newBase constructs a Base of the given kind. Not exported: callers use
// the typed constructors in filter.go/io.go/forwarder.go/chain.go.
func newBase(name string, kind Kind, sched Scheduler) *Base {
	if sched == nil {
		panic(fmt.Sprintf("node %q: scheduler cannot be nil", name))
	}
	b := &Base{
		id:         uuid.NewString(),
		name:       name,
		kind:       kind,
		sched:      sched,
		Properties: property.NewMap(),
	}
	b.Audio = audio.NewComponent(b)
	b.Properties.Add("node:name", property.KindString)
	b.Properties.Get("node:name").SetString(name)
	b.Properties.Add("node:class", property.KindString)
	b.Properties.Get("node:class").SetString(kind.String())
	return b
}

// ID returns the node's process-unique identifier.
func (b *Base) ID() string { return b.id }

// Name returns the node's name (also satisfies audio.Parent and audio.Ready).
func (b *Base) Name() string { return b.name }

// Kind returns the node's dispatch tag.
func (b *Base) Kind() Kind { return b.kind }

// Scheduler exposes the owning domain's scheduling surface, e.g. for a
// filter's plugin adapter that needs the current block size.
func (b *Base) Scheduler() Scheduler { return b.sched }

// AddInput registers a new input channel on this node's component and
// declares an input: property for it (spec §4.9: input: declares an input
// channel, value = channel kind).
func (b *Base) AddInput(name, channelKind string) *audio.Input {
	in := b.Audio.AddInput(name, b)
	p := b.Properties.Add("input:"+name, property.KindString)
	p.SetString(channelKind)
	return in
}

// AddOutput registers a new output channel and declares an output: property.
func (b *Base) AddOutput(name, channelKind string) *audio.Output {
	out := b.Audio.AddOutput(name, b)
	p := b.Properties.Add("output:"+name, property.KindString)
	p.SetString(channelKind)
	return out
}

// AddProperty declares a new property of the given kind under name.
func (b *Base) AddProperty(name string, kind property.Kind) *property.Property {
	return b.Properties.Add(name, kind)
}

// GetProperty returns a property by name; unknown names are fatal.
func (b *Base) GetProperty(name string) *property.Property {
	return b.Properties.Get(name)
}

// Peek stringifies a property's current value.
func (b *Base) Peek(name string) string { return b.Properties.Peek(name) }

// Poke parses a string into a property's value.
func (b *Base) Poke(name, value string) { b.Properties.Poke(name, value) }

// Activate wires the node into its scheduler. It is idempotent; a second
// call is a no-op rather than fatal.
func (b *Base) Activate() {
	if b.activated {
		return
	}
	b.activated = true
	b.Audio.ResetCycle()
}

// IsReady reports whether every required input has already arrived this
// cycle.
func (b *Base) IsReady() bool { return b.Audio.IsReady() }

// WillRun is called by the node's Component once inputs_waiting reaches
// zero. Dispatch is entirely on Kind, matching spec §4.6/§9.
func (b *Base) WillRun() {
	switch {
	case b.kind == KindFilter:
		b.Audio.InitCycle(int(b.sched.BufferSize()), b.sched.ZeroBuffer())
		b.sched.AddReadyNode(b)
	case b.kind == KindIO:
		if b.ioDelegate != nil {
			b.ioDelegate.InputsReady()
		}
	case b.kind.isForwarderLike():
		// Forwarders do no DSP: propagate by immediately re-arming for the
		// next cycle instead of enqueueing onto the worker pool.
		b.Audio.InitCycle(int(b.sched.BufferSize()), b.sched.ZeroBuffer())
		b.Audio.ResetCycle()
	default:
		panic(fmt.Sprintf("node %q: will_run called with unknown kind %v", b.name, b.kind))
	}
}

// Execute is popped off the scheduler's run queue by a worker. Only filter
// nodes ever reach the queue (see WillRun); invoking Execute on a forwarder
// or IO node is a protocol violation and fatal.
func (b *Base) Execute() {
	if b.kind.isForwarderLike() {
		panic(fmt.Sprintf("node %q: execute() is illegal on a forwarder node", b.name))
	}
	if b.kind == KindIO {
		panic(fmt.Sprintf("node %q: execute() is illegal on an io node; it is driven by its callback", b.name))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.filterDelegate != nil {
		if err := b.filterDelegate.Run(); err != nil {
			panic(fmt.Sprintf("node %q: run failed: %v", b.name, err))
		}
	}
	b.notifyLocked()
	b.Audio.ResetCycle()
}

// Notify is called at the end of Execute's run phase. Calling it on a
// forwarder is illegal and fatal — forwarders propagate exclusively through
// forwards, never through their own component's notify (spec §9 open
// question: "forwarders never notify").
func (b *Base) Notify() {
	if b.kind.isForwarderLike() {
		panic(fmt.Sprintf("node %q: notify() is illegal on a forwarder node", b.name))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifyLocked()
}

func (b *Base) notifyLocked() {
	b.Audio.Notify()
}

// Lock/Unlock expose the node mutex to the IO driver bridge, which must
// serialize its callback the same way Execute serializes a filter's run
// (spec §4.8 step 1/3).
func (b *Base) Lock()   { b.mu.Lock() }
func (b *Base) Unlock() { b.mu.Unlock() }

// SetFilterDelegate attaches the DSP routine a filter node runs. Only
// meaningful for KindFilter nodes.
func (b *Base) SetFilterDelegate(d FilterDelegate) { b.filterDelegate = d }

// SetIODelegate attaches the driver bridge callback for an IO node. Only
// meaningful for KindIO nodes.
func (b *Base) SetIODelegate(d IODelegate) { b.ioDelegate = d }

// RunOnce invokes the node's DSP routine directly without going through the
// run queue. Used by the IO driver bridge's own "run" (spec §4.8 step 4):
// the driver-side run copies graph inputs to driver outputs and then calls
// the base node's run exactly once the cycle is complete.
func (b *Base) RunOnce() error {
	if b.filterDelegate == nil {
		return nil
	}
	return b.filterDelegate.Run()
}
