package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Ready is implemented by a node to receive the "all inputs satisfied"
// callback from its Component.
type Ready interface {
	WillRun()
}

// Component is the per-node aggregate of inputs and outputs. It counts how
// many inputs still have unsatisfied links at the start of a cycle and
// calls the parent's WillRun once that count reaches zero.
type Component struct {
	parent Ready

	mu      sync.RWMutex
	inputs  map[string]*Input
	outputs map[string]*Output

	inputsWaiting int64
}

// NewComponent creates a Component bound to parent's readiness callback.
func NewComponent(parent Ready) *Component {
	return &Component{
		parent:  parent,
		inputs:  make(map[string]*Input),
		outputs: make(map[string]*Output),
	}
}

// AddInput creates and registers a new named input. Duplicate names are a
// topology error and are fatal (spec §7 category 1).
func (c *Component) AddInput(name string, owner Parent) *Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.inputs[name]; exists {
		panic(fmt.Sprintf("audio: duplicate input channel name %q", name))
	}
	in := NewInput(name, owner, func() { c.sourceReady() })
	c.inputs[name] = in
	return in
}

// GetInput returns the named input. Unknown name is fatal (spec §7: unknown
// property/channel lookups are programmer errors).
func (c *Component) GetInput(name string) *Input {
	c.mu.RLock()
	defer c.mu.RUnlock()
	in, ok := c.inputs[name]
	if !ok {
		panic(fmt.Sprintf("audio: unknown input channel %q", name))
	}
	return in
}

// InputNames returns all registered input names.
func (c *Component) InputNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.inputs))
	for n := range c.inputs {
		names = append(names, n)
	}
	return names
}

// AddOutput creates and registers a new named output.
func (c *Component) AddOutput(name string, owner Parent) *Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.outputs[name]; exists {
		panic(fmt.Sprintf("audio: duplicate output channel name %q", name))
	}
	out := NewOutput(name, owner)
	c.outputs[name] = out
	return out
}

// GetOutput returns the named output. Unknown name is fatal.
func (c *Component) GetOutput(name string) *Output {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out, ok := c.outputs[name]
	if !ok {
		panic(fmt.Sprintf("audio: unknown output channel %q", name))
	}
	return out
}

// OutputNames returns all registered output names.
func (c *Component) OutputNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.outputs))
	for n := range c.outputs {
		names = append(names, n)
	}
	return names
}

// InitCycle arms every output, then every input, for the upcoming cycle:
// each output takes its next ring buffer, and each input with two or more
// registered links/forwards preallocates its mix buffer.
func (c *Component) InitCycle(bufSize int, zero *Buffer) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, out := range c.outputs {
		out.InitCycle(bufSize)
	}
	for _, in := range c.inputs {
		in.InitCycle(bufSize, zero)
	}
}

// ResetCycle resets every channel for the next cycle and recomputes
// inputsWaiting from however many inputs still have links_waiting>0 after
// their own reset.
func (c *Component) ResetCycle() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	waiting := int64(0)
	for _, in := range c.inputs {
		in.ResetCycle()
		if in.GetLinksWaiting() > 0 {
			waiting++
		}
	}
	for _, out := range c.outputs {
		out.ResetCycle()
	}
	atomic.StoreInt64(&c.inputsWaiting, waiting)
}

// Notify notifies every output's links/forwards. Called by a node after its
// run() completes.
func (c *Component) Notify() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, out := range c.outputs {
		out.Notify()
	}
}

// IsReady reports whether every input for this cycle has already arrived.
func (c *Component) IsReady() bool {
	return atomic.LoadInt64(&c.inputsWaiting) == 0
}

// InputsWaiting returns the number of inputs still pending for this cycle.
func (c *Component) InputsWaiting() int64 {
	return atomic.LoadInt64(&c.inputsWaiting)
}

// sourceReady is called by an owned Input once its own links_waiting
// reaches zero. Decrementing to zero here means every input this node
// needs has fully arrived, so the parent node is told it may run.
func (c *Component) sourceReady() {
	remaining := atomic.AddInt64(&c.inputsWaiting, -1)
	if remaining < 0 {
		panic("audio: component inputs_waiting went negative")
	}
	if remaining == 0 && c.parent != nil {
		c.parent.WillRun()
	}
}
