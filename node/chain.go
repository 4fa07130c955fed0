package node

import "github.com/shaban/pulsarengine/audio"

// Chain is a named forwarder grouping a sub-graph of inner nodes behind a
// single boundary, mirroring the original engine's dedicated chain
// constructor (original_source/pulsar/node.cxx make_chain_node) rather than
// requiring callers to hand-build a bare forwarder and wire its forwards
// themselves.
type Chain struct {
	*Base
}

// NewChain constructs a chain boundary node. Use BoundaryInput/BoundaryOutput
// to declare the chain's external ports, then Forward its first inner
// input and last inner output to them.
func NewChain(name string, sched Scheduler) *Chain {
	return &Chain{Base: newBase(name, KindChain, sched)}
}

// BoundaryInput declares an input port on the chain itself and returns it so
// the caller can forward it into the first inner node's input.
func (c *Chain) BoundaryInput(name, channelKind string) *audio.Input {
	return c.AddInput(name, channelKind)
}

// BoundaryOutput declares an output port on the chain itself, to be wired
// from the last inner node's output via ForwardOutput.
func (c *Chain) BoundaryOutput(name, channelKind string) *audio.Output {
	return c.AddOutput(name, channelKind)
}

// ForwardInput creates a Forward from the chain's boundary input to an
// inner node's input, letting data reach the inner node without passing
// through the chain's own (nonexistent) component notify.
func (c *Chain) ForwardInput(boundary *audio.Input, inner *audio.Input) *audio.InputForward {
	return audio.NewInputForward(boundary, inner)
}

// ForwardOutput creates a Forward from an inner node's output to the
// chain's boundary output.
func (c *Chain) ForwardOutput(inner *audio.Output, boundary *audio.Output) *audio.OutputForward {
	return audio.NewOutputForward(inner, boundary)
}
