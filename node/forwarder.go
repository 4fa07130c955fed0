package node

// Forwarder is a node that does no DSP of its own: it exists only so its
// inputs' and outputs' Forward edges can bypass the Link-availability gate
// across a sub-graph boundary (spec §3.3/§4.3). A forwarder's own component
// never notifies and never reaches the run queue; WillRun simply re-arms it
// for the next cycle.
type Forwarder struct {
	*Base
}

// NewForwarder constructs a forwarder node.
func NewForwarder(name string, sched Scheduler) *Forwarder {
	return &Forwarder{Base: newBase(name, KindForwarder, sched)}
}
