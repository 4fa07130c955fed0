package node

// Filter is a node that consumes its inputs, runs a DSP routine (its
// FilterDelegate, typically a plugin host adapter), and produces outputs.
// It is the only node kind that ever reaches the scheduler's run queue.
type Filter struct {
	*Base
}

// NewFilter constructs a filter node and attaches its DSP delegate. delegate
// may be nil for a filter under construction whose ports are still being
// wired; SetFilterDelegate can attach it later, but it must be set before
// the domain activates.
func NewFilter(name string, sched Scheduler, delegate FilterDelegate) *Filter {
	b := newBase(name, KindFilter, sched)
	b.SetFilterDelegate(delegate)
	return &Filter{Base: b}
}
