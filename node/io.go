package node

// IO is a node that bridges the graph to an external realtime driver
// callback (spec §4.8): rather than enqueueing onto the worker pool when
// its inputs arrive, it calls its IODelegate directly from whatever
// goroutine delivered the final arrival — typically a worker executing an
// upstream node — while the driver callback stays parked in
// driver.Bridge.Process.
type IO struct {
	*Base
}

// NewIO constructs an IO node and attaches its driver bridge delegate.
func NewIO(name string, sched Scheduler, delegate IODelegate) *IO {
	b := newBase(name, KindIO, sched)
	b.SetIODelegate(delegate)
	return &IO{Base: b}
}
