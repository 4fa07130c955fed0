package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shaban/pulsarengine/internal/fault"
	"github.com/shaban/pulsarengine/node"
)

// recordingFaultHandler lets tests assert on fault.Fault calls without the
// default handler's log.Fatal exiting the test process.
type recordingFaultHandler struct {
	cat fault.Category
	msg string
}

func (h *recordingFaultHandler) Fault(cat fault.Category, msg string) {
	h.cat = cat
	h.msg = msg
}

func installRecordingFaultHandler(t *testing.T) *recordingFaultHandler {
	t.Helper()
	h := &recordingFaultHandler{}
	fault.SetDefault(h)
	t.Cleanup(func() { fault.SetDefault(fault.NewLogPanicHandler(nil)) })
	return h
}

type recordingNode struct {
	name      string
	activated int
	ran       chan struct{}
}

func newRecordingNode(name string) *recordingNode {
	return &recordingNode{name: name, ran: make(chan struct{}, 8)}
}

func (n *recordingNode) Name() string  { return n.name }
func (n *recordingNode) Activate()     { n.activated++ }
func (n *recordingNode) Execute()      { n.ran <- struct{}{} }

func TestDomainSatisfiesNodeScheduler(t *testing.T) {
	var _ node.Scheduler = (*Domain)(nil)
}

func TestActivateActivatesAllRegisteredNodesBeforeRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := New("t", 48000, 64)
	a := newRecordingNode("a")
	b := newRecordingNode("b")
	d.Register(a)
	d.Register(b)

	require.NoError(t, d.Activate(context.Background(), 2))
	require.Equal(t, 1, a.activated)
	require.Equal(t, 1, b.activated)

	require.NoError(t, d.Shutdown())
}

func TestRegisterAfterActivateActivatesImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := New("t", 48000, 64)
	require.NoError(t, d.Activate(context.Background(), 1))

	late := newRecordingNode("late")
	d.Register(late)
	require.Equal(t, 1, late.activated)

	require.NoError(t, d.Shutdown())
}

func TestAddReadyNodeDispatchesToAWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := New("t", 48000, 64)
	n := newRecordingNode("n")
	d.Register(n)
	require.NoError(t, d.Activate(context.Background(), 1))

	d.AddReadyNode(n)

	select {
	case <-n.ran:
	case <-time.After(time.Second):
		t.Fatal("ready node was never executed")
	}

	require.NoError(t, d.Shutdown())
}

func TestAddReadyNodeBeforeActivateIsFatal(t *testing.T) {
	h := installRecordingFaultHandler(t)

	d := New("t", 48000, 64)
	n := newRecordingNode("n")

	require.Panics(t, func() { d.AddReadyNode(n) })
	require.Equal(t, fault.CategoryProgrammer, h.cat)
}

func TestActivateTwiceIsFatal(t *testing.T) {
	defer goleak.VerifyNone(t)
	installRecordingFaultHandler(t)

	d := New("t", 48000, 64)
	require.NoError(t, d.Activate(context.Background(), 1))

	require.Panics(t, func() { d.Activate(context.Background(), 1) })

	require.NoError(t, d.Shutdown())
}

func TestActivateRequiresAtLeastOneWorker(t *testing.T) {
	installRecordingFaultHandler(t)

	d := New("t", 48000, 64)
	require.Panics(t, func() { d.Activate(context.Background(), 0) })
}

func TestShutdownBeforeActivateIsNoop(t *testing.T) {
	d := New("t", 48000, 64)
	require.NoError(t, d.Shutdown())
}
