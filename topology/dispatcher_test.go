package topology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shaban/pulsarengine/audio"
	"github.com/shaban/pulsarengine/domain"
	"github.com/shaban/pulsarengine/node"
)

func TestDispatcherRunSyncWaitsForResult(t *testing.T) {
	dom := domain.New("t", 48000, 64)
	d := NewDispatcher(dom, nil)
	defer d.Close()

	var ran bool
	err := d.RunSync(Func(func(ctx context.Context) error {
		ran = true
		return nil
	}))
	require.NoError(t, err)
	require.True(t, ran)
}

func TestDispatcherRegisterNodeAndLinkBuildAGraph(t *testing.T) {
	dom := domain.New("t", 48000, 64)
	d := NewDispatcher(dom, nil)
	defer d.Close()

	src := node.NewFilter("src", dom, nil)
	sink := node.NewFilter("sink", dom, nil)
	out := src.AddOutput("out", "audio")
	in := sink.AddInput("in", "audio")

	require.NoError(t, d.RegisterNode(src))
	require.NoError(t, d.RegisterNode(sink))
	require.NoError(t, d.Link(out, in))

	// RunSync forces a barrier against the queue, so by the time it returns
	// every previously enqueued op (registration, link) has already applied.
	require.NoError(t, d.RunSync(Func(func(ctx context.Context) error { return nil })))

	require.NoError(t, dom.Activate(context.Background(), 1))
	defer dom.Shutdown()

	require.Equal(t, int64(1), in.GetLinksWaiting())
}

func TestDispatcherEnqueueAfterCloseFails(t *testing.T) {
	dom := domain.New("t", 48000, 64)
	d := NewDispatcher(dom, nil)
	d.Close()

	err := d.RunSync(Func(func(ctx context.Context) error { return nil }))
	require.ErrorIs(t, err, ErrClosed)
}
