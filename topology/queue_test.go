package topology

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueEnqueueAppliesInOrder(t *testing.T) {
	q := New(8, nil)
	q.Start()
	defer q.Close()

	var mu sync.Mutex
	var order []int32
	for i := int32(0); i < 10; i++ {
		i := i
		_, err := q.Enqueue(Func(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 10
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		require.Equal(t, int32(i), v, "topology ops must apply in enqueue order")
	}
}

func TestQueueEnqueueAfterCloseFails(t *testing.T) {
	q := New(1, nil)
	q.Start()
	q.Close()

	_, err := q.Enqueue(Func(func(ctx context.Context) error { return nil }))
	require.ErrorIs(t, err, ErrClosed)
}
