package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferZero(t *testing.T) {
	b := NewOwned(4)
	copy(b.Samples(), []Sample{1, 2, 3, 4})
	b.Zero()
	require.Equal(t, []Sample{0, 0, 0, 0}, b.Samples())
}

func TestBufferMixAdds(t *testing.T) {
	dst := NewOwned(3)
	copy(dst.Samples(), []Sample{1, 2, 3})
	src := NewOwned(3)
	copy(src.Samples(), []Sample{10, 20, 30})

	dst.Mix(src)

	require.Equal(t, []Sample{11, 22, 33}, dst.Samples())
}

func TestBufferMixSizeMismatchPanics(t *testing.T) {
	dst := NewOwned(3)
	src := NewOwned(4)
	require.Panics(t, func() { dst.Mix(src) })
}

func TestBufferSetTruncated(t *testing.T) {
	dst := NewOwned(4)
	dst.Set([]Sample{1, 2}, 2)
	require.Equal(t, []Sample{1, 2, 0, 0}, dst.Samples())
}

func TestBufferSetLengthExceedsSizePanics(t *testing.T) {
	dst := NewOwned(2)
	require.Panics(t, func() { dst.Set([]Sample{1, 2, 3}, 3) })
}

func TestBufferScale(t *testing.T) {
	b := NewOwned(2)
	copy(b.Samples(), []Sample{2, 4})
	b.Scale(0.5)
	require.Equal(t, []Sample{1, 2}, b.Samples())
}

func TestBufferBorrowedDoesNotOwnMemory(t *testing.T) {
	storage := []Sample{1, 2, 3}
	b := NewBorrowed(storage)
	require.False(t, b.OwnsMemory())
	require.Equal(t, 3, b.Size())
}

func TestDeinterlaceInterlaceRoundTrip(t *testing.T) {
	interleaved := []Sample{1, 10, 2, 20, 3, 30}
	dst := [][]Sample{make([]Sample, 3), make([]Sample, 3)}
	Deinterlace(interleaved, 2, dst)
	require.Equal(t, []Sample{1, 2, 3}, dst[0])
	require.Equal(t, []Sample{10, 20, 30}, dst[1])

	out := make([]Sample, 6)
	Interlace(dst, 3, out)
	require.Equal(t, interleaved, out)
}
