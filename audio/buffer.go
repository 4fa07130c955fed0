// Package audio implements the per-cycle buffer and channel/link graph that
// carries sample data between nodes: buffers, typed input/output channels,
// links, forwards, and the per-node arrival-counting component.
package audio

import "fmt"

// Sample is the engine's native sample representation. The core never
// converts sample formats (spec Non-goal); drivers are responsible for
// converting to/from their own native format at the boundary.
type Sample = float32

// Buffer is a contiguous block of Size samples. It is either owned (storage
// allocated and zeroed by the buffer itself) or borrowed (wraps a slice
// supplied by an external caller, e.g. a driver's per-callback buffer). A
// borrowed buffer must not outlive the call that lent it its storage.
type Buffer struct {
	data      []Sample
	ownMemory bool
}

// NewOwned allocates a zero-initialized buffer of the given size.
func NewOwned(size int) *Buffer {
	return &Buffer{data: make([]Sample, size), ownMemory: true}
}

// NewBorrowed wraps an externally owned slice. The returned Buffer does not
// copy or retain ownership of storage beyond the caller's own lifetime.
func NewBorrowed(storage []Sample) *Buffer {
	return &Buffer{data: storage, ownMemory: false}
}

// Size returns the number of samples in the buffer.
func (b *Buffer) Size() int { return len(b.data) }

// Samples exposes the underlying slice for direct reads. Callers must not
// retain it past the buffer's owning cycle (owned) or callback (borrowed).
func (b *Buffer) Samples() []Sample { return b.data }

// OwnsMemory reports whether the buffer allocated its own storage.
func (b *Buffer) OwnsMemory() bool { return b.ownMemory }

// Zero clears every sample to silence.
func (b *Buffer) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// Mix adds other's samples elementwise into this buffer. Size mismatch is a
// programmer error (spec §7 category 1: topology/programmer error) and is
// fatal rather than returning an error — the hot RT path has nowhere
// meaningful to propagate a recoverable failure to.
func (b *Buffer) Mix(other *Buffer) {
	if other.Size() != b.Size() {
		panic(fmt.Sprintf("audio: mix size mismatch: dst=%d src=%d", b.Size(), other.Size()))
	}
	for i, v := range other.data {
		b.data[i] += v
	}
}

// Set overwrites the first length samples from src. length must not exceed
// the buffer's size.
func (b *Buffer) Set(src []Sample, length int) {
	if length > b.Size() {
		panic(fmt.Sprintf("audio: set length %d exceeds buffer size %d", length, b.Size()))
	}
	copy(b.data[:length], src[:length])
}

// SetFrom copies another buffer's full contents; sizes must match.
func (b *Buffer) SetFrom(other *Buffer) {
	if other.Size() != b.Size() {
		panic(fmt.Sprintf("audio: set size mismatch: dst=%d src=%d", b.Size(), other.Size()))
	}
	copy(b.data, other.data)
}

// Scale multiplies every sample by k.
func (b *Buffer) Scale(k float32) {
	for i := range b.data {
		b.data[i] *= k
	}
}

// Deinterlace splits an interleaved frame buffer into per-channel
// destination slices. Each dst slice must have capacity for frames samples.
func Deinterlace(interleaved []Sample, channels int, dst [][]Sample) {
	frames := len(interleaved) / channels
	for ch := 0; ch < channels; ch++ {
		out := dst[ch]
		for f := 0; f < frames; f++ {
			out[f] = interleaved[f*channels+ch]
		}
	}
}

// Interlace combines per-channel source slices into a single interleaved
// destination buffer sized channels*frames.
func Interlace(src [][]Sample, frames int, dst []Sample) {
	channels := len(src)
	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			dst[f*channels+ch] = src[ch][f]
		}
	}
}
