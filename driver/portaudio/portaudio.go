//go:build cgo

// Package portaudio implements the IO node's driver backend against a real
// PortAudio stream (spec §4.8: "an audio driver's process callback, e.g. a
// Jack/PortAudio stream"), grounded on the other_examples PortAudio capture
// client's device-resolution and stream-parameter pattern. It is gated by
// //go:build cgo the same way the teacher gates its macOS-only AVFoundation
// code by //go:build darwin — PortAudio's Go binding is cgo-only, and
// nothing in this package is usable without it.
package portaudio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/shaban/pulsarengine/driver"
)

// Backend owns one duplex PortAudio stream and feeds it into a
// driver.Bridge's Process method on every callback.
type Backend struct {
	stream     *portaudio.Stream
	bridge     *driver.Bridge
	inBuf      []float32
	outBuf     []float32
	channels   int
	bufferSize int
}

// Open resolves the default input/output devices and opens a duplex stream
// at the requested sample rate and buffer size whose callback drives
// bridge.Process. No separate check against the devices' own sample rates
// is made; if PortAudio cannot open the stream with these parameters, its
// error is returned so the caller's config/CLI layer can log it with
// context before aborting.
func Open(bridge *driver.Bridge, sampleRate float64, bufferSize, channels int) (*Backend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}

	inDev, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: default input device: %w", err)
	}
	outDev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: default output device: %w", err)
	}

	b := &Backend{
		bridge:     bridge,
		channels:   channels,
		bufferSize: bufferSize,
		inBuf:      make([]float32, bufferSize*channels),
		outBuf:     make([]float32, bufferSize*channels),
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   inDev,
			Channels: channels,
			Latency:  inDev.DefaultLowInputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Device:   outDev,
			Channels: channels,
			Latency:  outDev.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: bufferSize,
	}

	stream, err := portaudio.OpenStream(params, b.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: open stream: %w", err)
	}
	b.stream = stream
	return b, nil
}

// callback is PortAudio's realtime entry point; it hands each block to the
// bridge. With channels == 1 the interleaved buffers PortAudio delivers are
// exactly the single per-channel slice the bridge expects. Multi-channel
// streams are not deinterleaved: the whole interleaved buffer is passed as
// one channel, with nframes = len(in).
func (b *Backend) callback(in, out []float32) {
	inPtrs := [][]float32{in}
	outPtrs := [][]float32{out}
	if err := b.bridge.Process(inPtrs, outPtrs, len(in)); err != nil {
		panic(fmt.Sprintf("portaudio: bridge process failed: %v", err))
	}
}

// Start arms the bridge's watchdog and starts the PortAudio stream.
func (b *Backend) Start() error {
	b.bridge.Arm()
	return b.stream.Start()
}

// Close stops the stream and releases PortAudio's global state.
func (b *Backend) Close() error {
	if err := b.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
