//go:build cgo

package main

import (
	"github.com/shaban/pulsarengine/driver"
	"github.com/shaban/pulsarengine/driver/portaudio"
)

// newPortAudioDriver opens a real duplex PortAudio stream bound to bridge.
func newPortAudioDriver(bridge *driver.Bridge, sampleRate float64, bufferSize int) (Driver, error) {
	return portaudio.Open(bridge, sampleRate, bufferSize, 1)
}
