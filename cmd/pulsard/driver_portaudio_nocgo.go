//go:build !cgo

package main

import (
	"fmt"

	"github.com/shaban/pulsarengine/driver"
)

// newPortAudioDriver reports that this binary was built without cgo, so
// the real PortAudio backend (driver/portaudio) was never compiled in.
func newPortAudioDriver(bridge *driver.Bridge, sampleRate float64, bufferSize int) (Driver, error) {
	return nil, fmt.Errorf("pulsard: --driver portaudio requires a cgo build")
}
