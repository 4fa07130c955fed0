package main

import (
	"sync"
	"time"

	"github.com/shaban/pulsarengine/driver"
)

// nullDriver drives a bridge on a wall-clock ticker instead of a real audio
// device, producing silence in and discarding output. It exists so the
// engine's graph-execution core can run end-to-end (demo, smoke test)
// without any hardware or cgo dependency.
type nullDriver struct {
	bridge     *driver.Bridge
	period     time.Duration
	channels   int
	bufferSize int

	stop chan struct{}
	wg   sync.WaitGroup
}

func newNullDriver(bridge *driver.Bridge, sampleRate float64, bufferSize, channels int) *nullDriver {
	return &nullDriver{
		bridge:     bridge,
		period:     time.Duration(float64(bufferSize) / sampleRate * float64(time.Second)),
		channels:   channels,
		bufferSize: bufferSize,
		stop:       make(chan struct{}),
	}
}

func (d *nullDriver) Start() error {
	d.bridge.Arm()
	d.wg.Add(1)
	go d.run()
	return nil
}

func (d *nullDriver) run() {
	defer d.wg.Done()
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	in := make([][]float32, d.channels)
	out := make([][]float32, d.channels)
	for i := range in {
		in[i] = make([]float32, d.bufferSize)
		out[i] = make([]float32, d.bufferSize)
	}

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			if err := d.bridge.Process(in, out, d.bufferSize); err != nil {
				panic(err)
			}
		}
	}
}

func (d *nullDriver) Close() error {
	close(d.stop)
	d.wg.Wait()
	return nil
}
