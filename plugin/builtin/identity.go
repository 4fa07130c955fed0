// Package builtin ships small in-process reference plugins used by tests
// and the demo command in place of a real LADSPA/LV2 host (spec §1:
// dynamic plugin loading is out of scope; only the runtime contract is).
package builtin

import (
	"fmt"

	"github.com/shaban/pulsarengine/plugin"
)

// Identity is a single audio-in/audio-out plugin that copies its input to
// its output unchanged. Useful for exercising the filter-node execute path
// without any real DSP.
type Identity struct {
	in, out []float32
}

// NewIdentity returns a ready-to-activate Identity plugin.
func NewIdentity() *Identity { return &Identity{} }

func (p *Identity) Ports() []plugin.Port {
	return []plugin.Port{
		{Name: "in", Kind: plugin.KindAudio, Direction: plugin.DirectionInput},
		{Name: "out", Kind: plugin.KindAudio, Direction: plugin.DirectionOutput},
	}
}

func (p *Identity) Activate() error { return nil }

func (p *Identity) Connect(portIndex int, data []float32) error {
	if err := plugin.ValidatePortIndex(p.Ports(), portIndex); err != nil {
		return err
	}
	switch portIndex {
	case 0:
		p.in = data
	case 1:
		p.out = data
	}
	return nil
}

func (p *Identity) Run(nframes int) error {
	if p.in == nil || p.out == nil {
		return fmt.Errorf("plugin: identity not fully connected")
	}
	n := nframes
	if len(p.in) < n {
		n = len(p.in)
	}
	if len(p.out) < n {
		n = len(p.out)
	}
	copy(p.out[:n], p.in[:n])
	return nil
}

func (p *Identity) Disconnect(portIndex int) error {
	switch portIndex {
	case 0:
		p.in = nil
	case 1:
		p.out = nil
	}
	return nil
}

func (p *Identity) ControlValue(portIndex int) (float32, error) {
	return 0, fmt.Errorf("plugin: identity has no control ports")
}

func (p *Identity) SetControlValue(portIndex int, value float32) error {
	return fmt.Errorf("plugin: identity has no control ports")
}
