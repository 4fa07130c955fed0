package builtin

import (
	"fmt"

	"github.com/shaban/pulsarengine/plugin"
)

// Gain is an audio-in/audio-out plugin with one linear-scale control port.
// Its default value is derived from the control port's hint via
// plugin.DefaultFromHint, exercising the same path a real LADSPA gain
// plugin's hint metadata would.
type Gain struct {
	in, out []float32
	level   float32
}

var gainHint = plugin.Hint{Kind: plugin.HintMidpoint, Low: 0.0, High: 2.0}

// NewGain returns a Gain plugin whose level defaults to the midpoint of its
// declared range (1.0).
func NewGain() *Gain {
	return &Gain{level: plugin.DefaultFromHint(gainHint)}
}

func (p *Gain) Ports() []plugin.Port {
	return []plugin.Port{
		{Name: "in", Kind: plugin.KindAudio, Direction: plugin.DirectionInput},
		{Name: "out", Kind: plugin.KindAudio, Direction: plugin.DirectionOutput},
		{Name: "level", Kind: plugin.KindControl, Direction: plugin.DirectionInput, Hint: gainHint},
	}
}

func (p *Gain) Activate() error { return nil }

func (p *Gain) Connect(portIndex int, data []float32) error {
	if err := plugin.ValidatePortIndex(p.Ports(), portIndex); err != nil {
		return err
	}
	switch portIndex {
	case 0:
		p.in = data
	case 1:
		p.out = data
	default:
		return fmt.Errorf("plugin: gain port %d is not an audio port", portIndex)
	}
	return nil
}

func (p *Gain) Run(nframes int) error {
	if p.in == nil || p.out == nil {
		return fmt.Errorf("plugin: gain not fully connected")
	}
	n := nframes
	if len(p.in) < n {
		n = len(p.in)
	}
	if len(p.out) < n {
		n = len(p.out)
	}
	for i := 0; i < n; i++ {
		p.out[i] = p.in[i] * p.level
	}
	return nil
}

func (p *Gain) Disconnect(portIndex int) error {
	switch portIndex {
	case 0:
		p.in = nil
	case 1:
		p.out = nil
	}
	return nil
}

func (p *Gain) ControlValue(portIndex int) (float32, error) {
	if portIndex != 2 {
		return 0, fmt.Errorf("plugin: gain port %d is not a control port", portIndex)
	}
	return p.level, nil
}

func (p *Gain) SetControlValue(portIndex int, value float32) error {
	if portIndex != 2 {
		return fmt.Errorf("plugin: gain port %d is not a control port", portIndex)
	}
	p.level = value
	return nil
}
