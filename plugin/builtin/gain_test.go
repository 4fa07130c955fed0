package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGainDefaultsToRangeMidpoint(t *testing.T) {
	p := NewGain()
	level, err := p.ControlValue(2)
	require.NoError(t, err)
	require.Equal(t, float32(1.0), level)
}

func TestGainScalesInputByLevel(t *testing.T) {
	p := NewGain()
	require.NoError(t, p.SetControlValue(2, 2.0))

	in := []float32{1, 2, 3}
	out := make([]float32, 3)
	require.NoError(t, p.Connect(0, in))
	require.NoError(t, p.Connect(1, out))

	require.NoError(t, p.Run(3))
	require.Equal(t, []float32{2, 4, 6}, out)
}

func TestGainConnectRejectsControlPortAsAudio(t *testing.T) {
	p := NewGain()
	require.Error(t, p.Connect(2, []float32{1}))
}

func TestGainControlValueRejectsAudioPortIndex(t *testing.T) {
	p := NewGain()
	_, err := p.ControlValue(0)
	require.Error(t, err)
	require.Error(t, p.SetControlValue(1, 1))
}

func TestGainRunBeforeConnectFails(t *testing.T) {
	p := NewGain()
	require.Error(t, p.Run(4))
}
