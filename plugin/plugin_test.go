package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultFromHintExplicit(t *testing.T) {
	require.Equal(t, float32(0.5), DefaultFromHint(Hint{Kind: HintExplicit, Explicit: 0.5}))
}

func TestDefaultFromHintLowHigh(t *testing.T) {
	require.Equal(t, float32(1), DefaultFromHint(Hint{Kind: HintLow, Low: 1, High: 9}))
	require.Equal(t, float32(9), DefaultFromHint(Hint{Kind: HintHigh, Low: 1, High: 9}))
}

func TestDefaultFromHintMidpointArithmetic(t *testing.T) {
	require.Equal(t, float32(5), DefaultFromHint(Hint{Kind: HintMidpoint, Low: 1, High: 9}))
}

func TestDefaultFromHintMidpointLogarithmicUsesGeometricMean(t *testing.T) {
	got := DefaultFromHint(Hint{Kind: HintMidpoint, Low: 1, High: 100, Logarithmic: true})
	require.InDelta(t, 10.0, got, 0.0001)
}

func TestAudioPortIndices(t *testing.T) {
	ports := []Port{
		{Kind: KindAudio, Direction: DirectionInput},
		{Kind: KindControl, Direction: DirectionInput},
		{Kind: KindAudio, Direction: DirectionOutput},
	}
	require.Equal(t, []int{0}, AudioPortIndices(ports, DirectionInput))
	require.Equal(t, []int{2}, AudioPortIndices(ports, DirectionOutput))
}

func TestValidatePortIndex(t *testing.T) {
	ports := []Port{{Kind: KindAudio}}
	require.NoError(t, ValidatePortIndex(ports, 0))
	require.Error(t, ValidatePortIndex(ports, 1))
	require.Error(t, ValidatePortIndex(ports, -1))
}
