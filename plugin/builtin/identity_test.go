package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityCopiesInputToOutput(t *testing.T) {
	p := NewIdentity()
	require.NoError(t, p.Activate())

	in := []float32{1, 2, 3, 4}
	out := make([]float32, 4)
	require.NoError(t, p.Connect(0, in))
	require.NoError(t, p.Connect(1, out))

	require.NoError(t, p.Run(4))
	require.Equal(t, []float32{1, 2, 3, 4}, out)

	require.NoError(t, p.Disconnect(0))
	require.NoError(t, p.Disconnect(1))
}

func TestIdentityRunBeforeConnectFails(t *testing.T) {
	p := NewIdentity()
	require.Error(t, p.Run(4))
}

func TestIdentityConnectRejectsOutOfRangePort(t *testing.T) {
	p := NewIdentity()
	require.Error(t, p.Connect(2, []float32{1}))
}

func TestIdentityHasNoControlPorts(t *testing.T) {
	p := NewIdentity()
	_, err := p.ControlValue(0)
	require.Error(t, err)
	require.Error(t, p.SetControlValue(0, 1))
}
