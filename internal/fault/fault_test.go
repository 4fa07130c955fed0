package fault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	cat Category
	msg string
}

func (h *recordingHandler) Fault(cat Category, msg string) {
	h.cat = cat
	h.msg = msg
}

func TestFaultRoutesThroughInstalledHandlerAndAlwaysPanics(t *testing.T) {
	h := &recordingHandler{}
	SetDefault(h)
	defer SetDefault(NewLogPanicHandler(nil))

	require.Panics(t, func() { Fault(CategoryInvariant, "bad thing %d", 7) })
	require.Equal(t, CategoryInvariant, h.cat)
	require.Equal(t, "bad thing 7", h.msg)
}

func TestSetDefaultIgnoresNil(t *testing.T) {
	h := &recordingHandler{}
	SetDefault(h)
	defer SetDefault(NewLogPanicHandler(nil))

	SetDefault(nil)
	require.Panics(t, func() { Fault(CategoryResource, "still routed") })
	require.Equal(t, "still routed", h.msg)
}
