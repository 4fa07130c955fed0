package property

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQualifyAddsConfigPrefixWhenMissing(t *testing.T) {
	require.Equal(t, "config:gain", Qualify("gain"))
	require.Equal(t, "node:name", Qualify("node:name"))
	require.Equal(t, "plugin:uri", Qualify("plugin:uri"))
}

func TestSetStringParsesPerKind(t *testing.T) {
	p := New("size", KindSize)
	p.SetString("42")
	require.Equal(t, uint64(42), p.Size())

	p = New("int", KindInt)
	p.SetString("-7")
	require.Equal(t, int64(-7), p.Int())

	p = New("real", KindReal)
	p.SetString("3.5")
	require.InDelta(t, 3.5, p.Real(), 0.0001)

	p = New("str", KindString)
	p.SetString("hello")
	require.Equal(t, "hello", p.String())
}

func TestSetStringInvalidPanics(t *testing.T) {
	p := New("int", KindInt)
	require.Panics(t, func() { p.SetString("not-a-number") })
}

func TestSetNumberOnStringPanics(t *testing.T) {
	p := New("str", KindString)
	require.Panics(t, func() { p.SetNumber(1) })
}

func TestSetNumberNegativeSizePanics(t *testing.T) {
	p := New("size", KindSize)
	require.Panics(t, func() { p.SetNumber(-1) })
}

func TestMapAddDuplicatePanics(t *testing.T) {
	m := NewMap()
	m.Add("gain", KindReal)
	require.Panics(t, func() { m.Add("gain", KindReal) })
}

func TestMapGetUnknownPanics(t *testing.T) {
	m := NewMap()
	require.Panics(t, func() { m.Get("missing") })
}

func TestMapLookupIsNonFatal(t *testing.T) {
	m := NewMap()
	_, ok := m.Lookup("missing")
	require.False(t, ok)
}

func TestMapPeekPoke(t *testing.T) {
	m := NewMap()
	m.Add("level", KindReal)
	m.Poke("level", "0.75")
	require.Equal(t, "0.75", m.Peek("config:level"))
}

func TestMapNamesSorted(t *testing.T) {
	m := NewMap()
	m.Add("zzz", KindString)
	m.Add("aaa", KindString)
	names := m.Names()
	require.Equal(t, []string{"config:aaa", "config:zzz"}, names)
}
