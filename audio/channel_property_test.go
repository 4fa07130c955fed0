package audio

import (
	"testing"

	"pgregory.net/rapid"
)

// TestArrivalProtocolMixVsPassthrough exercises the fan-in arrival protocol
// (spec §4.2: zero sources -> the shared zero buffer, exactly one -> the
// arrival buffer itself with no copy, two or more -> their elementwise sum)
// across randomized fan-in counts and buffer sizes.
func TestArrivalProtocolMixVsPassthrough(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bufSize := rapid.IntRange(1, 16).Draw(t, "bufSize")
		nSources := rapid.IntRange(1, 6).Draw(t, "nSources")

		sink := newFakeNode("sink")
		sinkComp := NewComponent(sink)
		in := sinkComp.AddInput("in", sink)

		comps := make([]*Component, 0, nSources+1)
		outs := make([]*Output, nSources)
		for i := 0; i < nSources; i++ {
			src := newFakeNode("src")
			c := NewComponent(src)
			out := c.AddOutput("out", src)
			NewLink(out, in)
			comps = append(comps, c)
			outs[i] = out
		}
		comps = append(comps, sinkComp)

		cycle(bufSize, comps...)

		samples := make([][]Sample, nSources)
		expected := make([]Sample, bufSize)
		for i := 0; i < nSources; i++ {
			samples[i] = make([]Sample, bufSize)
			for j := 0; j < bufSize; j++ {
				v := Sample(rapid.IntRange(-100, 100).Draw(t, "sample"))
				samples[i][j] = v
				expected[j] += v
			}
		}

		var lastArrival *Buffer
		for i := 0; i < nSources; i++ {
			buf := NewOwned(bufSize)
			copy(buf.Samples(), samples[i])
			lastArrival = buf
			outs[i].SetBuffer(buf)
		}

		<-sink.ran

		got := in.GetBuffer()
		if nSources == 1 {
			if got != lastArrival {
				t.Fatalf("single-source fan-in must hand back the arrival buffer unchanged, no mix copy")
			}
		}
		for j, want := range expected {
			if got.Samples()[j] != want {
				t.Fatalf("sample %d: got %v want %v (nSources=%d)", j, got.Samples()[j], want, nSources)
			}
		}
	})
}
