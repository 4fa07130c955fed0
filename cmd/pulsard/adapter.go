package main

import (
	"fmt"

	"github.com/shaban/pulsarengine/audio"
	"github.com/shaban/pulsarengine/plugin"
)

// pluginAdapter is a minimal plugin host (spec §4.6/§6): each cycle it
// connects the plugin's single audio-in/audio-out ports to the filter
// node's channel buffers, runs the plugin for one block, then disconnects.
type pluginAdapter struct {
	p       plugin.Plugin
	in      *audio.Input
	out     *audio.Output
	nframes int
}

func newPluginAdapter(p plugin.Plugin, in *audio.Input, out *audio.Output, nframes int) *pluginAdapter {
	return &pluginAdapter{p: p, in: in, out: out, nframes: nframes}
}

func (a *pluginAdapter) Run() error {
	inBuf := a.in.GetBuffer()
	outBuf := a.out.GetBuffer()

	if err := a.p.Connect(0, inBuf.Samples()); err != nil {
		return fmt.Errorf("pluginAdapter: connect in: %w", err)
	}
	if err := a.p.Connect(1, outBuf.Samples()); err != nil {
		return fmt.Errorf("pluginAdapter: connect out: %w", err)
	}
	if err := a.p.Run(a.nframes); err != nil {
		return fmt.Errorf("pluginAdapter: run: %w", err)
	}
	if err := a.p.Disconnect(0); err != nil {
		return fmt.Errorf("pluginAdapter: disconnect in: %w", err)
	}
	if err := a.p.Disconnect(1); err != nil {
		return fmt.Errorf("pluginAdapter: disconnect out: %w", err)
	}
	// The plugin wrote directly into outBuf's backing array; the node's own
	// Execute calls Audio.Notify() right after Run returns, which publishes
	// this same buffer — calling SetBuffer here would double-notify it.
	return nil
}
