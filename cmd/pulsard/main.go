// Command pulsard wires together the engine shell: config resolution,
// structured logging, the domain scheduler, a reference IO-gain-IO graph,
// and (optionally) a Prometheus /metrics endpoint. It plays the role the
// teacher's deleted examples/ demo programs played, generalized to the new
// domain (SPEC_FULL.md §3.3/§4).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shaban/pulsarengine/audio"
	"github.com/shaban/pulsarengine/config"
	"github.com/shaban/pulsarengine/domain"
	"github.com/shaban/pulsarengine/driver"
	"github.com/shaban/pulsarengine/internal/metrics"
	"github.com/shaban/pulsarengine/node"
	"github.com/shaban/pulsarengine/plugin/builtin"
)

func main() {
	settings := config.Default()

	root := &cobra.Command{
		Use:   "pulsard",
		Short: "pulsarengine reference engine shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings)
		},
	}
	if err := config.BindFlags(root, settings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(s *config.Settings) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if s.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewDomain(reg, s.Name)

	dom := domain.New(s.Name, s.SampleRate, s.BufferSize,
		domain.WithLogger(logger),
		domain.WithMetrics(m),
		domain.WithLockWatchdog(s.LockWatchdog),
	)

	ioNode := node.NewIO("audio", dom, nil)
	ioIn := ioNode.AddOutput("in", "audio")  // driver input is published here
	ioOut := ioNode.AddInput("out", "audio") // driver output is read from here
	dom.Register(ioNode)

	gain := builtin.NewGain()
	gainNode := node.NewFilter("gain", dom, nil)
	gainIn := gainNode.AddInput("in", "audio")
	gainOut := gainNode.AddOutput("out", "audio")
	gainNode.SetFilterDelegate(newPluginAdapter(gain, gainIn, gainOut, int(s.BufferSize)))
	dom.Register(gainNode)

	audio.NewLink(ioIn, gainIn)
	audio.NewLink(gainOut, ioOut)

	if err := gain.Activate(); err != nil {
		return fmt.Errorf("pulsard: gain plugin activate: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := dom.Activate(ctx, s.Workers); err != nil {
		return fmt.Errorf("pulsard: domain activate: %w", err)
	}

	bridge := driver.New(ioNode, s.WatchdogTimeout, []*audio.Output{ioIn}, []*audio.Input{ioOut}, logger, m)

	var drv Driver
	switch s.Driver {
	case "portaudio":
		d, err := newPortAudioDriver(bridge, float64(s.SampleRate), int(s.BufferSize))
		if err != nil {
			return err
		}
		drv = d
	default:
		drv = newNullDriver(bridge, float64(s.SampleRate), int(s.BufferSize), 1)
	}

	if err := drv.Start(); err != nil {
		return fmt.Errorf("pulsard: driver start: %w", err)
	}
	logger.Info("engine started", "driver", s.Driver, "sample_rate", s.SampleRate, "buffer_size", s.BufferSize, "workers", s.Workers)

	var srv *http.Server
	if s.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: s.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		logger.Info("metrics listening", "addr", s.MetricsAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	_ = drv.Close()
	if srv != nil {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	}
	return dom.Shutdown()
}
