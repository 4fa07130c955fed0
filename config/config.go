// Package config resolves the engine shell's runtime knobs — sample rate,
// buffer size, worker count, watchdog timeout, metrics address, driver
// backend — from flags, environment, and an optional config file, grounded
// on the tphakala-birdnet-go cobra+viper+pflag pattern (cmd/root.go). Graph
// topology is never read from here: spec.md and SPEC_FULL.md §3.3 keep
// YAML topology parsing out of scope, this package only configures the
// engine process itself.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings holds every scalar knob the engine shell needs before it can
// construct a domain.Domain and a driver backend.
type Settings struct {
	Name            string
	SampleRate      uint64
	BufferSize      uint64
	Workers         int
	WatchdogTimeout time.Duration
	LockWatchdog    time.Duration // 0 disables
	Driver          string        // "portaudio" or "null"
	MetricsAddr     string        // empty disables the /metrics server
	Debug           bool
}

// Default returns the engine's built-in defaults before flags/env/file are
// applied.
func Default() *Settings {
	return &Settings{
		Name:            "pulsar",
		SampleRate:      48000,
		BufferSize:      256,
		Workers:         4,
		WatchdogTimeout: 1500 * time.Millisecond,
		Driver:          "null",
	}
}

// BindFlags registers every setting as a persistent flag on cmd and binds
// it through viper so PULSAR_-prefixed environment variables and a config
// file can also supply values, in the same layering birdnet-go's
// setupFlags uses.
func BindFlags(cmd *cobra.Command, s *Settings) error {
	flags := cmd.PersistentFlags()

	flags.StringVar(&s.Name, "name", s.Name, "domain name, used in logs and metrics labels")
	flags.Uint64Var(&s.SampleRate, "sample-rate", s.SampleRate, "domain sample rate in Hz")
	flags.Uint64Var(&s.BufferSize, "buffer-size", s.BufferSize, "domain block size in frames")
	flags.IntVar(&s.Workers, "workers", s.Workers, "number of domain worker goroutines")
	flags.DurationVar(&s.WatchdogTimeout, "watchdog", s.WatchdogTimeout, "IO deadline watchdog timeout (0 disables)")
	flags.DurationVar(&s.LockWatchdog, "lock-watchdog", s.LockWatchdog, "debug-only node execute lock watchdog bound (0 disables)")
	flags.StringVar(&s.Driver, "driver", s.Driver, "driver backend: portaudio or null")
	flags.StringVar(&s.MetricsAddr, "metrics-addr", s.MetricsAddr, "address to serve /metrics on (empty disables)")
	flags.BoolVarP(&s.Debug, "debug", "d", s.Debug, "enable debug logging")

	v := viper.New()
	v.SetEnvPrefix("PULSAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigName("pulsar")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("config: bind flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: read config file: %w", err)
		}
	}

	return applyViper(v, flags, s)
}

// applyViper copies every resolved value back onto s, so a value supplied
// only via env or config file (never touched on the command line) still
// takes effect.
func applyViper(v *viper.Viper, flags *pflag.FlagSet, s *Settings) error {
	if !flags.Changed("name") {
		s.Name = v.GetString("name")
	}
	if !flags.Changed("sample-rate") {
		s.SampleRate = v.GetUint64("sample-rate")
	}
	if !flags.Changed("buffer-size") {
		s.BufferSize = v.GetUint64("buffer-size")
	}
	if !flags.Changed("workers") {
		s.Workers = v.GetInt("workers")
	}
	if !flags.Changed("watchdog") {
		s.WatchdogTimeout = v.GetDuration("watchdog")
	}
	if !flags.Changed("lock-watchdog") {
		s.LockWatchdog = v.GetDuration("lock-watchdog")
	}
	if !flags.Changed("driver") {
		s.Driver = v.GetString("driver")
	}
	if !flags.Changed("metrics-addr") {
		s.MetricsAddr = v.GetString("metrics-addr")
	}
	if !flags.Changed("debug") {
		s.Debug = v.GetBool("debug")
	}
	return s.Validate()
}

// Validate rejects combinations that would make the domain's activation
// fail fatally later — better to fail at config-parse time with a clear
// message than mid-activate.
func (s *Settings) Validate() error {
	if s.SampleRate == 0 {
		return fmt.Errorf("config: sample-rate must be > 0")
	}
	if s.BufferSize == 0 {
		return fmt.Errorf("config: buffer-size must be > 0")
	}
	if s.Workers <= 0 {
		return fmt.Errorf("config: workers must be > 0")
	}
	switch s.Driver {
	case "portaudio", "null":
	default:
		return fmt.Errorf("config: unknown driver %q (want portaudio or null)", s.Driver)
	}
	return nil
}
