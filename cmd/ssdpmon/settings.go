package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ssdpmon/internal/config"
	"github.com/muurk/ssdpmon/internal/logging"
)

// loadSettings reads the config file and layers the flags the user actually
// set on top of it.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("interface") {
		o.Interfaces = interfaces
	}
	if flags.Changed("port") {
		o.Port = &listenPort
	}
	if flags.Changed("unicast") {
		multicast := !unicast
		o.Multicast = &multicast
	}
	if flags.Changed("receive-timeout") {
		d, err := time.ParseDuration(receiveTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --receive-timeout: %w", err)
		}
		o.ReceiveTimeout = &d
	}
	if flags.Changed("log-level") {
		o.LogLevel = &logLevel
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		o.ServerAddr = &serveAddr
	}
	if flags.Lookup("capture") != nil && flags.Changed("capture") {
		o.CaptureDir = &captureDir
	}
	cfg.Apply(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogging starts zap with the configured level. output overrides the
// configured destination when non-empty.
func initLogging(cfg *config.Config, output string) error {
	if output == "" {
		output = cfg.Log.Output
	}
	if output == "" {
		output = "stderr"
	}
	return logging.InitializeWithOutput(cfg.Log.Level, output)
}
