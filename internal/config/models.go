package config

import (
	"fmt"
	"time"

	"github.com/muurk/ssdpmon/internal/discovery"
	"github.com/muurk/ssdpmon/internal/logging"
)

// CurrentVersion is the only config file version this build reads.
const CurrentVersion = 1

// Config is the complete ssdpmon configuration file.
type Config struct {
	Version  int            `yaml:"version" toml:"version"`
	Listener ListenerConfig `yaml:"listener" toml:"listener"`
	Log      LogConfig      `yaml:"log" toml:"log"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Capture  CaptureConfig  `yaml:"capture" toml:"capture"`
}

// ListenerConfig configures the discovery listener.
type ListenerConfig struct {
	// Interfaces lists local IPv4 addresses to bind; empty means all.
	Interfaces []string `yaml:"interfaces,omitempty" toml:"interfaces,omitempty"`
	// ReceiveTimeout is a Go duration string, e.g. "250ms".
	ReceiveTimeout string `yaml:"receive_timeout" toml:"receive_timeout"`
	BufferSize     int    `yaml:"buffer_size" toml:"buffer_size"`
	Multicast      bool   `yaml:"multicast" toml:"multicast"`
	Port           int    `yaml:"port" toml:"port"`
}

// LogConfig configures zap logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error; empty = silent
	Output string `yaml:"output" toml:"output"` // stdout, stderr or a file path
}

// ServerConfig configures `ssdpmon serve`.
type ServerConfig struct {
	Addr          string `yaml:"addr" toml:"addr"`
	SweepInterval string `yaml:"sweep_interval" toml:"sweep_interval"`
}

// CaptureConfig configures raw datagram capture.
type CaptureConfig struct {
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"` // empty = capture disabled
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Listener: ListenerConfig{
			ReceiveTimeout: discovery.DefaultReceiveTimeout.String(),
			BufferSize:     discovery.DefaultBufferSize,
			Multicast:      true,
			Port:           1900,
		},
		Log: LogConfig{
			Output: "stderr",
		},
		Server: ServerConfig{
			Addr:          ":8900",
			SweepInterval: "5s",
		},
	}
}

// Validate checks values that cannot be caught by decoding alone.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if _, err := c.Listener.Options(); err != nil {
		return err
	}
	if c.Listener.Port < 0 || c.Listener.Port > 65535 {
		return fmt.Errorf("listener.port %d out of range", c.Listener.Port)
	}
	if c.Log.Level != "" {
		if _, err := logging.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	if _, err := c.Server.Sweep(); err != nil {
		return err
	}
	return nil
}

// Options converts the listener section into discovery options.
func (l ListenerConfig) Options() (discovery.Options, error) {
	opts := discovery.Options{
		BufferSize: l.BufferSize,
		Multicast:  l.Multicast,
		Port:       l.Port,
	}

	if l.ReceiveTimeout != "" {
		d, err := time.ParseDuration(l.ReceiveTimeout)
		if err != nil {
			return discovery.Options{}, fmt.Errorf("listener.receive_timeout: %w", err)
		}
		if d <= 0 {
			return discovery.Options{}, fmt.Errorf("listener.receive_timeout must be positive, got %s", d)
		}
		opts.ReceiveTimeout = d
	}

	if len(l.Interfaces) > 0 {
		ips, err := discovery.ParseIPv4List(l.Interfaces)
		if err != nil {
			return discovery.Options{}, fmt.Errorf("listener.interfaces: %w", err)
		}
		opts.Interfaces = ips
	}

	return opts, nil
}

// Sweep parses the sweep interval. Empty means the server default.
func (s ServerConfig) Sweep() (time.Duration, error) {
	if s.SweepInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.SweepInterval)
	if err != nil {
		return 0, fmt.Errorf("server.sweep_interval: %w", err)
	}
	return d, nil
}

// Overrides carries command line values. A nil field leaves the file value
// alone.
type Overrides struct {
	Interfaces     []string
	ReceiveTimeout *time.Duration
	Multicast      *bool
	Port           *int
	LogLevel       *string
	ServerAddr     *string
	CaptureDir     *string
}

// Apply copies every non-nil override into c.
func (c *Config) Apply(o Overrides) {
	if o.Interfaces != nil {
		c.Listener.Interfaces = o.Interfaces
	}
	if o.ReceiveTimeout != nil {
		c.Listener.ReceiveTimeout = o.ReceiveTimeout.String()
	}
	if o.Multicast != nil {
		c.Listener.Multicast = *o.Multicast
	}
	if o.Port != nil {
		c.Listener.Port = *o.Port
	}
	if o.LogLevel != nil {
		c.Log.Level = *o.LogLevel
	}
	if o.ServerAddr != nil {
		c.Server.Addr = *o.ServerAddr
	}
	if o.CaptureDir != nil {
		c.Capture.Dir = *o.CaptureDir
	}
}
