package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/ssdpmon/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Publish announcements over HTTP and WebSocket",
	Long: `Run the listener and publish every change to the announcement table.

  /ws       WebSocket feed of JSON events
  /devices  current table as JSON
  /healthz  counters`,
	Example: `  ssdpmon serve --addr :8900 --log-level info

  # Capture the raw traffic at the same time
  ssdpmon serve --capture ./captures`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8900", "HTTP listen address")
	serveCmd.Flags().StringVar(&captureDir, "capture", "", "Directory to write raw datagram captures (disabled if not specified)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	opts, err := cfg.Listener.Options()
	if err != nil {
		return err
	}
	sweep, err := cfg.Server.Sweep()
	if err != nil {
		return err
	}

	srv, err := server.New(&server.Config{
		Addr:          cfg.Server.Addr,
		LogLevel:      cfg.Log.Level,
		CaptureDir:    cfg.Capture.Dir,
		SweepInterval: sweep,
		Listener:      opts,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
