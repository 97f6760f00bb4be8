package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ssdpmon/internal/logging"
	"github.com/muurk/ssdpmon/internal/ui"
)

var watchLogFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of announced devices and services",
	Long: `Open a full screen table of every announcement currently alive on
the network. Entries disappear on byebye or when their max-age lapses.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Write logs to this file while the dashboard runs (default: discard)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal.
	if watchLogFile == "" {
		logging.SetLogger(zap.NewNop())
	} else if err := initLogging(cfg, watchLogFile); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	opts, err := cfg.Listener.Options()
	if err != nil {
		return err
	}

	return ui.RunWatch(opts, listenParams(cfg.Listener.Interfaces, opts)...)
}
