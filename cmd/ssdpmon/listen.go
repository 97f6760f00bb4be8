package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ssdpmon/internal/capture"
	"github.com/muurk/ssdpmon/internal/discovery"
	"github.com/muurk/ssdpmon/internal/logging"
	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ssdp"
	"github.com/muurk/ssdpmon/internal/ui"
)

var (
	captureDir   string
	showSearches bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print every valid notification as it arrives",
	Long: `Listen for SSDP NOTIFY messages and print one line per valid
notification. Malformed datagrams are dropped; run with --log-level warn to
see why.`,
	Example: `  # Listen on every interface
  ssdpmon listen

  # One interface, also showing M-SEARCH traffic
  ssdpmon listen -i 192.168.1.10 --searches

  # Keep the raw datagrams for later replay
  ssdpmon listen --capture ./captures`,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().StringVar(&captureDir, "capture", "", "Directory to write raw datagram captures (disabled if not specified)")
	listenCmd.Flags().BoolVar(&showSearches, "searches", false, "Also print M-SEARCH requests from other control points")
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := initLogging(cfg, ""); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	opts, err := cfg.Listener.Options()
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(nil)

	var lastSource string
	var w *capture.Writer
	if cfg.Capture.Dir != "" {
		var path string
		w, path, err = capture.Create(cfg.Capture.Dir)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
		fmt.Fprintf(os.Stderr, "Capturing to %s\n", path)
	}
	opts.OnDatagram = func(d discovery.Datagram) {
		if d.Source != nil {
			lastSource = d.Source.String()
		}
		if w != nil {
			w.Datagram(d)
		}
	}
	if showSearches {
		opts.OnSearch = func(req *ssdp.SearchRequest, from net.Addr) {
			printer.Search(from.String(), req)
		}
	}

	l, err := discovery.New(func(msg notify.Message) {
		printer.Notification(lastSource, msg)
	}, opts)
	if err != nil {
		return err
	}

	logging.Info("Listening", zap.Int("sockets", len(l.Addrs())))
	fmt.Fprintln(os.Stderr, ui.NewHeader("SSDP Listen", "ssdpmon listen", listenParams(cfg.Listener.Interfaces, opts)...).Render())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case <-l.Done():
	}
	l.Stop()

	if w != nil {
		fmt.Fprintf(os.Stderr, "Captured %d datagrams\n", w.Count())
	}
	return nil
}

func listenParams(ifaces []string, opts discovery.Options) []ui.Param {
	where := "all IPv4 interfaces"
	if len(ifaces) > 0 {
		where = fmt.Sprint(ifaces)
	}
	mode := "multicast"
	if !opts.Multicast {
		mode = "unicast"
	}
	return []ui.Param{
		{Key: "Interfaces", Value: where},
		{Key: "Mode", Value: fmt.Sprintf("%s, port %d", mode, opts.Port)},
	}
}
