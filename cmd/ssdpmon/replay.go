package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/ssdpmon/internal/capture"
	"github.com/muurk/ssdpmon/internal/logging"
	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/ui"
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>...",
	Short: "Run captured datagrams through the parser again",
	Long: `Read capture files written by 'listen --capture' or 'serve --capture'
and print every notification that validates. Use --log-level warn to see the
reason each rejected datagram was dropped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := initLogging(cfg, ""); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	printer := ui.NewPrinter(nil)
	var total capture.Stats

	for _, path := range args {
		r, err := capture.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open capture: %w", err)
		}

		stats, err := capture.Replay(r, func(rec capture.Record, msg notify.Message) {
			printer.Notification(rec.Source, msg)
		})
		_ = r.Close()

		total.Add(stats)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	details := []ui.Param{
		{Key: "Files", Value: strconv.Itoa(len(args))},
		{Key: "Records", Value: strconv.Itoa(total.Records)},
		{Key: "Valid", Value: strconv.Itoa(total.Parsed)},
		{Key: "Searches", Value: strconv.Itoa(total.Searches)},
		{Key: "Dropped", Value: strconv.Itoa(total.Dropped)},
	}
	for _, header := range slices.Sorted(maps.Keys(total.Rejected)) {
		label := "  " + header
		if header == "" {
			label = "  framing"
		}
		details = append(details, ui.Param{Key: label, Value: strconv.Itoa(total.Rejected[header])})
	}

	printer.Println(ui.NewSummary("Replay complete", details...).Render())
	return nil
}
