// Ssdpmon watches SSDP NOTIFY traffic on the local network.
//
// It joins the SSDP multicast group on every IPv4 interface, validates each
// alive, update and byebye announcement, and prints, tracks or publishes
// what it sees.
//
// Usage:
//
//	ssdpmon [command] [flags]
//
// See 'ssdpmon --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ssdpmon/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ssdpmon",
	Short: "SSDP notification monitor",
	Long: `A monitor for SSDP (UPnP discovery) announcements.

ssdpmon listens on 239.255.255.250:1900, validates every NOTIFY message
against the UPnP Device Architecture rules for UPnP 1.0, 1.1 and 2.0, and
shows which devices and services are currently announced.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Global flags
var (
	configPath     string
	logLevel       string
	interfaces     []string
	listenPort     int
	unicast        bool
	receiveTimeout string
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/ssdpmon/config.yaml; .toml also accepted)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); empty = silent")
	rootCmd.PersistentFlags().StringSliceVarP(&interfaces, "interface", "i", nil, "Local IPv4 address to listen on (repeatable; default all)")
	rootCmd.PersistentFlags().IntVarP(&listenPort, "port", "p", 1900, "UDP port (0 with --unicast picks a free port)")
	rootCmd.PersistentFlags().BoolVar(&unicast, "unicast", false, "Bind plain unicast sockets instead of joining the multicast group")
	rootCmd.PersistentFlags().StringVar(&receiveTimeout, "receive-timeout", "", "Upper bound on one poll cycle, e.g. 250ms")

	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ssdpmon %s\n", version.Full())
	},
}
