// Mlavr-bridge is a WebSocket bridge for Mark Levinson AV preamplifiers.
//
// It keeps one TCP control connection to the preamplifier, polls its state
// on a fixed cadence and republishes it over HTTP: a one-shot JSON snapshot
// on /state and a push stream on /ws. Home automation systems talk to the
// bridge instead of competing for the device's single control socket.
//
// Usage:
//
//	mlavr-bridge serve [flags]
//
// See 'mlavr-bridge serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/mlavr/internal/avr"
	"github.com/muurk/mlavr/internal/bridge"
	"github.com/muurk/mlavr/internal/config"
	"github.com/muurk/mlavr/internal/logging"
	"github.com/muurk/mlavr/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mlavr-bridge",
	Short: "Mark Levinson Preamplifier WebSocket Bridge",
	Long: `A bridge daemon that republishes a Mark Levinson preamplifier's state
over HTTP and WebSocket.

The preamplifier accepts a single control connection at a time. The bridge
owns that connection, polls the device state and fans it out to any number
of HTTP and WebSocket consumers.

Note: for interactive control, use the separate 'mlavr-ctl' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	deviceHost string
	devicePort int
	deviceName string
	listenAddr string
	interval   int
	logLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge",
	Long: `Connect to the preamplifier and serve its state.

GET /state returns the latest snapshot as JSON. GET /ws upgrades to a
WebSocket that receives the current snapshot immediately and a fresh one
after every poll.

The device is taken from the --host flag, or from the registry entry
named by --device (falling back to the registry default).`,
	Example: `  # Bridge the registry default device on :8555
  mlavr-bridge serve

  # Bridge a specific host with a faster poll
  mlavr-bridge serve --host 192.168.1.40 --interval 2

  # Custom listen address
  mlavr-bridge serve --listen 127.0.0.1:9000 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&deviceHost, "host", "", "Device IP address or hostname (skips the registry)")
	serveCmd.Flags().IntVar(&devicePort, "port", avr.DefaultPort, "Device control port")
	serveCmd.Flags().StringVar(&deviceName, "device", "", "Registered device name")
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8555", "HTTP listen address")
	serveCmd.Flags().IntVar(&interval, "interval", 0, "Poll interval in seconds (0 = registry preference)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := logging.NewLogger(logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	host, port, name := deviceHost, devicePort, deviceHost
	if host == "" {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load device registry: %w", err)
		}
		dev, resolved := reg.Resolve(deviceName)
		if dev == nil {
			return fmt.Errorf("no device specified. Use --host, or register one with 'mlavr-ctl device add'")
		}
		host, port, name = dev.Host, dev.Port, resolved
		if interval <= 0 && reg.Preferences != nil && reg.Preferences.PollInterval > 0 {
			interval = reg.Preferences.PollInterval
		}
	}

	client := avr.Connect(host, port, name, log)
	if !client.Connected() {
		return fmt.Errorf("failed to connect to %s:%d", host, port)
	}
	defer client.Close()

	srv := bridge.New(client, bridge.Config{
		Listen:   listenAddr,
		Interval: time.Duration(interval) * time.Second,
	}, log)

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mlavr-bridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
