// Mlavr-ctl is a command line remote control for Mark Levinson AV
// preamplifiers.
//
// It speaks the colon-delimited text protocol the preamplifier exposes on
// its ethernet port and provides direct commands for power, volume, mute
// and input selection, plus an interactive terminal monitor.
//
// Usage:
//
//	mlavr-ctl [command] [flags]
//
// Running without arguments prints the device status.
// See 'mlavr-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/mlavr/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mlavr-ctl",
	Short: "Mark Levinson Preamplifier Remote Control",
	Long: `A command line remote control for Mark Levinson AV preamplifiers.

Connects to the preamplifier's ethernet control port and provides
power, volume, mute and input selection commands, plus an interactive
terminal monitor that tracks the device state.

If no command is specified, the current device status is printed.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: print status when no subcommand provided
		return runStatus(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mlavr-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
