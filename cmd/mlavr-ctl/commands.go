package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/mlavr/internal/avr"
	"github.com/muurk/mlavr/internal/config"
	"github.com/muurk/mlavr/internal/logging"
	"github.com/muurk/mlavr/internal/protocol"
	"github.com/muurk/mlavr/internal/tui"
)

// Connection command flags
var (
	deviceHost   string
	devicePort   int
	deviceName   string
	logLevel     string
	outputFormat string
	pollInterval int
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceHost, "host", "", "Device IP address or hostname (skips the registry)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", avr.DefaultPort, "Device control port")
	rootCmd.PersistentFlags().StringVar(&deviceName, "device", "", "Registered device name (see 'mlavr-ctl device')")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; silent if empty)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(muteCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(deviceCmd)
}

// newLogger builds the CLI logger from the flag, falling back to the
// MLAVR_LOG_LEVEL environment variable.
func newLogger() (*zap.Logger, error) {
	if logLevel != "" {
		return logging.NewLogger(logLevel)
	}
	return logging.NewLoggerFromEnv()
}

// resolveTarget determines which device to talk to: the --host flag wins,
// otherwise the registry entry named by --device (or the registry default).
func resolveTarget() (host string, port int, name string, err error) {
	if deviceHost != "" {
		return deviceHost, devicePort, deviceHost, nil
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to load device registry: %w", err)
	}

	dev, name := reg.Resolve(deviceName)
	if dev == nil {
		if name == "" {
			return "", 0, "", fmt.Errorf("no device specified. Use --host, or register one with 'mlavr-ctl device add'")
		}
		return "", 0, "", fmt.Errorf("unknown device %q. See 'mlavr-ctl device list'", name)
	}

	if dev.Nickname != "" {
		return dev.Host, dev.Port, dev.Nickname, nil
	}
	return dev.Host, dev.Port, name, nil
}

// connect resolves the target and returns a connected client. The registry
// entry's last-seen time is updated on success; registry write failures are
// not fatal for a control command.
func connect() (*avr.Client, error) {
	host, port, name, err := resolveTarget()
	if err != nil {
		return nil, err
	}

	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	client := avr.Connect(host, port, name, log)
	if !client.Connected() {
		return nil, fmt.Errorf("failed to connect to %s:%d", host, port)
	}

	if deviceHost == "" {
		if reg, err := config.LoadRegistry(); err == nil {
			reg.TouchDevice(name, host, port)
			_ = reg.Save()
		}
	}

	return client, nil
}

// statusCmd displays the current device state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device status",
	Long: `Display the current state of the preamplifier.

This command connects to the device, refreshes the full state cache
(power, volume, mute, input selection and the available input list)
and prints it.`,
	Example: `  # Status of the registry default device
  mlavr-ctl status

  # Status of a specific host
  mlavr-ctl status --host 192.168.1.40

  # JSON output for scripting
  mlavr-ctl status --format json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	state := client.Snapshot()

	if outputFormat == "json" {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s (%s:%d, %s)\n", state.Name, state.Host, state.Port, state.Zone)
	fmt.Printf("  Power:   %s\n", state.Power)
	if state.Volume == avr.UnknownVolume {
		fmt.Printf("  Volume:  unknown\n")
	} else {
		fmt.Printf("  Volume:  %.1f\n", state.Volume)
	}
	fmt.Printf("  Muted:   %v\n", state.Muted)
	if state.CurrentSource != "" {
		fmt.Printf("  Source:  %s\n", state.CurrentSource)
	}
	if len(state.Sources) > 0 {
		fmt.Printf("  Sources: %s\n", strings.Join(state.Sources, ", "))
	}
	return nil
}

// powerCmd controls the power state
var powerCmd = &cobra.Command{
	Use:   "power <on|off|sleep>",
	Short: "Switch the device on, off or into standby",
	Long: `Change the preamplifier power state.

'off' issues the firmware's power-off command; on most units this drops
the device into standby. 'sleep' uses the dedicated standby command.`,
	Example: `  mlavr-ctl power on
  mlavr-ctl power off
  mlavr-ctl power sleep --device living-room`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "sleep"},
	RunE:      runPower,
}

func runPower(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	switch args[0] {
	case "on":
		err = client.PowerOn()
	case "off":
		err = client.PowerOff()
	case "sleep":
		err = client.Sleep()
	default:
		return fmt.Errorf("invalid power state %q (use on, off or sleep)", args[0])
	}
	if err != nil {
		return fmt.Errorf("power command failed: %w", err)
	}

	fmt.Printf("Power: %s\n", client.Power())
	return nil
}

// volumeCmd reads or changes the volume
var volumeCmd = &cobra.Command{
	Use:   "volume [level|up|down]",
	Short: "Show or change the volume",
	Long: `Read or change the main zone volume.

Without an argument the current volume is printed. A numeric argument
sets the volume to that level; 'up' and 'down' step it by half a unit,
matching the front panel buttons.`,
	Example: `  # Print the current volume
  mlavr-ctl volume

  # Set the volume to 42.5
  mlavr-ctl volume 42.5

  # Step up or down
  mlavr-ctl volume up
  mlavr-ctl volume down`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

func runVolume(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	if len(args) == 1 {
		switch args[0] {
		case "up":
			err = client.VolumeUp()
		case "down":
			err = client.VolumeDown()
		default:
			level, perr := strconv.ParseFloat(args[0], 64)
			if perr != nil {
				return fmt.Errorf("invalid volume %q (use a number, 'up' or 'down')", args[0])
			}
			err = client.SetVolume(level)
		}
		if err != nil {
			return fmt.Errorf("volume command failed: %w", err)
		}
	}

	if v := client.Volume(); v == avr.UnknownVolume {
		fmt.Println("Volume: unknown")
	} else {
		fmt.Printf("Volume: %.1f\n", v)
	}
	return nil
}

// muteCmd controls the mute relay
var muteCmd = &cobra.Command{
	Use:   "mute <on|off>",
	Short: "Mute or unmute the output",
	Example: `  mlavr-ctl mute on
  mlavr-ctl mute off`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runMute,
}

func runMute(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	switch args[0] {
	case "on":
		err = client.Mute(true)
	case "off":
		err = client.Mute(false)
	default:
		return fmt.Errorf("invalid mute state %q (use on or off)", args[0])
	}
	if err != nil {
		return fmt.Errorf("mute command failed: %w", err)
	}

	fmt.Printf("Muted: %v\n", client.Muted())
	return nil
}

// sourceCmd shows or selects the active input
var sourceCmd = &cobra.Command{
	Use:   "source [name]",
	Short: "Show or select the active input",
	Long: `Show the active input and the available input list, or select a
new input by its configured name. Input names are the ones configured
on the device itself, so they may contain spaces.`,
	Example: `  # Show current and available inputs
  mlavr-ctl source

  # Select an input (quote names with spaces)
  mlavr-ctl source "Apple TV"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSource,
}

func runSource(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	if len(args) == 1 {
		if err := client.SelectSource(args[0]); err != nil {
			return fmt.Errorf("source selection failed: %w", err)
		}
		fmt.Printf("Source: %s\n", client.CurrentSource())
		return nil
	}

	if cur := client.CurrentSource(); cur != "" {
		fmt.Printf("Current: %s\n", cur)
	} else {
		fmt.Println("Current: unknown")
	}
	for _, src := range client.Sources() {
		fmt.Printf("  %s\n", src)
	}
	return nil
}

// monitorCmd launches the interactive terminal monitor
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Launch the interactive terminal monitor",
	Long: `Launch a full screen terminal monitor that polls the device state
and offers key bindings for power, volume and mute.

The poll interval defaults to the registry preference.`,
	Example: `  mlavr-ctl monitor
  mlavr-ctl monitor --device living-room --interval 2`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&pollInterval, "interval", 0, "Poll interval in seconds (0 = registry preference)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	interval := pollInterval
	if interval <= 0 {
		interval = config.DefaultPollInterval
		if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil && reg.Preferences.PollInterval > 0 {
			interval = reg.Preferences.PollInterval
		}
	}

	return tui.Run(client, time.Duration(interval)*time.Second)
}

// decodeCmd parses a captured protocol line
var decodeCmd = &cobra.Command{
	Use:   "decode <message>",
	Short: "Decode a captured protocol message",
	Long: `Parse one line of the device's colon-delimited wire protocol and
print its structure: header, source, command and parameter, with the
human readable names from the command grammar.

Useful when inspecting traffic captured with tcpdump or 'mlavr-ctl raw'.`,
	Example: `  mlavr-ctl decode "RSP:CS:VOL:42.5"
  mlavr-ctl decode "NTF:UI:MUTE:ON"`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	msg, err := protocol.Decode(args[0])
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(msg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Header:  %s (%s)\n", msg.Header, msg.HeaderName)
	fmt.Printf("Source:  %s (%s)\n", msg.Source, msg.SourceName)
	fmt.Printf("Command: %s (%s)\n", msg.Command, msg.CommandName)
	if msg.Param != "" {
		fmt.Printf("Param:   %s\n", msg.Param)
	}
	if msg.IsQuery() {
		fmt.Println("Type:    query")
	} else if msg.IsNotification() {
		fmt.Println("Type:    notification")
	}
	return nil
}

// rawCmd sends an arbitrary protocol line
var rawCmd = &cobra.Command{
	Use:   "raw <message>",
	Short: "Send a raw protocol message and print the reply",
	Long: `Send one raw line of the wire protocol to the device and print the
first reply. The carriage return terminator is appended automatically.

This bypasses the state cache entirely and is intended for protocol
exploration. Commands sent this way can leave the device in a state
the other commands do not expect.`,
	Example: `  mlavr-ctl raw "RQST:CS:PWR:?"
  mlavr-ctl raw "RQST:CS:REQ_ACT_LIST:NAMES" --host 192.168.1.40`,
	Args: cobra.ExactArgs(1),
	RunE: runRaw,
}

func runRaw(cmd *cobra.Command, args []string) error {
	host, port, _, err := resolveTarget()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}

	tr := avr.Dial(host, port, log)
	if !tr.Connected() {
		return fmt.Errorf("failed to connect to %s:%d", host, port)
	}
	defer tr.Close()

	reply, err := tr.Send(args[0])
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	fmt.Println(reply)
	return nil
}

// deviceCmd manages the device registry
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage the device registry",
	Long: `Manage the persistent device registry so that devices can be
addressed by name instead of IP address. The registry lives in the
platform config directory as a YAML file.`,
}

var deviceNickname string

func init() {
	deviceAddCmd.Flags().StringVar(&deviceNickname, "nickname", "", "Display name shown in status output")

	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceAddCmd)
	deviceCmd.AddCommand(deviceRemoveCmd)
	deviceCmd.AddCommand(deviceDefaultCmd)
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		if len(reg.Devices) == 0 {
			fmt.Println("No devices registered. Use 'mlavr-ctl device add <name> <host>'.")
			return nil
		}

		def := ""
		if reg.Preferences != nil {
			def = reg.Preferences.DefaultDevice
		}

		for name, dev := range reg.Devices {
			marker := " "
			if name == def {
				marker = "*"
			}
			fmt.Printf("%s %-20s %s:%d", marker, name, dev.Host, dev.Port)
			if dev.Nickname != "" {
				fmt.Printf("  (%s)", dev.Nickname)
			}
			if !dev.LastSeen.IsZero() {
				fmt.Printf("  last seen %s", dev.LastSeen.Format("2006-01-02 15:04"))
			}
			fmt.Println()
		}
		return nil
	},
}

var deviceAddCmd = &cobra.Command{
	Use:   "add <name> <host> [port]",
	Short: "Register a device",
	Example: `  mlavr-ctl device add living-room 192.168.1.40
  mlavr-ctl device add office 192.168.1.41 15003 --nickname "No 502"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		port := avr.DefaultPort
		if len(args) == 3 {
			port, err = strconv.Atoi(args[2])
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("invalid port %q", args[2])
			}
		}

		reg.SetDevice(args[0], &config.Device{
			Host:     args[1],
			Port:     port,
			Nickname: deviceNickname,
		})
		if reg.Preferences != nil && reg.Preferences.DefaultDevice == "" {
			reg.Preferences.DefaultDevice = args[0]
		}

		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		fmt.Printf("Registered %s as %s:%d\n", args[0], args[1], port)
		return nil
	},
}

var deviceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a registered device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		if !reg.RemoveDevice(args[0]) {
			return fmt.Errorf("unknown device %q", args[0])
		}
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var deviceDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		if reg.GetDevice(args[0]) == nil {
			return fmt.Errorf("unknown device %q. Register it first with 'mlavr-ctl device add'", args[0])
		}
		if reg.Preferences == nil {
			reg.Preferences = &config.Preferences{PollInterval: config.DefaultPollInterval}
		}
		reg.Preferences.DefaultDevice = args[0]

		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		fmt.Printf("Default device: %s\n", args[0])
		return nil
	},
}
