package avr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/mlavr/internal/protocol"
)

// volumeStep is the device-native increment applied by VolumeUp/VolumeDown.
const volumeStep = 0.5

// commandSender is the transport surface the client needs. *Transport
// satisfies it; tests substitute a scripted fake.
type commandSender interface {
	Send(wire string) (string, error)
	Connected() bool
	Close() error
}

// Client is the stateful protocol client for one preamplifier. See the
// package documentation for the caching and failure model.
type Client struct {
	mu sync.Mutex

	name string
	host string
	port int
	zone string

	tr  commandSender
	log *zap.Logger

	power         PowerState
	onOff         OnOffState
	volume        float64
	mute          string
	currentSource string
	sources       []string
}

// Connect dials the device and returns a client with a freshly refreshed
// state cache. A failed dial still returns a usable client: every operation
// on it fails with ErrNotConnected until a new client is constructed, and
// the initial refresh failure is logged rather than surfaced.
func Connect(host string, port int, name string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := newClient(Dial(host, port, log), host, port, name, log)
	if err := c.RefreshAll(); err != nil {
		log.Warn("initial state refresh incomplete", zap.Error(err))
	}
	return c
}

func newClient(tr commandSender, host string, port int, name string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		name:   name,
		host:   host,
		port:   port,
		zone:   "Main Zone",
		tr:     tr,
		log:    log,
		volume: UnknownVolume,
		mute:   muteStateOff,
	}
}

// send resolves a logical command against the command table and performs
// the exchange. Callers hold c.mu.
func (c *Client) send(cmd protocol.Command, param string) (string, error) {
	wire, ok := protocol.BuildRequest(cmd, param)
	if !ok {
		return "", fmt.Errorf("command %q not in command table", cmd)
	}
	return c.tr.Send(wire)
}

func (c *Client) setPower(p PowerState) {
	c.power = p
	c.onOff = p.OnOff()
}

// field returns the i-th colon-delimited field of a reply, or "" when the
// reply has fewer fields.
func field(resp string, i int) string {
	parts := strings.Split(resp, ":")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

// RefreshPower queries the power state via the heartbeat command. The three
// known replies map onto the power and display states; anything else is
// logged and the prior state kept.
func (c *Client) RefreshPower() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshPower()
}

func (c *Client) refreshPower() error {
	resp, err := c.send(protocol.CmdHeartbeat, "")
	if err != nil {
		c.log.Warn("power state not updated", zap.Error(err))
		return err
	}

	switch resp {
	case protocol.MarkerPowerStandby:
		c.setPower(PowerStandby)
	case protocol.MarkerPowerOn:
		c.setPower(PowerOn)
	case protocol.MarkerPowerOff:
		c.setPower(PowerOff)
	default:
		c.log.Warn("unknown power state", zap.String("response", resp))
	}
	return nil
}

// RefreshSources queries the activity list and replaces the cached source
// list wholesale. The list is never mutated incrementally.
func (c *Client) RefreshSources() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshSources()
}

func (c *Client) refreshSources() error {
	resp, err := c.send(protocol.CmdGetSources, "")
	if err != nil {
		c.log.Warn("sources not updated", zap.Error(err))
		return err
	}

	idx := strings.Index(resp, protocol.MarkerSourceList)
	if idx < 0 {
		c.log.Warn("unknown sources", zap.String("response", resp))
		return nil
	}

	// The reply carries an optional NAMES type field before the
	// comma-separated activity names.
	names := strings.TrimPrefix(resp[idx+len(protocol.MarkerSourceList):], "NAMES:")
	c.sources = strings.Split(names, ",")
	return nil
}

// RefreshCurrentSource queries the active source. An ACK reply carries no
// value and is ignored. The device occasionally answers the query with an
// audio-profile echo instead of the activity name; in that case exactly one
// re-query is issued.
func (c *Client) RefreshCurrentSource() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshCurrentSource()
}

func (c *Client) refreshCurrentSource() error {
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := c.send(protocol.CmdSource, "?")
		if err != nil {
			c.log.Warn("current source not updated", zap.Error(err))
			return err
		}

		if !strings.Contains(resp, protocol.MarkerSource) {
			c.log.Warn("unknown current source", zap.String("response", resp))
			return nil
		}
		if strings.Contains(resp, protocol.MarkerAck) {
			return nil
		}
		if strings.Contains(resp, protocol.MarkerAudioProfile) {
			continue
		}

		c.currentSource = field(resp, 3)
		return nil
	}
	return nil
}

// RefreshVolume queries the volume. Both the response marker and the
// front-panel notification marker are accepted; an unparsable value caches
// the UnknownVolume sentinel instead of failing.
func (c *Client) RefreshVolume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshVolume()
}

func (c *Client) refreshVolume() error {
	resp, err := c.send(protocol.CmdVolume, "?")
	if err != nil {
		c.log.Warn("volume not updated", zap.Error(err))
		return err
	}

	if !strings.Contains(resp, protocol.MarkerVolume) &&
		!strings.Contains(resp, protocol.MarkerVolumeNotify) {
		c.log.Warn("unknown volume", zap.String("response", resp))
		return nil
	}
	if strings.Contains(resp, protocol.MarkerAck) {
		return nil
	}

	v, err := strconv.ParseFloat(field(resp, 3), 64)
	if err != nil {
		c.volume = UnknownVolume
		return nil
	}
	c.volume = v
	return nil
}

// RefreshMute queries the mute state.
func (c *Client) RefreshMute() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshMute()
}

func (c *Client) refreshMute() error {
	resp, err := c.send(protocol.CmdMute, "?")
	if err != nil {
		c.log.Warn("mute state not updated", zap.Error(err))
		return err
	}

	if !strings.Contains(resp, protocol.MarkerMute) {
		c.log.Warn("unknown mute state", zap.String("response", resp))
		return nil
	}
	c.mute = field(resp, 3)
	return nil
}

// RefreshAll refreshes power, volume and mute unconditionally, then the
// current source and source list when the device is powered on. Every
// refresh runs regardless of earlier failures; the failures are joined.
func (c *Client) RefreshAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := []error{
		c.refreshPower(),
		c.refreshVolume(),
		c.refreshMute(),
	}
	if c.power == PowerOn {
		errs = append(errs,
			c.refreshCurrentSource(),
			c.refreshSources(),
		)
	}
	return errors.Join(errs...)
}

// PowerOn turns the device on. The power state is set optimistically on
// send success, without waiting for the heartbeat to confirm.
func (c *Client) PowerOn() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.send(protocol.CmdPowerOn, ""); err != nil {
		c.log.Warn("power on command not sent", zap.Error(err))
		return err
	}
	c.setPower(PowerOn)
	return nil
}

// PowerOff puts the device into standby. As with PowerOn the state change
// is optimistic.
func (c *Client) PowerOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.send(protocol.CmdPowerOff, ""); err != nil {
		c.log.Warn("power off command not sent", zap.Error(err))
		return err
	}
	c.setPower(PowerOff)
	return nil
}

// Sleep sends the sleep command. No cached state changes; the next
// heartbeat picks up the resulting power mode.
func (c *Client) Sleep() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.send(protocol.CmdSleep, ""); err != nil {
		c.log.Warn("sleep command not sent", zap.Error(err))
		return err
	}
	return nil
}

// SetVolume sets the volume in device units (0..100 scale). The cached
// volume is updated on send success whether or not the reply is an ACK.
func (c *Client) SetVolume(volume float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setVolume(volume)
}

func (c *Client) setVolume(volume float64) error {
	if _, err := c.send(protocol.CmdVolume, strconv.FormatFloat(volume, 'f', -1, 64)); err != nil {
		c.log.Warn("volume command not sent", zap.Error(err))
		return err
	}
	c.volume = volume
	return nil
}

// VolumeUp raises the volume one step from the cached value.
func (c *Client) VolumeUp() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setVolume(c.volume + volumeStep)
}

// VolumeDown lowers the volume one step from the cached value.
func (c *Client) VolumeDown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setVolume(c.volume - volumeStep)
}

// SelectSource switches the active source. The cached source is updated on
// send success alone; the acknowledgement content is not inspected, so a
// source name the device rejects leaves the cache ahead of the device until
// the next refresh.
func (c *Client) SelectSource(source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.send(protocol.CmdSource, source); err != nil {
		c.log.Warn("select source command not sent", zap.Error(err))
		return err
	}
	c.currentSource = source
	return nil
}

// Mute mutes or unmutes the device, optimistically.
func (c *Client) Mute(mute bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	param, state := "OFF", muteStateOff
	if mute {
		param, state = "ON", muteStateOn
	}
	if _, err := c.send(protocol.CmdMute, param); err != nil {
		c.log.Warn("mute command not sent", zap.Error(err))
		return err
	}
	c.mute = state
	return nil
}

// DecodeMessage classifies an arbitrary protocol line. It is a convenience
// wrapper over protocol.Decode and touches no client state.
func (c *Client) DecodeMessage(text string) (*protocol.Message, error) {
	return protocol.Decode(text)
}

// Name returns the configured device name.
func (c *Client) Name() string { return c.name }

// Host returns the device host.
func (c *Client) Host() string { return c.host }

// Port returns the device control port.
func (c *Client) Port() int { return c.port }

// Zone returns the zone this client controls. Only "Main Zone" is modeled.
func (c *Client) Zone() string { return c.zone }

// Connected reports whether the underlying transport has a connection.
func (c *Client) Connected() bool {
	return c.tr.Connected()
}

// Close releases the underlying connection. The cached state stays
// readable; every subsequent command fails with ErrNotConnected.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr.Close()
}

// Power returns the cached raw power mode.
func (c *Client) Power() PowerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.power
}

// State returns the cached derived display state.
func (c *Client) State() OnOffState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onOff
}

// IsOn reports whether the cached display state is on.
func (c *Client) IsOn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onOff == StateOn
}

// IsOff reports whether the cached display state is off.
func (c *Client) IsOff() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onOff == StateOff
}

// Volume returns the cached volume in device units, or UnknownVolume.
func (c *Client) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// Muted reports the cached mute state.
func (c *Client) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mute == muteStateOn
}

// CurrentSource returns the cached active source, empty until the first
// successful query.
func (c *Client) CurrentSource() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentSource
}

// Sources returns a copy of the cached source list.
func (c *Client) Sources() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}

// Snapshot returns a point-in-time copy of the full cached state.
func (c *Client) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources := make([]string, len(c.sources))
	copy(sources, c.sources)

	return State{
		Name:          c.name,
		Host:          c.host,
		Port:          c.port,
		Zone:          c.zone,
		Power:         c.power,
		State:         c.onOff,
		Volume:        c.volume,
		Muted:         c.mute == muteStateOn,
		CurrentSource: c.currentSource,
		Sources:       sources,
		Connected:     c.tr.Connected(),
	}
}
