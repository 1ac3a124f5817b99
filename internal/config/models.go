package config

import (
	"time"

	"github.com/muurk/mlavr/internal/avr"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // keyed by short device name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device holds the connection coordinates for one preamplifier.
type Device struct {
	Host     string    `yaml:"host"`
	Port     int       `yaml:"port,omitempty"`      // defaults to avr.DefaultPort when omitted
	Nickname string    `yaml:"nickname,omitempty"`  // display name, e.g. "Living Room 502"
	LastSeen time.Time `yaml:"last_seen,omitempty"` // last successful connection
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultDevice string `yaml:"default_device,omitempty"` // device name used when none is given
	PollInterval  int    `yaml:"poll_interval"`            // state refresh cadence in seconds
}

// DefaultPollInterval is the reference refresh cadence.
const DefaultPollInterval = 4

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			PollInterval: DefaultPollInterval,
		},
	}
}

// GetDevice retrieves a device by name. Returns nil if it does not exist.
func (r *Registry) GetDevice(name string) *Device {
	return r.Devices[name]
}

// SetDevice adds or replaces a device entry.
func (r *Registry) SetDevice(name string, dev *Device) {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if dev.Port == 0 {
		dev.Port = avr.DefaultPort
	}
	r.Devices[name] = dev
}

// RemoveDevice deletes a device entry. Returns false if it did not exist.
func (r *Registry) RemoveDevice(name string) bool {
	if _, ok := r.Devices[name]; !ok {
		return false
	}
	delete(r.Devices, name)
	if r.Preferences != nil && r.Preferences.DefaultDevice == name {
		r.Preferences.DefaultDevice = ""
	}
	return true
}

// TouchDevice records a successful connection time for a device, creating
// the entry when needed.
func (r *Registry) TouchDevice(name, host string, port int) {
	dev := r.GetDevice(name)
	if dev == nil {
		dev = &Device{Host: host, Port: port}
		r.SetDevice(name, dev)
	}
	dev.LastSeen = time.Now()
}

// Resolve returns the device for name, falling back to the preferences'
// default device when name is empty. Returns nil when nothing matches.
func (r *Registry) Resolve(name string) (*Device, string) {
	if name == "" && r.Preferences != nil {
		name = r.Preferences.DefaultDevice
	}
	if name == "" {
		return nil, ""
	}
	return r.Devices[name], name
}
