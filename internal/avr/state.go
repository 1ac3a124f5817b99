package avr

// PowerState is the raw power mode reported by the device.
type PowerState string

const (
	PowerOn      PowerState = "ON"
	PowerOff     PowerState = "OFF"
	PowerStandby PowerState = "STANDBY"

	// PowerUnknown is the state before the first successful heartbeat.
	PowerUnknown PowerState = ""
)

// OnOffState is the derived display state: on only when the device power is
// ON; both OFF and STANDBY display as off.
type OnOffState string

const (
	StateOn      OnOffState = "on"
	StateOff     OnOffState = "off"
	StateUnknown OnOffState = ""
)

// OnOff derives the display state from a power mode.
func (p PowerState) OnOff() OnOffState {
	switch p {
	case PowerOn:
		return StateOn
	case PowerOff, PowerStandby:
		return StateOff
	default:
		return StateUnknown
	}
}

// Device mute state strings as they appear in the fourth reply field.
const (
	muteStateOn  = "on"
	muteStateOff = "off"
)

// UnknownVolume is the sentinel cached when the device's volume field could
// not be parsed. It is the only negative value the parser ever produces.
const UnknownVolume = -1.0

// DefaultPort is the TCP control port of the preamplifier.
const DefaultPort = 15003

// State is a point-in-time copy of the client's cached device state, safe
// to hand to other goroutines and to serialize for the bridge.
type State struct {
	Name          string     `json:"name"`
	Host          string     `json:"host"`
	Port          int        `json:"port"`
	Zone          string     `json:"zone"`
	Power         PowerState `json:"power"`
	State         OnOffState `json:"state"`
	Volume        float64    `json:"volume"`
	Muted         bool       `json:"muted"`
	CurrentSource string     `json:"current_source,omitempty"`
	Sources       []string   `json:"sources,omitempty"`
	Connected     bool       `json:"connected"`
}
