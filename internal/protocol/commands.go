package protocol

// Command identifies a logical operation in the device command table.
type Command string

// Logical commands supported by the device.
const (
	CmdPowerOn    Command = "POWER_ON"
	CmdPowerOff   Command = "POWER_OFF"
	CmdSleep      Command = "SLEEP"
	CmdVolumeUp   Command = "VOLUME_UP"
	CmdVolumeDown Command = "VOLUME_DOWN"
	CmdVolume     Command = "VOLUME"
	CmdMute       Command = "MUTE_TOGGLE"
	CmdSource     Command = "SOURCE"
	CmdGetSources Command = "GET_SOURCES"
	CmdHeartbeat  Command = "HEARTBEAT"
)

// commandTable maps logical commands to their wire-format prefixes.
// Prefixes ending in ":" take a parameter appended verbatim; the rest are
// complete commands. SLEEP uses "PW" rather than "PWR" - that is what the
// device firmware actually accepts, not a typo here.
var commandTable = map[Command]string{
	CmdPowerOff:   "RQST:CS:PWR:STANDBY",
	CmdPowerOn:    "RQST:CS:PWR:ON",
	CmdSleep:      "RQST:CS:PW:STANDBY",
	CmdVolumeUp:   "RQST:CS:IRDWNUP:VOLUME_UP",
	CmdVolumeDown: "RQST:CS:IRDWNUP:VOLUME_DOWN",
	CmdVolume:     "RQST:CS:VOL:",
	CmdMute:       "RQST:CS:MUTE:",
	CmdSource:     "RQST:CS:ACT:",
	CmdGetSources: "RQST:CS:REQ_ACT_LIST:?",
	CmdHeartbeat:  "RQST:CS:PWR:?",
}

// Reply markers used to classify responses. A reply "matches" a marker when
// it contains the marker as a substring; devices occasionally prepend stray
// bytes after power-up, so prefix matching is deliberately avoided.
const (
	MarkerPowerOn      = "RSP:CS:PWR:ON"
	MarkerPowerOff     = "RSP:CS:PWR:OFF"
	MarkerPowerStandby = "RSP:CS:PWR:STANDBY"
	MarkerVolume       = "RSP:CS:VOL:"
	MarkerVolumeNotify = "NTF:UI:VOL:"
	MarkerMute         = "RSP:CS:MUTE:"
	MarkerSource       = "RSP:CS:ACT:"
	MarkerSourceList   = "RSP:CS:REQ_ACT_LIST:"

	// MarkerAck appears in set-acknowledgement replies; a query answered
	// with an ACK carries no value and must be ignored.
	MarkerAck = "ACK"

	// MarkerAudioProfile appears when the device answers an ACT query with
	// an audio-profile echo instead of the activity name.
	MarkerAudioProfile = "APROF"
)

// BuildRequest resolves a logical command to its wire string, appending the
// parameter when one is given. The returned string carries no terminator;
// the transport adds the trailing carriage return. Returns false for a
// command not present in the table.
func BuildRequest(cmd Command, param string) (string, bool) {
	prefix, ok := commandTable[cmd]
	if !ok {
		return "", false
	}
	return prefix + param, true
}
