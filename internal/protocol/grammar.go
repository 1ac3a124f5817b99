package protocol

// headerNames maps message header codes to display names.
var headerNames = map[string]string{
	"RQST": "Request",
	"RSP":  "Response",
	"NTF":  "Broadcast Notification",
}

// sourceNames maps message source codes to display names.
var sourceNames = map[string]string{
	"CS": "Control Source",
	"UI": "User Interaction",
	"AV": "Component",
}

// CommandSpec describes the grammar of a single command code: whether it
// takes a parameter, answers queries, acknowledges sets, and which value
// formats the device accepts and returns.
type CommandSpec struct {
	Name         string
	AcceptsParam bool
	AcceptsQuery bool
	AckOnSet     bool
	ParamFormat  []string
	Response     []string
}

// grammar is the full command grammar as documented for the No.502 control
// protocol. Entries with only a Name are commands the decoder can identify
// but whose value grammar has not been mapped.
var grammar = map[string]CommandSpec{
	"ACT": {
		Name:         "Activity",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"Name"},
	},
	"APROF": {
		Name:         "Audio Profile",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"Name"},
		Response:     []string{"Name"},
	},
	"AVSYNC": {
		Name:         "Audio Video Sync Delay",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"0.0 - 500.0"},
		Response:     []string{"0.0 - 500.0"},
	},
	"BAL": {
		Name:         "Balance",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ROFF", "LOFF", "-14.0 - 14.0"},
		Response:     []string{"LOFF", "ROFF", "-14.0 - 14.0"},
	},
	"DISPCFG": {
		Name:         "Display Configuration",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"Name"},
		Response:     []string{"Name"},
	},
	"ENCENTER": {
		Name:         "Center Channel",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "OFF"},
		Response:     []string{"ON", "OFF"},
	},
	"ENSURR": {
		Name:         "Surround Channel",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "OFF"},
		Response:     []string{"ON", "OFF"},
	},
	"ENREAR": {
		Name:         "Rear Channel",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "OFF"},
		Response:     []string{"ON", "OFF"},
	},
	"ENSUB1": {
		Name:         "Subwoofer 1",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "OFF"},
		Response:     []string{"ON", "OFF"},
	},
	"ENSUB2": {
		Name:         "Subwoofer 2",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "OFF"},
		Response:     []string{"ON", "OFF"},
	},
	"FAULT": {
		Name:     "Fault",
		Response: []string{"THERM", "PWR", "SIGNAL", "UNKNOWN"},
	},
	"FPDISPINTENS": {
		Name:         "Front Panel Display Intensity",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"OFF", "LOW", "MED", "HIGH"},
		Response:     []string{"OFF", "LOW", "MED", "HIGH"},
	},
	"MONEN": {
		Name:         "Monitor",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "OFF"},
		Response:     []string{"ON", "OFF"},
	},
	"MUTE": {
		Name:         "Mute",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "OFF"},
		Response:     []string{"ON", "OFF"},
	},
	"NOP": {
		Name:     "No Operation",
		AckOnSet: true,
	},
	"PWR": {
		Name:         "Power",
		AcceptsParam: true,
		AcceptsQuery: true,
		AckOnSet:     true,
		ParamFormat:  []string{"ON", "STANDBY"},
		Response:     []string{"ON", "STANDBY"},
	},
	"REQ_ACT_LIST": {
		Name:         "Request Activity List",
		AcceptsQuery: true,
		Response:     []string{"Name List"},
	},
	"REQ_APROF_LIST": {
		Name:         "Request Audio Profile List",
		AcceptsQuery: true,
		Response:     []string{"Name List"},
	},
	"STATUS_MAIN":   {Name: "Status"},
	"STATUS_SYSTEM": {Name: "System Status"},
	"SURRMODE":      {Name: "Surround Mode"},
	"TRIGGER_1":     {Name: "Trigger 1"},
	"TRIGGER_2":     {Name: "Trigger 2"},
	"TRIGGER_3":     {Name: "Trigger 3"},
	"TRIGGER_4":     {Name: "Trigger 4"},
	"VOL":           {Name: "Volume"},
	"VPROF":         {Name: "Video Profile"},
	"ZOOM":          {Name: "Zoom"},
}

// LookupCommand returns the grammar entry for a command code.
func LookupCommand(code string) (CommandSpec, bool) {
	spec, ok := grammar[code]
	return spec, ok
}
