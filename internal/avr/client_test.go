package avr

import (
	"errors"
	"testing"
)

// fakeTransport scripts replies per wire command and records every send.
type fakeTransport struct {
	replies   map[string]string   // wire -> reply
	sequences map[string][]string // wire -> successive replies, consumed first
	sent      []string
	err       error
	connected bool
}

func (f *fakeTransport) Send(wire string) (string, error) {
	f.sent = append(f.sent, wire)
	if f.err != nil {
		return "", f.err
	}
	if q, ok := f.sequences[wire]; ok && len(q) > 0 {
		f.sequences[wire] = q[1:]
		return q[0], nil
	}
	return f.replies[wire], nil
}

func (f *fakeTransport) Connected() bool { return f.connected }

func (f *fakeTransport) Close() error {
	f.connected = false
	return nil
}

func newTestClient(tr *fakeTransport) *Client {
	return newClient(tr, "10.0.0.5", DefaultPort, "Living Room", nil)
}

func (f *fakeTransport) countSent(wire string) int {
	n := 0
	for _, s := range f.sent {
		if s == wire {
			n++
		}
	}
	return n
}

func TestRefreshPower(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantPower PowerState
		wantState OnOffState
	}{
		{"on", "RSP:CS:PWR:ON", PowerOn, StateOn},
		{"off", "RSP:CS:PWR:OFF", PowerOff, StateOff},
		{"standby", "RSP:CS:PWR:STANDBY", PowerStandby, StateOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{replies: map[string]string{"RQST:CS:PWR:?": tt.reply}}
			c := newTestClient(tr)

			if err := c.RefreshPower(); err != nil {
				t.Fatalf("RefreshPower() error = %v", err)
			}
			if c.Power() != tt.wantPower {
				t.Errorf("Power() = %q, want %q", c.Power(), tt.wantPower)
			}
			if c.State() != tt.wantState {
				t.Errorf("State() = %q, want %q", c.State(), tt.wantState)
			}
		})
	}
}

func TestRefreshPower_UnknownReplyKeepsState(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"RQST:CS:PWR:?": "RSP:CS:PWR:ON"}}
	c := newTestClient(tr)
	if err := c.RefreshPower(); err != nil {
		t.Fatalf("RefreshPower() error = %v", err)
	}

	tr.replies["RQST:CS:PWR:?"] = "RSP:CS:PWR:BANANA"
	if err := c.RefreshPower(); err != nil {
		t.Fatalf("RefreshPower() on unknown reply should not fail, got %v", err)
	}
	if c.Power() != PowerOn || c.State() != StateOn {
		t.Errorf("state changed on unknown reply: power=%q state=%q", c.Power(), c.State())
	}
}

func TestRefreshPower_TransportFailure(t *testing.T) {
	tr := &fakeTransport{err: ErrNotConnected}
	c := newTestClient(tr)

	if err := c.RefreshPower(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("RefreshPower() error = %v, want ErrNotConnected", err)
	}
	if c.Power() != PowerUnknown {
		t.Errorf("Power() = %q, want unknown after transport failure", c.Power())
	}
}

func TestRefreshSources(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{
			name:  "names list with type field",
			reply: "RSP:CS:REQ_ACT_LIST:NAMES:Apple TV,Blu-Ray,TV",
			want:  []string{"Apple TV", "Blu-Ray", "TV"},
		},
		{
			name:  "names list without type field",
			reply: "RSP:CS:REQ_ACT_LIST:A,B,C",
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "single source",
			reply: "RSP:CS:REQ_ACT_LIST:NAMES:TV",
			want:  []string{"TV"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{replies: map[string]string{"RQST:CS:REQ_ACT_LIST:?": tt.reply}}
			c := newTestClient(tr)

			if err := c.RefreshSources(); err != nil {
				t.Fatalf("RefreshSources() error = %v", err)
			}
			got := c.Sources()
			if len(got) != len(tt.want) {
				t.Fatalf("Sources() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Sources()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRefreshSources_UnknownReplyKeepsList(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"RQST:CS:REQ_ACT_LIST:?": "RSP:CS:REQ_ACT_LIST:NAMES:A,B"}}
	c := newTestClient(tr)
	if err := c.RefreshSources(); err != nil {
		t.Fatalf("RefreshSources() error = %v", err)
	}

	tr.replies["RQST:CS:REQ_ACT_LIST:?"] = "RSP:CS:NOP"
	if err := c.RefreshSources(); err != nil {
		t.Fatalf("RefreshSources() on unknown reply should not fail, got %v", err)
	}
	if got := c.Sources(); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Sources() = %v, want [A B] unchanged", got)
	}
}

func TestRefreshCurrentSource(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"RQST:CS:ACT:?": "RSP:CS:ACT:Blu-Ray"}}
	c := newTestClient(tr)

	if err := c.RefreshCurrentSource(); err != nil {
		t.Fatalf("RefreshCurrentSource() error = %v", err)
	}
	if c.CurrentSource() != "Blu-Ray" {
		t.Errorf("CurrentSource() = %q, want Blu-Ray", c.CurrentSource())
	}
}

func TestRefreshCurrentSource_AckIgnored(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"RQST:CS:ACT:?": "RSP:CS:ACT:ACK"}}
	c := newTestClient(tr)

	if err := c.RefreshCurrentSource(); err != nil {
		t.Fatalf("RefreshCurrentSource() error = %v", err)
	}
	if c.CurrentSource() != "" {
		t.Errorf("CurrentSource() = %q, want empty after ACK reply", c.CurrentSource())
	}
	if got := tr.countSent("RQST:CS:ACT:?"); got != 1 {
		t.Errorf("query sent %d times, want 1", got)
	}
}

func TestRefreshCurrentSource_AudioProfileEchoRetriesOnce(t *testing.T) {
	tr := &fakeTransport{sequences: map[string][]string{
		"RQST:CS:ACT:?": {"RSP:CS:ACT:APROF:Movie", "RSP:CS:ACT:Apple TV"},
	}}
	c := newTestClient(tr)

	if err := c.RefreshCurrentSource(); err != nil {
		t.Fatalf("RefreshCurrentSource() error = %v", err)
	}
	if c.CurrentSource() != "Apple TV" {
		t.Errorf("CurrentSource() = %q, want Apple TV from re-query", c.CurrentSource())
	}
	if got := tr.countSent("RQST:CS:ACT:?"); got != 2 {
		t.Errorf("query sent %d times, want exactly 2", got)
	}
}

func TestRefreshCurrentSource_AudioProfileRetryIsBounded(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"RQST:CS:ACT:?": "RSP:CS:ACT:APROF:Movie"}}
	c := newTestClient(tr)

	if err := c.RefreshCurrentSource(); err != nil {
		t.Fatalf("RefreshCurrentSource() error = %v", err)
	}
	if got := tr.countSent("RQST:CS:ACT:?"); got != 2 {
		t.Errorf("query sent %d times, want retry capped at one extra attempt", got)
	}
	if c.CurrentSource() != "" {
		t.Errorf("CurrentSource() = %q, want empty when both replies are echoes", c.CurrentSource())
	}
}

func TestRefreshVolume(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  float64
	}{
		{"response marker", "RSP:CS:VOL:23.5", 23.5},
		{"notification marker", "NTF:UI:VOL:42", 42},
		{"garbage value caches sentinel", "RSP:CS:VOL:garbage", UnknownVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{replies: map[string]string{"RQST:CS:VOL:?": tt.reply}}
			c := newTestClient(tr)

			if err := c.RefreshVolume(); err != nil {
				t.Fatalf("RefreshVolume() error = %v", err)
			}
			if c.Volume() != tt.want {
				t.Errorf("Volume() = %v, want %v", c.Volume(), tt.want)
			}
		})
	}
}

func TestRefreshVolume_AckKeepsValue(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{
		"RQST:CS:VOL:?":  "RSP:CS:VOL:23.5",
		"RQST:CS:VOL:30": "RSP:CS:VOL:ACK",
	}}
	c := newTestClient(tr)
	if err := c.RefreshVolume(); err != nil {
		t.Fatalf("RefreshVolume() error = %v", err)
	}

	tr.replies["RQST:CS:VOL:?"] = "RSP:CS:VOL:ACK"
	if err := c.RefreshVolume(); err != nil {
		t.Fatalf("RefreshVolume() error = %v", err)
	}
	if c.Volume() != 23.5 {
		t.Errorf("Volume() = %v, want 23.5 kept across ACK reply", c.Volume())
	}
}

func TestRefreshMute(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"RQST:CS:MUTE:?": "RSP:CS:MUTE:on"}}
	c := newTestClient(tr)

	if err := c.RefreshMute(); err != nil {
		t.Fatalf("RefreshMute() error = %v", err)
	}
	if !c.Muted() {
		t.Error("Muted() = false, want true")
	}

	tr.replies["RQST:CS:MUTE:?"] = "RSP:CS:MUTE:off"
	if err := c.RefreshMute(); err != nil {
		t.Fatalf("RefreshMute() error = %v", err)
	}
	if c.Muted() {
		t.Error("Muted() = true, want false")
	}
}

func TestRefreshAll_GatesSourceQueriesOnPower(t *testing.T) {
	t.Run("standby skips source queries", func(t *testing.T) {
		tr := &fakeTransport{replies: map[string]string{
			"RQST:CS:PWR:?":  "RSP:CS:PWR:STANDBY",
			"RQST:CS:VOL:?":  "RSP:CS:VOL:10",
			"RQST:CS:MUTE:?": "RSP:CS:MUTE:off",
		}}
		c := newTestClient(tr)

		if err := c.RefreshAll(); err != nil {
			t.Fatalf("RefreshAll() error = %v", err)
		}
		if tr.countSent("RQST:CS:ACT:?") != 0 {
			t.Error("current source queried while not powered on")
		}
		if tr.countSent("RQST:CS:REQ_ACT_LIST:?") != 0 {
			t.Error("source list queried while not powered on")
		}
	})

	t.Run("powered on runs all five", func(t *testing.T) {
		tr := &fakeTransport{replies: map[string]string{
			"RQST:CS:PWR:?":          "RSP:CS:PWR:ON",
			"RQST:CS:VOL:?":          "RSP:CS:VOL:10",
			"RQST:CS:MUTE:?":         "RSP:CS:MUTE:off",
			"RQST:CS:ACT:?":          "RSP:CS:ACT:TV",
			"RQST:CS:REQ_ACT_LIST:?": "RSP:CS:REQ_ACT_LIST:NAMES:TV,Blu-Ray",
		}}
		c := newTestClient(tr)

		if err := c.RefreshAll(); err != nil {
			t.Fatalf("RefreshAll() error = %v", err)
		}
		for _, wire := range []string{
			"RQST:CS:PWR:?", "RQST:CS:VOL:?", "RQST:CS:MUTE:?",
			"RQST:CS:ACT:?", "RQST:CS:REQ_ACT_LIST:?",
		} {
			if tr.countSent(wire) != 1 {
				t.Errorf("%q sent %d times, want 1", wire, tr.countSent(wire))
			}
		}
	})
}

func TestRefreshAll_DoesNotShortCircuit(t *testing.T) {
	tr := &fakeTransport{err: ErrNotConnected}
	c := newTestClient(tr)

	err := c.RefreshAll()
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("RefreshAll() error = %v, want joined ErrNotConnected", err)
	}
	// Power, volume and mute must each have been attempted.
	if len(tr.sent) != 3 {
		t.Errorf("sent %d commands, want all 3 unconditional refreshes attempted", len(tr.sent))
	}
}

func TestPowerOnOff_Optimistic(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{}}
	c := newTestClient(tr)

	if err := c.PowerOn(); err != nil {
		t.Fatalf("PowerOn() error = %v", err)
	}
	if c.Power() != PowerOn || !c.IsOn() {
		t.Errorf("after PowerOn: power=%q on=%v, want ON/true without acknowledgement", c.Power(), c.IsOn())
	}

	if err := c.PowerOff(); err != nil {
		t.Fatalf("PowerOff() error = %v", err)
	}
	if c.Power() != PowerOff || !c.IsOff() {
		t.Errorf("after PowerOff: power=%q off=%v, want OFF/true", c.Power(), c.IsOff())
	}
}

func TestPowerOn_TransportFailureKeepsState(t *testing.T) {
	tr := &fakeTransport{err: ErrNotConnected}
	c := newTestClient(tr)

	if err := c.PowerOn(); err == nil {
		t.Fatal("PowerOn() should fail on transport error")
	}
	if c.Power() != PowerUnknown {
		t.Errorf("Power() = %q, want unchanged on failed send", c.Power())
	}
}

func TestSetVolume_OptimisticRegardlessOfReply(t *testing.T) {
	for _, reply := range []string{"RSP:CS:VOL:ACK", "RSP:CS:VOL:42.5", ""} {
		tr := &fakeTransport{replies: map[string]string{"RQST:CS:VOL:42.5": reply}}
		c := newTestClient(tr)

		if err := c.SetVolume(42.5); err != nil {
			t.Fatalf("SetVolume() error = %v (reply %q)", err, reply)
		}
		if c.Volume() != 42.5 {
			t.Errorf("Volume() = %v, want 42.5 (reply %q)", c.Volume(), reply)
		}
	}
}

func TestVolumeSteps(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{
		"RQST:CS:VOL:?": "RSP:CS:VOL:10",
	}}
	c := newTestClient(tr)
	if err := c.RefreshVolume(); err != nil {
		t.Fatalf("RefreshVolume() error = %v", err)
	}

	if err := c.VolumeUp(); err != nil {
		t.Fatalf("VolumeUp() error = %v", err)
	}
	if tr.countSent("RQST:CS:VOL:10.5") != 1 {
		t.Errorf("VolumeUp from 10 sent %v, want RQST:CS:VOL:10.5", tr.sent)
	}
	if c.Volume() != 10.5 {
		t.Errorf("Volume() = %v, want 10.5", c.Volume())
	}

	// Re-anchor at 10 and step down.
	tr2 := &fakeTransport{replies: map[string]string{"RQST:CS:VOL:?": "RSP:CS:VOL:10"}}
	c2 := newTestClient(tr2)
	if err := c2.RefreshVolume(); err != nil {
		t.Fatalf("RefreshVolume() error = %v", err)
	}
	if err := c2.VolumeDown(); err != nil {
		t.Fatalf("VolumeDown() error = %v", err)
	}
	if tr2.countSent("RQST:CS:VOL:9.5") != 1 {
		t.Errorf("VolumeDown from 10 sent %v, want RQST:CS:VOL:9.5", tr2.sent)
	}
}

func TestMute_SendsOnOffParams(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{}}
	c := newTestClient(tr)

	if err := c.Mute(true); err != nil {
		t.Fatalf("Mute(true) error = %v", err)
	}
	if !c.Muted() {
		t.Error("Muted() = false after Mute(true)")
	}
	if tr.countSent("RQST:CS:MUTE:ON") != 1 || len(tr.sent) != 1 {
		t.Errorf("Mute(true) sent %v, want exactly one RQST:CS:MUTE:ON", tr.sent)
	}

	if err := c.Mute(false); err != nil {
		t.Fatalf("Mute(false) error = %v", err)
	}
	if c.Muted() {
		t.Error("Muted() = true after Mute(false)")
	}
	if tr.countSent("RQST:CS:MUTE:OFF") != 1 || len(tr.sent) != 2 {
		t.Errorf("Mute(false) sent %v, want exactly one RQST:CS:MUTE:OFF", tr.sent)
	}
}

func TestSelectSource_AlwaysOptimistic(t *testing.T) {
	// The acknowledgement content is deliberately not inspected.
	for _, reply := range []string{"RSP:CS:ACT:ACK", "RSP:CS:ACT:NAK", ""} {
		tr := &fakeTransport{replies: map[string]string{"RQST:CS:ACT:Apple TV": reply}}
		c := newTestClient(tr)

		if err := c.SelectSource("Apple TV"); err != nil {
			t.Fatalf("SelectSource() error = %v (reply %q)", err, reply)
		}
		if c.CurrentSource() != "Apple TV" {
			t.Errorf("CurrentSource() = %q, want Apple TV (reply %q)", c.CurrentSource(), reply)
		}
	}
}

func TestAccessors(t *testing.T) {
	c := newTestClient(&fakeTransport{connected: true})

	if c.Name() != "Living Room" {
		t.Errorf("Name() = %q", c.Name())
	}
	if c.Host() != "10.0.0.5" {
		t.Errorf("Host() = %q", c.Host())
	}
	if c.Port() != DefaultPort {
		t.Errorf("Port() = %d", c.Port())
	}
	if c.Zone() != "Main Zone" {
		t.Errorf("Zone() = %q", c.Zone())
	}
	if !c.Connected() {
		t.Error("Connected() = false")
	}
	if c.Volume() != UnknownVolume {
		t.Errorf("initial Volume() = %v, want sentinel", c.Volume())
	}
	if c.IsOn() || c.IsOff() {
		t.Error("initial state should be neither on nor off")
	}
}

func TestSnapshot(t *testing.T) {
	tr := &fakeTransport{connected: true, replies: map[string]string{
		"RQST:CS:PWR:?":          "RSP:CS:PWR:ON",
		"RQST:CS:VOL:?":          "RSP:CS:VOL:18.5",
		"RQST:CS:MUTE:?":         "RSP:CS:MUTE:on",
		"RQST:CS:ACT:?":          "RSP:CS:ACT:TV",
		"RQST:CS:REQ_ACT_LIST:?": "RSP:CS:REQ_ACT_LIST:NAMES:TV,Tuner",
	}}
	c := newTestClient(tr)
	if err := c.RefreshAll(); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}

	s := c.Snapshot()
	if s.Power != PowerOn || s.State != StateOn || s.Volume != 18.5 || !s.Muted {
		t.Errorf("Snapshot() = %+v", s)
	}
	if s.CurrentSource != "TV" || len(s.Sources) != 2 {
		t.Errorf("Snapshot() sources = %q %v", s.CurrentSource, s.Sources)
	}

	// The snapshot's slice is a copy, not a view of the cache.
	s.Sources[0] = "mutated"
	if c.Sources()[0] != "TV" {
		t.Error("Snapshot() must copy the source list")
	}
}

func TestDecodeMessage(t *testing.T) {
	c := newTestClient(&fakeTransport{})

	msg, err := c.DecodeMessage("NTF:UI:VOL:12.5")
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	if msg.CommandName != "Volume" || msg.Param != "12.5" {
		t.Errorf("DecodeMessage() = %+v", msg)
	}

	if _, err := c.DecodeMessage("RSP"); err == nil {
		t.Error("DecodeMessage() should fail on malformed input")
	}
}
