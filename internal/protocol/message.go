package protocol

import (
	"fmt"
	"strings"
)

// Message is a decoded protocol line. Header, Source and Command hold the
// raw codes from the wire; the *Name fields hold their display names from
// the grammar tables. Param is empty for messages with no fourth field.
type Message struct {
	Header      string
	HeaderName  string
	Source      string
	SourceName  string
	Command     string
	CommandName string
	Param       string
	Spec        CommandSpec
}

// IsQuery reports whether the message queries a value rather than setting one.
func (m *Message) IsQuery() bool {
	return m.Param == "?"
}

// IsNotification reports whether the message is an unsolicited broadcast.
func (m *Message) IsNotification() bool {
	return m.Header == "NTF"
}

// String returns a human-readable classification of the message.
func (m *Message) String() string {
	if m.Param == "" {
		return fmt.Sprintf("%s from %s: %s", m.HeaderName, m.SourceName, m.CommandName)
	}
	return fmt.Sprintf("%s from %s: %s = %q", m.HeaderName, m.SourceName, m.CommandName, m.Param)
}

// Decode classifies an arbitrary protocol line by header, source, command
// and parameter. Parameters containing colons (activity names, name lists)
// are kept intact rather than split further.
//
// Decode is a standalone utility: the synchronous refresh path matches
// replies against markers directly and does not route through it. It exists
// for inspection tooling and for a future handler of unsolicited NTF
// traffic.
func Decode(text string) (*Message, error) {
	fields := strings.SplitN(strings.TrimSpace(text), ":", 4)
	if len(fields) < 3 {
		return nil, fmt.Errorf("malformed message %q: expected at least HEADER:SOURCE:COMMAND", text)
	}

	msg := &Message{
		Header:  fields[0],
		Source:  fields[1],
		Command: fields[2],
	}
	if len(fields) == 4 {
		msg.Param = fields[3]
	}

	var ok bool
	if msg.HeaderName, ok = headerNames[msg.Header]; !ok {
		return nil, fmt.Errorf("unknown header %q in message %q", msg.Header, text)
	}
	if msg.SourceName, ok = sourceNames[msg.Source]; !ok {
		return nil, fmt.Errorf("unknown source %q in message %q", msg.Source, text)
	}
	if msg.Spec, ok = grammar[msg.Command]; !ok {
		return nil, fmt.Errorf("unknown command %q in message %q", msg.Command, text)
	}
	msg.CommandName = msg.Spec.Name

	return msg, nil
}
