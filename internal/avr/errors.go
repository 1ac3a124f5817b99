package avr

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by every send attempted while the client has
// no TCP connection, whether the dial failed or the connection was closed.
var ErrNotConnected = errors.New("no connection to device")

// TransportError reports a write or read failure for a single command. The
// cached state is left at its last known value when one occurs.
type TransportError struct {
	Op      string // "write" or "read"
	Command string // wire string without terminator
	Err     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed for %q: %v", e.Op, e.Command, e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *TransportError) Unwrap() error {
	return e.Err
}
