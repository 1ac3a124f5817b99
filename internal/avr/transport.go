package avr

import (
	"io"
	"net"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// readBufferSize bounds the single read performed per command. Device
// replies are short single lines; 64 bytes covers the longest observed
// activity list reply chunk.
const readBufferSize = 64

// Transport owns the TCP connection to the device and performs the
// byte-level request/response exchange: one write of a carriage-return
// terminated command, one bounded read of the reply.
//
// There is no retry and no timeout beyond the socket defaults; a stalled
// device blocks the caller. The polling layer owns the cadence.
type Transport struct {
	conn net.Conn
	log  *zap.Logger
}

// Dial opens a TCP connection to the device. Any connection-level failure
// (refused, address resolution, generic socket error) is logged as a
// warning and yields a Transport with no connection, against which every
// Send fails with ErrNotConnected. Callers that need to distinguish can
// check Connected.
func Dial(host string, port int, log *zap.Logger) *Transport {
	if log == nil {
		log = zap.NewNop()
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Warn("connection to device failed",
			zap.String("addr", addr),
			zap.Error(err),
		)
		return &Transport{log: log}
	}

	log.Debug("connected to device", zap.String("addr", addr))
	return &Transport{conn: conn, log: log}
}

// Connected reports whether the transport holds a live connection.
func (t *Transport) Connected() bool {
	return t.conn != nil
}

// Send writes the wire command with a trailing carriage return, performs
// one bounded read and returns the reply text with all carriage returns and
// newlines stripped.
func (t *Transport) Send(wire string) (string, error) {
	if t.conn == nil {
		return "", ErrNotConnected
	}

	if _, err := io.WriteString(t.conn, wire+"\r"); err != nil {
		return "", &TransportError{Op: "write", Command: wire, Err: err}
	}

	buf := make([]byte, readBufferSize)
	n, err := t.conn.Read(buf)
	if err != nil {
		return "", &TransportError{Op: "read", Command: wire, Err: err}
	}

	resp := strings.NewReplacer("\r", "", "\n", "").Replace(string(buf[:n]))
	t.log.Debug("command exchange",
		zap.String("sent", wire),
		zap.String("received", resp),
	)
	return resp, nil
}

// Close closes the connection. Subsequent sends fail with ErrNotConnected.
func (t *Transport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
