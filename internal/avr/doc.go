// Package avr implements the stateful control client for Mark Levinson
// No.502 series preamplifiers.
//
// A Client owns one TCP connection to the device (default port 15003) and a
// cache of typed state: power mode, derived on/off display state, volume,
// mute, the active source and the source list. Refresh operations issue a
// synchronous request over the connection, parse the reply and update the
// cache; control operations (power, volume, mute, source selection) update
// the cache optimistically as soon as the command is written, without
// waiting for the device's acknowledgement content. The cache can therefore
// run ahead of the real device state until the next refresh if the device
// rejects a value it accepted at the transport layer.
//
// Only the main zone is modeled. The protocol also carries unsolicited NTF
// broadcasts; this client polls synchronously and does not consume them.
//
// All public operations serialize on an internal mutex: the protocol has no
// request framing beyond one-reply-per-request, so a second command before
// the first reply is read would corrupt the stream.
//
// # Failure policy
//
// Connection failures at dial time are logged and leave the client in a
// "no connection" state where every send fails with ErrNotConnected.
// Transport failures mid-command fail the operation and leave the cache at
// its last known value. Replies that match no known marker are logged and
// ignored rather than failing the operation. No failure is fatal; the worst
// case is stale cached state and logged warnings.
package avr
