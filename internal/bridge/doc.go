// Package bridge exposes one preamplifier's cached state over HTTP and
// WebSocket.
//
// The bridge owns the polling cadence the protocol client deliberately does
// not have: it refreshes the client on a fixed interval (reference 4s) and
// pushes a JSON state snapshot to every WebSocket subscriber after each
// refresh. A plain GET /state returns the latest snapshot for consumers
// that do not want a stream.
//
// Because the client serializes its own operations, the bridge's poll loop
// and any number of HTTP readers can coexist without extra locking around
// the protocol exchange.
package bridge
