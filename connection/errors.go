package connection

import "errors"

// ErrUnknownObject is returned when an inbound message targets an
// object id with no entry in the connection's object table (spec.md §7
// "UnknownObject").
var ErrUnknownObject = errors.New("connection: message targets unknown object id")

// ErrDisconnected is the sentinel for a connection whose underlying
// framer has reported its stream closed. No Connection method returns
// it.
var ErrDisconnected = errors.New("connection: connection is closed")

// ErrProtocolError is the sentinel the caller may wrap when reporting
// an application-level protocol error via a core.error event; it never
// by itself implies connection teardown (spec.md §7).
var ErrProtocolError = errors.New("connection: protocol error")
