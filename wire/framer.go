// Package wire defines the message framer contract: how one pod message
// payload is delimited on a byte stream, independent of the codec itself
// (spec.md §4.3). It also provides a reference framer over net.Conn,
// used by tests and by the protocol-dial command.
package wire

import "context"

// Message is one framed protocol message: the object it targets, the
// opcode of the method or event being invoked, and the raw pod payload
// (a single top-level Struct record, undecoded).
type Message struct {
	ObjectID uint32
	Opcode   uint8
	Payload  []byte
}

// Dispatcher is the push target a Framer delivers inbound messages to.
// Connection implements this interface (spec.md §4.7).
type Dispatcher interface {
	Dispatch(msg Message) error
}

// Framer owns one underlying byte stream and is responsible for
// delimiting messages on it. BeginWrite/EndWrite bracket the
// construction of one outbound message so the framer can size and
// prefix it; Run drives the framer's read loop, invoking d for each
// message it is able to parse, until the stream ends or ctx is canceled.
type Framer interface {
	// BeginWrite returns a scratch buffer of at least size bytes to copy
	// a new message's payload into; the caller writes the pod struct,
	// then passes the same objectID/opcode to EndWrite along with the
	// number of bytes actually used.
	BeginWrite(size int) []byte
	// EndWrite frames and sends the first n bytes returned by the most
	// recent BeginWrite, addressed to objectID/opcode.
	EndWrite(objectID uint32, opcode uint8, n int) error
	// Run reads frames until the stream is closed or ctx is canceled,
	// calling d.Dispatch for each one, in arrival order.
	Run(ctx context.Context, d Dispatcher) error
	// Close releases the underlying stream.
	Close() error
}
