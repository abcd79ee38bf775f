package wire

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

// connHeader is the fixed framing header written ahead of every message
// payload: the target object id, the method/event opcode, and the
// payload length. Modeled on the teacher's loader.PMReader, which reads
// a fixed syscall.NlMsghdr header via encoding/binary.Read and then a
// length-derived payload; here the header is this protocol's own
// (object id, opcode, size) instead of a borrowed netlink header.
type connHeader struct {
	ObjectID uint32
	Opcode   uint32 // only the low byte is significant; kept 32-bit for alignment
	Size     uint32
}

// ConnFramer is a reference Framer over a net.Conn, used by tests and by
// the protocol-dial command. It is not part of the codec's
// normative surface; a production transport may frame messages however
// it likes, as long as it satisfies Framer.
type ConnFramer struct {
	conn net.Conn
	buf  []byte
}

// NewConnFramer wraps conn. conn is owned by the ConnFramer from this
// point on; Close closes it.
func NewConnFramer(conn net.Conn) *ConnFramer {
	return &ConnFramer{conn: conn}
}

// BeginWrite returns a scratch buffer of at least size bytes, growing
// the framer's reused backing array if the previous one was too small.
func (f *ConnFramer) BeginWrite(size int) []byte {
	if cap(f.buf) < size {
		f.buf = make([]byte, size)
	}
	return f.buf[:size]
}

// EndWrite frames payload[:n] with a connHeader and writes it to the
// underlying conn in one call.
func (f *ConnFramer) EndWrite(objectID uint32, opcode uint8, n int) error {
	hdr := connHeader{ObjectID: objectID, Opcode: uint32(opcode), Size: uint32(n)}
	out := make([]byte, 0, 12+n)
	var hdrBytes [12]byte
	binary.LittleEndian.PutUint32(hdrBytes[0:4], hdr.ObjectID)
	binary.LittleEndian.PutUint32(hdrBytes[4:8], hdr.Opcode)
	binary.LittleEndian.PutUint32(hdrBytes[8:12], hdr.Size)
	out = append(out, hdrBytes[:]...)
	out = append(out, f.buf[:n]...)
	_, err := f.conn.Write(out)
	return err
}

// Run reads (header, payload) frames until the connection closes or ctx
// is canceled, dispatching each to d in arrival order.
func (f *ConnFramer) Run(ctx context.Context, d Dispatcher) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			f.conn.Close()
		case <-done:
		}
	}()

	var hdrBytes [12]byte
	for {
		if _, err := io.ReadFull(f.conn, hdrBytes[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("wire: reading frame header: %w", err)
		}
		objectID := binary.LittleEndian.Uint32(hdrBytes[0:4])
		opcode := binary.LittleEndian.Uint32(hdrBytes[4:8])
		size := binary.LittleEndian.Uint32(hdrBytes[8:12])

		payload := make([]byte, size)
		if _, err := io.ReadFull(f.conn, payload); err != nil {
			return fmt.Errorf("wire: reading frame payload (%d bytes): %w", size, err)
		}
		msg := Message{ObjectID: objectID, Opcode: uint8(opcode), Payload: payload}
		if err := d.Dispatch(msg); err != nil {
			return err
		}
	}
}

// Close closes the underlying connection.
func (f *ConnFramer) Close() error {
	return f.conn.Close()
}
