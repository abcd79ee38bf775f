package pod

import "encoding/binary"

// Builder encodes pod records into a growable byte buffer. Builder mirrors
// the framer's begin_write/end_write contract (spec §4.3): a real framer
// owns the buffer and may grow it between calls, but it must never shift
// already-written bytes, so Builder is free to keep its own backing slice
// and hand the framer its final Bytes() at end_write time.
//
// Encoders cannot fail; the only way to run out of room is to run out of
// memory, which Go's append handles by growing the slice.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderSize returns an empty Builder with capacity pre-reserved, to
// avoid reallocation for a message of roughly known size.
func NewBuilderSize(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

// Bytes returns the bytes written so far. The returned slice aliases the
// Builder's internal buffer and is invalidated by further writes.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Offset returns the current write position, i.e. the number of bytes
// written so far. The framer uses this as the payload length passed to
// end_write.
func (b *Builder) Offset() int {
	return len(b.buf)
}

// Reset clears the builder for reuse without releasing its backing array,
// matching the teacher's pattern of pooling scratch buffers across
// messages.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// StructFrame marks an open struct record pending CloseStruct. It holds the
// byte offset of the struct's own (size, tag) header so that offset can be
// back-patched once the struct's length is known.
type StructFrame struct {
	headerPos int
}

// OpenStruct brackets the start of a nested Struct record. Every OpenStruct
// must be matched by exactly one CloseStruct before the enclosing record
// (or the top-level message) is finished.
func (b *Builder) OpenStruct() StructFrame {
	pos := len(b.buf)
	b.buf = append(b.buf, make([]byte, recordHeaderSize)...)
	binary.LittleEndian.PutUint32(b.buf[pos+4:], uint32(TagStruct))
	return StructFrame{headerPos: pos}
}

// CloseStruct back-patches the size field recorded by the matching
// OpenStruct. Struct payloads need no extra padding of their own: every
// child record is already 4-byte aligned, and the 8-byte header keeps that
// alignment, so the struct as a whole ends aligned.
func (b *Builder) CloseStruct(f StructFrame) {
	size := len(b.buf) - f.headerPos - recordHeaderSize
	binary.LittleEndian.PutUint32(b.buf[f.headerPos:], uint32(size))
}

// appendRecord appends one complete record: header, payload, and padding.
func (b *Builder) appendRecord(tag Tag, payload []byte) {
	pos := len(b.buf)
	b.buf = append(b.buf, make([]byte, recordHeaderSize)...)
	binary.LittleEndian.PutUint32(b.buf[pos:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(b.buf[pos+4:], uint32(tag))
	b.buf = append(b.buf, payload...)
	if pad := align4(len(payload)) - len(payload); pad > 0 {
		b.buf = append(b.buf, make([]byte, pad)...)
	}
}

// WriteInt32 appends a signed 32-bit integer record.
func (b *Builder) WriteInt32(v int32) {
	var payload [4]byte
	binary.LittleEndian.PutUint32(payload[:], uint32(v))
	b.appendRecord(TagInt32, payload[:])
}

// WriteInt64 appends a signed 64-bit integer record.
func (b *Builder) WriteInt64(v int64) {
	var payload [8]byte
	binary.LittleEndian.PutUint64(payload[:], uint64(v))
	b.appendRecord(TagInt64, payload[:])
}

// WriteString appends a null-terminated UTF-8 string record. The size
// field counts the terminator.
func (b *Builder) WriteString(s string) {
	payload := make([]byte, len(s)+1)
	copy(payload, s)
	// payload[len(s)] is already zero.
	b.appendRecord(TagString, payload)
}

// WriteObject appends an Object record: an opaque nested pod whose content
// is schema-opaque to this layer (spec §4.5 "format" argument shape),
// except for one reserved field every Object carries so the type-id
// remapping protocol has something concrete to rewrite: the first four
// bytes of the payload are a little-endian type id, referring to the
// type-id map's wire-side numbering (spec §4.2). Callers pass the type id
// already translated to the wire id via typemap.WireOf; body is the
// remaining opaque bytes.
func (b *Builder) WriteObject(typeID int32, body []byte) {
	payload := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(payload[:4], uint32(typeID))
	copy(payload[4:], body)
	b.appendRecord(TagObject, payload)
}

// WritePropDict appends the prop_dict argument shape: Int32 n_items
// followed by n_items (String, String) pairs, in order. An empty dict
// still encodes the Int32(0) count (spec §8 boundary behavior).
func (b *Builder) WritePropDict(props [][2]string) {
	b.WriteInt32(int32(len(props)))
	for _, kv := range props {
		b.WriteString(kv[0])
		b.WriteString(kv[1])
	}
}

// WriteTypeList appends the type_list argument shape: Int32 first_id,
// Int32 n, then n strings.
func (b *Builder) WriteTypeList(firstID int32, names []string) {
	b.WriteInt32(firstID)
	b.WriteInt32(int32(len(names)))
	for _, n := range names {
		b.WriteString(n)
	}
}
