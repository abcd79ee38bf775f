package pod

import "encoding/binary"

// readHeader parses the (u32 size, u32 tag) header at the front of buf.
// It does not validate that size bytes (plus padding) actually fit in buf;
// callers check that against their own remaining-bytes budget.
func readHeader(buf []byte) (size int, tag Tag, err error) {
	if len(buf) < recordHeaderSize {
		return 0, 0, decodeErrorf("truncated record header (%d bytes left)", len(buf))
	}
	size = int(binary.LittleEndian.Uint32(buf[0:4]))
	tag = Tag(binary.LittleEndian.Uint32(buf[4:8]))
	if size < 0 {
		return 0, 0, decodeErrorf("negative record size %d", size)
	}
	return size, tag, nil
}

// Reader decodes pod records from a borrowed byte slice. Reader never
// copies the slice; everything it returns (other than decoded strings and
// scalars) aliases the original buffer, which is normally owned by the
// framer for the duration of one dispatch. Callers that must retain a
// returned []byte (e.g. an Object's body) past the handler call must copy
// it themselves.
type Reader struct {
	buf []byte
}

// NewReader wraps buf, which must hold exactly one top-level message
// payload.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// OpenStruct reads the top-level record and fails unless its tag is
// Struct, per the message payload contract (spec §3: "the payload is
// exactly one top-level Struct").
func (r *Reader) OpenStruct() (*StructIter, error) {
	size, tag, err := readHeader(r.buf)
	if err != nil {
		return nil, err
	}
	if tag != TagStruct {
		return nil, decodeErrorf("top-level record is %v, want Struct", tag)
	}
	total := recordHeaderSize + align4(size)
	if total > len(r.buf) {
		return nil, decodeErrorf("struct record (%d bytes) exceeds payload (%d bytes)", total, len(r.buf))
	}
	return &StructIter{buf: r.buf[recordHeaderSize : recordHeaderSize+size]}, nil
}

// StructIter walks the records inside one Struct payload in order.
type StructIter struct {
	buf []byte
	pos int
}

// Done reports whether every record in the struct has been consumed.
func (it *StructIter) Done() bool {
	return it.pos >= len(it.buf)
}

// next consumes and returns the tag and payload of the next record.
func (it *StructIter) next() (Tag, []byte, error) {
	remain := it.buf[it.pos:]
	size, tag, err := readHeader(remain)
	if err != nil {
		return 0, nil, err
	}
	total := recordHeaderSize + align4(size)
	if total > len(remain) {
		return 0, nil, decodeErrorf("record (%d bytes) exceeds remaining struct bytes (%d)", total, len(remain))
	}
	payload := remain[recordHeaderSize : recordHeaderSize+size]
	it.pos += total
	return tag, payload, nil
}

// peekTag reports the tag of the next record without consuming it. The
// second return is false if there is no further record.
func (it *StructIter) peekTag() (Tag, bool) {
	remain := it.buf[it.pos:]
	if len(remain) < recordHeaderSize {
		return 0, false
	}
	return Tag(binary.LittleEndian.Uint32(remain[4:8])), true
}

// PeekTag reports the tag of the next record without consuming it, for
// callers that walk a struct generically (e.g. a dump tool) rather than
// against a known argument schema. The second return is false once Done
// reports true.
func (it *StructIter) PeekTag() (Tag, bool) {
	return it.peekTag()
}

// SkipRecord consumes and discards the next record, whatever its tag, for
// callers that only need to walk record boundaries rather than decode
// values.
func (it *StructIter) SkipRecord() error {
	_, _, err := it.next()
	return err
}

// ReadInt32 consumes the next record, which must carry tag Int32.
func (it *StructIter) ReadInt32() (int32, error) {
	tag, payload, err := it.next()
	if err != nil {
		return 0, err
	}
	if tag != TagInt32 {
		return 0, decodeErrorf("expected Int32, got %v", tag)
	}
	if len(payload) != 4 {
		return 0, decodeErrorf("Int32 payload is %d bytes, want 4", len(payload))
	}
	return int32(binary.LittleEndian.Uint32(payload)), nil
}

// ReadStruct consumes the next record, which must carry tag Struct, and
// returns an iterator over its children.
func (it *StructIter) ReadStruct() (*StructIter, error) {
	tag, payload, err := it.next()
	if err != nil {
		return nil, err
	}
	if tag != TagStruct {
		return nil, decodeErrorf("expected Struct, got %v", tag)
	}
	return &StructIter{buf: payload}, nil
}

// ReadInt64 consumes the next record, which must carry tag Int64.
func (it *StructIter) ReadInt64() (int64, error) {
	tag, payload, err := it.next()
	if err != nil {
		return 0, err
	}
	if tag != TagInt64 {
		return 0, decodeErrorf("expected Int64, got %v", tag)
	}
	if len(payload) != 8 {
		return 0, decodeErrorf("Int64 payload is %d bytes, want 8", len(payload))
	}
	return int64(binary.LittleEndian.Uint64(payload)), nil
}

// ReadString consumes the next record, which must carry tag String, and
// returns its content without the null terminator. Unlike Object bodies,
// the returned string is a fresh copy: Go string values are immutable, so
// there is no way to alias the read buffer without risking it being
// mutated by a later remap pass.
func (it *StructIter) ReadString() (string, error) {
	tag, payload, err := it.next()
	if err != nil {
		return "", err
	}
	if tag != TagString {
		return "", decodeErrorf("expected String, got %v", tag)
	}
	if len(payload) == 0 || payload[len(payload)-1] != 0 {
		return "", decodeErrorf("string record missing null terminator")
	}
	return string(payload[:len(payload)-1]), nil
}

// ReadObject consumes the next record, which must carry tag Object, and
// returns its embedded type id plus its opaque body. body aliases the
// reader's underlying buffer.
func (it *StructIter) ReadObject() (typeID int32, body []byte, err error) {
	tag, payload, err := it.next()
	if err != nil {
		return 0, nil, err
	}
	if tag != TagObject {
		return 0, nil, decodeErrorf("expected Object, got %v", tag)
	}
	if len(payload) < 4 {
		return 0, nil, decodeErrorf("object payload (%d bytes) too short for embedded type id", len(payload))
	}
	typeID = int32(binary.LittleEndian.Uint32(payload[:4]))
	return typeID, payload[4:], nil
}

// ReadOptionalObject implements the schema's "-Object" convention: if the
// struct has no more records, or the next record is an Int32 (the field
// that follows an optional object in the schema, e.g. create_link's
// prop_dict count), the field is absent and nothing is consumed. If the
// next record is an Object, it is read normally. If it is anything else,
// this is the ambiguous case flagged in the design notes; the
// conservative resolution is to fail rather than silently treat a
// present-but-wrong-tag record as absence.
func (it *StructIter) ReadOptionalObject() (typeID int32, body []byte, present bool, err error) {
	tag, ok := it.peekTag()
	if !ok || tag == TagInt32 {
		return 0, nil, false, nil
	}
	if tag != TagObject {
		return 0, nil, false, decodeErrorf("expected Object, Int32 or end of struct, got %v", tag)
	}
	typeID, body, err = it.ReadObject()
	if err != nil {
		return 0, nil, false, err
	}
	return typeID, body, true, nil
}

// ReadPropDict consumes the prop_dict argument shape: Int32 n followed by
// n (String, String) pairs. The returned slice preserves wire order, per
// the property-dictionary ordering invariant (spec §8 item 1).
func (it *StructIter) ReadPropDict() ([][2]string, error) {
	n, err := it.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, decodeErrorf("prop_dict count %d is negative", n)
	}
	props := make([][2]string, 0, n)
	for i := int32(0); i < n; i++ {
		k, err := it.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := it.ReadString()
		if err != nil {
			return nil, err
		}
		props = append(props, [2]string{k, v})
	}
	return props, nil
}

// ReadTypeList consumes the type_list argument shape: Int32 first_id,
// Int32 n, then n strings.
func (it *StructIter) ReadTypeList() (firstID int32, names []string, err error) {
	firstID, err = it.ReadInt32()
	if err != nil {
		return 0, nil, err
	}
	n, err := it.ReadInt32()
	if err != nil {
		return 0, nil, err
	}
	if n < 0 {
		return 0, nil, decodeErrorf("type_list count %d is negative", n)
	}
	names = make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		name, err := it.ReadString()
		if err != nil {
			return 0, nil, err
		}
		names = append(names, name)
	}
	return firstID, names, nil
}

// RemapEmbeddedIDs walks buf, a full message payload (one top-level
// Struct), rewriting every Object record's embedded type id in place using
// translate. It must be called before any handler sees an Object record,
// so that by the time a demarshaler reads a "format" argument the id
// inside it is already a local id (spec §4.1).
func RemapEmbeddedIDs(buf []byte, translate func(wireID int32) (localID int32, ok bool)) error {
	size, tag, err := readHeader(buf)
	if err != nil {
		return err
	}
	if tag != TagStruct {
		return decodeErrorf("remap: top-level record is %v, want Struct", tag)
	}
	total := recordHeaderSize + align4(size)
	if total > len(buf) {
		return decodeErrorf("remap: struct record (%d bytes) exceeds payload (%d bytes)", total, len(buf))
	}
	return remapStructBody(buf[recordHeaderSize:recordHeaderSize+size], translate)
}

func remapStructBody(body []byte, translate func(int32) (int32, bool)) error {
	pos := 0
	for pos < len(body) {
		remain := body[pos:]
		size, tag, err := readHeader(remain)
		if err != nil {
			return err
		}
		total := recordHeaderSize + align4(size)
		if total > len(remain) {
			return decodeErrorf("remap: record (%d bytes) exceeds remaining bytes (%d)", total, len(remain))
		}
		payload := remain[recordHeaderSize : recordHeaderSize+size]
		switch tag {
		case TagStruct:
			if err := remapStructBody(payload, translate); err != nil {
				return err
			}
		case TagObject:
			if len(payload) < 4 {
				return decodeErrorf("remap: object payload (%d bytes) too short for embedded type id", len(payload))
			}
			wireID := int32(binary.LittleEndian.Uint32(payload[:4]))
			localID, ok := translate(wireID)
			if !ok {
				return decodeErrorf("remap: no local id for wire type id %d", wireID)
			}
			binary.LittleEndian.PutUint32(payload[:4], uint32(localID))
		case TagInt32, TagInt64, TagString:
			// No embedded ids to rewrite.
		default:
			return decodeErrorf("remap: unknown tag %v", tag)
		}
		pos += total
	}
	return nil
}
