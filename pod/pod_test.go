package pod_test

import (
	"errors"
	"testing"

	"github.com/go-test/deep"

	"github.com/phomes/pipewire/pod"
)

func TestScalarRoundTrip(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(7)
	b.WriteInt64(-123456789012)
	b.WriteString("app.name")
	b.CloseStruct(f)

	if len(b.Bytes())%4 != 0 {
		t.Fatalf("encoded message is not 4-byte aligned: %d bytes", len(b.Bytes()))
	}

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	i32, err := it.ReadInt32()
	if err != nil || i32 != 7 {
		t.Fatalf("ReadInt32 = %d, %v, want 7, nil", i32, err)
	}
	i64, err := it.ReadInt64()
	if err != nil || i64 != -123456789012 {
		t.Fatalf("ReadInt64 = %d, %v, want -123456789012, nil", i64, err)
	}
	s, err := it.ReadString()
	if err != nil || s != "app.name" {
		t.Fatalf("ReadString = %q, %v, want %q, nil", s, err, "app.name")
	}
	if !it.Done() {
		t.Fatal("expected no more records")
	}
}

// TestSyncScenario reproduces spec.md §8 scenario 1: core.sync(seq=7)
// encodes to a struct containing a single Int32(7).
func TestSyncScenario(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(7)
	b.CloseStruct(f)

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	seq, err := it.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32: %v", err)
	}
	if seq != 7 {
		t.Fatalf("seq = %d, want 7", seq)
	}
}

func TestPropDictRoundTrip(t *testing.T) {
	cases := [][][2]string{
		nil,
		{{"app.name", "poppy"}},
		{{"a", "1"}, {"b", "2"}, {"c", "3"}},
	}
	for _, props := range cases {
		b := pod.NewBuilder()
		f := b.OpenStruct()
		b.WritePropDict(props)
		b.CloseStruct(f)

		r := pod.NewReader(b.Bytes())
		it, err := r.OpenStruct()
		if err != nil {
			t.Fatalf("OpenStruct: %v", err)
		}
		got, err := it.ReadPropDict()
		if err != nil {
			t.Fatalf("ReadPropDict: %v", err)
		}
		if diff := deep.Equal(got, append([][2]string{}, props...)); diff != nil {
			t.Errorf("prop dict round trip mismatch: %v", diff)
		}
	}
}

// TestEmptyPropDict exercises the boundary behavior from spec.md §8: an
// empty prop_dict encodes just Int32(0).
func TestEmptyPropDict(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WritePropDict(nil)
	b.CloseStruct(f)

	// struct header (8) + Int32 record (8 + 4) = 20 bytes.
	if got, want := len(b.Bytes()), 20; got != want {
		t.Fatalf("encoded length = %d, want %d", got, want)
	}
}

func TestObjectRoundTrip(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteObject(42, []byte("opaque-format-bytes"))
	b.CloseStruct(f)

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	typeID, body, err := it.ReadObject()
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if typeID != 42 {
		t.Fatalf("typeID = %d, want 42", typeID)
	}
	if string(body) != "opaque-format-bytes" {
		t.Fatalf("body = %q, want %q", body, "opaque-format-bytes")
	}
}

// TestOptionalObjectAbsent reproduces spec.md §8's create_link-with-no-
// filter boundary case: the optional Object is entirely omitted, and the
// decoder's optional read must not consume the following record.
func TestOptionalObjectAbsent(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(99) // stand-in for the field that follows filter
	b.CloseStruct(f)

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	_, _, present, err := it.ReadOptionalObject()
	if err != nil {
		t.Fatalf("ReadOptionalObject: %v", err)
	}
	if present {
		t.Fatal("expected filter to be reported absent")
	}
	next, err := it.ReadInt32()
	if err != nil || next != 99 {
		t.Fatalf("ReadInt32 after optional absent = %d, %v, want 99, nil", next, err)
	}
}

func TestOptionalObjectPresent(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteObject(5, []byte("fmt"))
	b.CloseStruct(f)

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	typeID, body, present, err := it.ReadOptionalObject()
	if err != nil || !present {
		t.Fatalf("ReadOptionalObject = _, _, %v, %v, want true, nil", present, err)
	}
	if typeID != 5 || string(body) != "fmt" {
		t.Fatalf("ReadOptionalObject = %d, %q, want 5, %q", typeID, body, "fmt")
	}
}

// TestOptionalObjectWrongTag exercises the resolved Open Question in
// spec.md §9: a present-but-wrong-tag record where an optional Object was
// expected fails rather than being silently treated as absent.
func TestOptionalObjectWrongTag(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteString("not-an-object")
	b.CloseStruct(f)

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	_, _, _, err = it.ReadOptionalObject()
	if !errors.Is(err, pod.ErrDecode) {
		t.Fatalf("ReadOptionalObject err = %v, want ErrDecode", err)
	}
}

func TestTagMismatchFails(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteString("hello")
	b.CloseStruct(f)

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	if _, err := it.ReadInt32(); !errors.Is(err, pod.ErrDecode) {
		t.Fatalf("ReadInt32 on a String record err = %v, want ErrDecode", err)
	}
}

func TestTruncatedBufferFails(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(1)
	b.CloseStruct(f)

	truncated := b.Bytes()[:len(b.Bytes())-2]
	r := pod.NewReader(truncated)
	if _, err := r.OpenStruct(); !errors.Is(err, pod.ErrDecode) {
		t.Fatalf("OpenStruct on truncated buffer err = %v, want ErrDecode", err)
	}
}

func TestNestedStruct(t *testing.T) {
	b := pod.NewBuilder()
	outer := b.OpenStruct()
	b.WriteInt32(1)
	inner := b.OpenStruct()
	b.WriteString("nested")
	b.CloseStruct(inner)
	b.WriteInt32(2)
	b.CloseStruct(outer)

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	first, err := it.ReadInt32()
	if err != nil || first != 1 {
		t.Fatalf("first = %d, %v, want 1, nil", first, err)
	}
	nestedIt, err := it.ReadStruct()
	if err != nil {
		t.Fatalf("ReadStruct: %v", err)
	}
	nested, err := nestedIt.ReadString()
	if err != nil || nested != "nested" {
		t.Fatalf("nested string = %q, %v, want %q, nil", nested, err, "nested")
	}
	second, err := it.ReadInt32()
	if err != nil || second != 2 {
		t.Fatalf("second = %d, %v, want 2, nil", second, err)
	}
	if err := pod.RemapEmbeddedIDs(b.Bytes(), func(id int32) (int32, bool) { return id, true }); err != nil {
		t.Fatalf("RemapEmbeddedIDs on struct with no objects: %v", err)
	}
}

func TestRemapEmbeddedIDs(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(3)
	b.WriteObject(100, []byte("payload-a"))
	inner := b.OpenStruct()
	b.WriteObject(101, []byte("payload-b"))
	b.CloseStruct(inner)
	b.CloseStruct(f)

	translate := map[int32]int32{100: 7, 101: 8}
	err := pod.RemapEmbeddedIDs(b.Bytes(), func(wireID int32) (int32, bool) {
		localID, ok := translate[wireID]
		return localID, ok
	})
	if err != nil {
		t.Fatalf("RemapEmbeddedIDs: %v", err)
	}

	r := pod.NewReader(b.Bytes())
	it, err := r.OpenStruct()
	if err != nil {
		t.Fatalf("OpenStruct: %v", err)
	}
	if _, err := it.ReadInt32(); err != nil {
		t.Fatalf("ReadInt32: %v", err)
	}
	typeID, _, err := it.ReadObject()
	if err != nil {
		t.Fatalf("ReadObject: %v", err)
	}
	if typeID != 7 {
		t.Fatalf("outer object typeID = %d, want 7 (remapped)", typeID)
	}
}

func TestRemapUnknownIDFails(t *testing.T) {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteObject(999, nil)
	b.CloseStruct(f)

	err := pod.RemapEmbeddedIDs(b.Bytes(), func(int32) (int32, bool) { return 0, false })
	if !errors.Is(err, pod.ErrDecode) {
		t.Fatalf("RemapEmbeddedIDs on unknown id err = %v, want ErrDecode", err)
	}
}
