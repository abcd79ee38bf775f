package typemap_test

import (
	"errors"
	"testing"

	"github.com/phomes/pipewire/typemap"
)

// fakeRegistry is a minimal in-memory typemap.Registry for tests: an
// append-only slice plus a name-to-id index.
type fakeRegistry struct {
	uris []string
	ids  map[string]int32
}

func newFakeRegistry(seed ...string) *fakeRegistry {
	r := &fakeRegistry{ids: make(map[string]int32)}
	for _, uri := range seed {
		r.Intern(uri)
	}
	return r
}

func (r *fakeRegistry) Size() int { return len(r.uris) }

func (r *fakeRegistry) URI(id int32) (string, bool) {
	if id < 0 || int(id) >= len(r.uris) {
		return "", false
	}
	return r.uris[id], true
}

func (r *fakeRegistry) Intern(uri string) int32 {
	if id, ok := r.ids[uri]; ok {
		return id
	}
	id := int32(len(r.uris))
	r.uris = append(r.uris, uri)
	r.ids[uri] = id
	return id
}

func TestEnsureUpToDateNoop(t *testing.T) {
	reg := newFakeRegistry()
	m := typemap.New()
	if u := m.EnsureUpToDate(reg); u != nil {
		t.Fatalf("EnsureUpToDate on empty registry = %+v, want nil", u)
	}
}

// TestEnsureUpToDateHighWaterMark reproduces spec.md §8 invariant 3: after
// marshaling a message that references newly registered types, the sent
// high-water mark equals the registry size.
func TestEnsureUpToDateHighWaterMark(t *testing.T) {
	reg := newFakeRegistry("PipeWire:Interface:Core", "PipeWire:Interface:Registry")
	m := typemap.New()

	u := m.EnsureUpToDate(reg)
	if u == nil {
		t.Fatal("EnsureUpToDate = nil, want an update covering the seeded types")
	}
	if u.FirstID != 0 {
		t.Fatalf("FirstID = %d, want 0", u.FirstID)
	}
	if len(u.URIs) != 2 || u.URIs[0] != "PipeWire:Interface:Core" || u.URIs[1] != "PipeWire:Interface:Registry" {
		t.Fatalf("URIs = %v, want the two seeded URIs in order", u.URIs)
	}
	if m.SentHighWater() != int32(reg.Size()) {
		t.Fatalf("SentHighWater = %d, want %d", m.SentHighWater(), reg.Size())
	}

	// A second call with nothing new registered is a no-op.
	if u := m.EnsureUpToDate(reg); u != nil {
		t.Fatalf("second EnsureUpToDate = %+v, want nil", u)
	}

	// Registering one more type produces an incremental update starting
	// right after the high-water mark, not a re-send of everything.
	reg.Intern("PipeWire:Interface:Node")
	u = m.EnsureUpToDate(reg)
	if u == nil {
		t.Fatal("EnsureUpToDate after growth = nil, want an update")
	}
	if u.FirstID != 2 {
		t.Fatalf("FirstID = %d, want 2", u.FirstID)
	}
	if len(u.URIs) != 1 || u.URIs[0] != "PipeWire:Interface:Node" {
		t.Fatalf("URIs = %v, want [PipeWire:Interface:Node]", u.URIs)
	}
	if m.SentHighWater() != int32(reg.Size()) {
		t.Fatalf("SentHighWater = %d, want %d", m.SentHighWater(), reg.Size())
	}
}

func TestWireOfAfterEnsureUpToDate(t *testing.T) {
	reg := newFakeRegistry("PipeWire:Interface:Core")
	m := typemap.New()
	m.EnsureUpToDate(reg)

	wireID, ok := m.WireOf(0)
	if !ok || wireID != 0 {
		t.Fatalf("WireOf(0) = %d, %v, want 0, true", wireID, ok)
	}
	if _, ok := m.WireOf(99); ok {
		t.Fatal("WireOf on an id never sent should report absent")
	}
}

func TestOnUpdateTypesInOrder(t *testing.T) {
	reg := newFakeRegistry()
	m := typemap.New()

	if err := m.OnUpdateTypes(reg, 0, []string{"PipeWire:Interface:Core", "PipeWire:Interface:Registry"}); err != nil {
		t.Fatalf("OnUpdateTypes: %v", err)
	}
	localID, ok := m.LocalOf(1)
	if !ok {
		t.Fatal("LocalOf(1) = _, false, want true")
	}
	uri, ok := reg.URI(localID)
	if !ok || uri != "PipeWire:Interface:Registry" {
		t.Fatalf("interned URI for wire id 1 = %q, want PipeWire:Interface:Registry", uri)
	}
	if m.RecvHighWater() != 2 {
		t.Fatalf("RecvHighWater = %d, want 2", m.RecvHighWater())
	}

	if err := m.OnUpdateTypes(reg, 2, []string{"PipeWire:Interface:Node"}); err != nil {
		t.Fatalf("second OnUpdateTypes: %v", err)
	}
	if m.RecvHighWater() != 3 {
		t.Fatalf("RecvHighWater after second update = %d, want 3", m.RecvHighWater())
	}
}

// TestOnUpdateTypesGapFails reproduces spec.md §8 invariant 4: an
// update_types announcement whose first_id skips ahead of the high-water
// mark is a protocol violation (TypeMapGap), not a partial acceptance.
func TestOnUpdateTypesGapFails(t *testing.T) {
	reg := newFakeRegistry()
	m := typemap.New()

	err := m.OnUpdateTypes(reg, 3, []string{"PipeWire:Interface:Node"})
	if !errors.Is(err, typemap.ErrGap) {
		t.Fatalf("OnUpdateTypes with a gap = %v, want ErrGap", err)
	}
	if m.RecvHighWater() != 0 {
		t.Fatalf("RecvHighWater after rejected update = %d, want 0 (unchanged)", m.RecvHighWater())
	}
}

func TestOnUpdateTypesOverlapFails(t *testing.T) {
	reg := newFakeRegistry()
	m := typemap.New()

	if err := m.OnUpdateTypes(reg, 0, []string{"PipeWire:Interface:Core"}); err != nil {
		t.Fatalf("OnUpdateTypes: %v", err)
	}
	// Re-announcing starting at 0 instead of the expected 1 is a
	// backwards overlap, also rejected as a gap violation.
	err := m.OnUpdateTypes(reg, 0, []string{"PipeWire:Interface:Core"})
	if !errors.Is(err, typemap.ErrGap) {
		t.Fatalf("overlapping OnUpdateTypes = %v, want ErrGap", err)
	}
}
