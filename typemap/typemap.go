// Package typemap implements the per-connection type-id map: the
// bidirectional translation between process-local numeric type ids and
// the stable URI-like strings announced incrementally to the peer
// (spec.md §3, §4.2).
//
// A Map is not safe for concurrent use, matching the codec's
// single-threaded-per-connection concurrency model (spec.md §5): it is
// owned by exactly one connection's thread of execution, the same way
// the teacher's cache.Cache is owned by a single collection cycle.
package typemap

import "errors"

// ErrGap is returned by OnUpdateTypes when the announced first_id does
// not match the current wire-side high-water mark: spec.md's TypeMapGap,
// fatal for the connection.
var ErrGap = errors.New("typemap: update_types first_id does not match high-water mark")

// Registry is the process-wide, append-only local type registry that a
// Map consults to translate ids to URIs and back. It is provided by
// whatever component owns the process's type numbering; typemap never
// mutates it.
type Registry interface {
	// Size returns the number of registered types.
	Size() int
	// URI returns the URI registered at local id id.
	URI(id int32) (string, bool)
	// Intern returns the local id for uri, registering it if necessary.
	Intern(uri string) int32
}

// Update describes a pending update_types message: the peer must be told
// about the URIs for local ids [FirstID, FirstID+len(URIs)).
type Update struct {
	FirstID int32
	URIs    []string
}

// Map holds one connection's bidirectional type-id translation tables.
type Map struct {
	// localToWire translates this process's local ids into the ids this
	// connection has agreed on with the peer (only ever grows).
	localToWire map[int32]int32
	// wireToLocal translates ids the peer uses into this process's local
	// ids, populated from update_types announcements we receive.
	wireToLocal map[int32]int32

	// sent is the high-water mark: the number of local registry entries
	// already announced to the peer.
	sent int32
	// recvNext is the next wire id we expect the peer to announce.
	recvNext int32
}

// New returns an empty Map.
func New() *Map {
	return &Map{
		localToWire: make(map[int32]int32),
		wireToLocal: make(map[int32]int32),
	}
}

// EnsureUpToDate compares registry's size against the high-water mark of
// ids already sent to the peer. If the registry grew, it returns the
// update_types message covering the new range and advances the
// high-water mark; marshalers must send that update, in FIFO order,
// strictly before the message that triggered it (spec.md §4.2, §4.5).
func (m *Map) EnsureUpToDate(registry Registry) *Update {
	size := int32(registry.Size())
	if size <= m.sent {
		return nil
	}
	first := m.sent
	uris := make([]string, 0, size-first)
	for id := first; id < size; id++ {
		uri, ok := registry.URI(id)
		if !ok {
			// The registry promised size entries; a missing one is a
			// caller bug, not a wire error. Stop at what we actually have.
			break
		}
		uris = append(uris, uri)
		m.localToWire[id] = id
	}
	m.sent = first + int32(len(uris))
	if len(uris) == 0 {
		return nil
	}
	return &Update{FirstID: first, URIs: uris}
}

// OnUpdateTypes installs the peer's announcement of [firstID,
// firstID+len(uris)) into the wire-to-local map, interning each URI in
// registry. It fails with ErrGap unless firstID is exactly the next id
// this side expects, enforcing the no-gaps, no-overlaps invariant
// (spec.md §3, §8 item 4).
func (m *Map) OnUpdateTypes(registry Registry, firstID int32, uris []string) error {
	if firstID != m.recvNext {
		return ErrGap
	}
	for i, uri := range uris {
		wireID := firstID + int32(i)
		localID := registry.Intern(uri)
		m.wireToLocal[wireID] = localID
	}
	m.recvNext = firstID + int32(len(uris))
	return nil
}

// LocalOf translates a wire id (as received from the peer) to this
// process's local id.
func (m *Map) LocalOf(wireID int32) (int32, bool) {
	id, ok := m.wireToLocal[wireID]
	return id, ok
}

// WireOf translates a local id to the id this side has agreed to use on
// the wire. It is only meaningful for ids already covered by a
// successful EnsureUpToDate call.
func (m *Map) WireOf(localID int32) (int32, bool) {
	id, ok := m.localToWire[localID]
	return id, ok
}

// RecvHighWater returns the next wire id this side expects the peer to
// announce, i.e. the end of the accepted prefix (spec.md §8 item 4).
func (m *Map) RecvHighWater() int32 {
	return m.recvNext
}

// SentHighWater returns the number of local registry entries already
// announced to the peer (spec.md §8 item 3).
func (m *Map) SentHighWater() int32 {
	return m.sent
}
