// Package registry implements the process-wide protocol registration
// API: register_protocol() from spec.md §6, installing the six
// interface descriptors into a lookup table keyed by type URI.
package registry

import (
	"sync"

	"github.com/phomes/pipewire/proto"
)

// Entry holds one interface's static descriptor: a connection looks an
// Entry up by type URI when binding a freshly created or freshly
// discovered object. There is one Entry per interface; it carries no
// separate client-side and server-side descriptors.
type Entry struct {
	Interface proto.Interface
}

var (
	once     sync.Once
	byURI    map[string]Entry
	registry []Entry
)

// RegisterProtocol installs, for each of the six interfaces, its
// descriptor into the process-wide registry. It is idempotent: every
// call after the first is a no-op (spec.md §6 "Registration API").
func RegisterProtocol() {
	once.Do(func() {
		registry = []Entry{
			{Interface: proto.CoreInterface},
			{Interface: proto.RegistryInterface},
			{Interface: proto.ModuleInterface},
			{Interface: proto.NodeInterface},
			{Interface: proto.ClientInterface},
			{Interface: proto.LinkInterface},
		}
		byURI = make(map[string]Entry, len(registry))
		for _, e := range registry {
			byURI[e.Interface.URI] = e
		}
	})
}

// Lookup returns the registered Entry for a type URI. RegisterProtocol
// must have been called at least once before Lookup is meaningful.
func Lookup(typeURI string) (Entry, bool) {
	e, ok := byURI[typeURI]
	return e, ok
}

// Interfaces returns every registered interface descriptor, in
// registration order.
func Interfaces() []Entry {
	return append([]Entry(nil), registry...)
}
