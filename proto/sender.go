package proto

import (
	"github.com/phomes/pipewire/pod"
	"github.com/phomes/pipewire/typemap"
	"github.com/phomes/pipewire/wire"
)

// Sender is the per-connection, per-direction collaborator every
// marshal_*.go function uses to turn a built pod.Builder into a framed
// outbound message. It owns the step every marshaler must perform first
// (spec.md §4.5): check the type-id map is up to date with the peer and,
// if not, send update_types before the triggering message.
type Sender struct {
	Framer   wire.Framer
	Types    *typemap.Map
	Registry typemap.Registry
}

// Send writes b as the payload of a message addressed to
// (objectID, opcode), first flushing a pending update_types announcement
// if the type registry has grown since the last one. opcode 0 on the
// Core interface (update_types itself) must be sent through
// ensureTypesUpToDate directly, never through Send, so it does not
// recursively trigger another EnsureUpToDate check (spec.md §4.5).
func (s *Sender) Send(objectID uint32, opcode uint8, b *pod.Builder) error {
	if err := s.ensureTypesUpToDate(); err != nil {
		return err
	}
	return s.write(objectID, opcode, b)
}

func (s *Sender) ensureTypesUpToDate() error {
	upd := s.Types.EnsureUpToDate(s.Registry)
	if upd == nil {
		return nil
	}
	return s.write(CoreObjectID, coreUpdateTypesOpcode, MarshalCoreUpdateTypes(upd.FirstID, upd.URIs))
}

func (s *Sender) write(objectID uint32, opcode uint8, b *pod.Builder) error {
	buf := s.Framer.BeginWrite(len(b.Bytes()))
	n := copy(buf, b.Bytes())
	return s.Framer.EndWrite(objectID, opcode, n)
}
