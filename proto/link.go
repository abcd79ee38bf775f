package proto

import "github.com/phomes/pipewire/pod"

// Link event opcodes. Link has no methods (spec.md §6).
const (
	LinkInfoOpcode uint8 = 0
)

// LinkInfo carries the fields of a link.info event. Format is optional,
// mirroring create_link's optional filter argument.
type LinkInfo struct {
	ID         int32
	ChangeMask int64
	OutNode    int32
	OutPort    int32
	InNode     int32
	InPort     int32
	Format     Format
	HasFormat  bool
}

// LinkEvents is implemented by the client's Link proxy.
type LinkEvents interface {
	Info(info LinkInfo) error
}

// MarshalLinkInfo builds and sends a link.info event.
func MarshalLinkInfo(s *Sender, objectID uint32, info LinkInfo) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(info.ID)
	b.WriteInt64(info.ChangeMask)
	b.WriteInt32(info.OutNode)
	b.WriteInt32(info.OutPort)
	b.WriteInt32(info.InNode)
	b.WriteInt32(info.InPort)
	if info.HasFormat {
		wireID, ok := s.Types.WireOf(info.Format.TypeID)
		if !ok {
			wireID = info.Format.TypeID
		}
		b.WriteObject(wireID, info.Format.Body)
	}
	b.CloseStruct(f)
	return s.Send(objectID, LinkInfoOpcode, b)
}

func demarshalLinkEventInfo(payload []byte, h LinkEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	var info LinkInfo
	var err2 error
	if info.ID, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.ChangeMask, err2 = it.ReadInt64(); err2 != nil {
		return err2
	}
	if info.OutNode, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.OutPort, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.InNode, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.InPort, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	typeID, body, present, err2 := it.ReadOptionalObject()
	if err2 != nil {
		return err2
	}
	info.HasFormat = present
	if present {
		info.Format = Format{TypeID: typeID, Body: append([]byte(nil), body...)}
	}
	return h.Info(info)
}

var linkEventDemarshalers = [...]func([]byte, LinkEvents) error{
	demarshalLinkEventInfo,
}

// DispatchLinkEvent invokes the event demarshaler for opcode.
func DispatchLinkEvent(opcode uint8, payload []byte, h LinkEvents) error {
	if int(opcode) >= len(linkEventDemarshalers) {
		return ErrUnknownOpcode
	}
	return linkEventDemarshalers[opcode](payload, h)
}
