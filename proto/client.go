package proto

import "github.com/phomes/pipewire/pod"

// Client event opcodes. Client has no methods (spec.md §6).
const (
	ClientInfoOpcode uint8 = 0
)

// ClientInfo carries the fields of a client.info event.
type ClientInfo struct {
	ID         int32
	ChangeMask int64
	Props      [][2]string
}

// ClientEvents is implemented by the client's Client proxy.
type ClientEvents interface {
	Info(info ClientInfo) error
}

// MarshalClientInfo builds and sends a client.info event.
func MarshalClientInfo(s *Sender, objectID uint32, info ClientInfo) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(info.ID)
	b.WriteInt64(info.ChangeMask)
	b.WritePropDict(info.Props)
	b.CloseStruct(f)
	return s.Send(objectID, ClientInfoOpcode, b)
}

func demarshalClientEventInfo(payload []byte, h ClientEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	var info ClientInfo
	var err2 error
	if info.ID, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.ChangeMask, err2 = it.ReadInt64(); err2 != nil {
		return err2
	}
	if info.Props, err2 = it.ReadPropDict(); err2 != nil {
		return err2
	}
	return h.Info(info)
}

var clientEventDemarshalers = [...]func([]byte, ClientEvents) error{
	demarshalClientEventInfo,
}

// DispatchClientEvent invokes the event demarshaler for opcode.
func DispatchClientEvent(opcode uint8, payload []byte, h ClientEvents) error {
	if int(opcode) >= len(clientEventDemarshalers) {
		return ErrUnknownOpcode
	}
	return clientEventDemarshalers[opcode](payload, h)
}
