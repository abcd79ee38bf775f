package proto

import "github.com/phomes/pipewire/pod"

// Node event opcodes. Node has no methods (spec.md §6).
const (
	NodeInfoOpcode uint8 = 0
)

// Format is one entry of a node.info format list: an opaque Object
// record carrying a local type id to be translated to the wire id at
// marshal time, or already translated to a local id after demarshal.
type Format struct {
	TypeID int32
	Body   []byte
}

// NodeInfo carries the fields of a node.info event, in the exact field
// order original_source/protocol-native.c's node_marshal_info /
// node_demarshal_info uses: the input format list is interleaved
// between the input port counts and the output port counts, and
// likewise on the output side (spec.md §6, SPEC_FULL §6 supplement).
type NodeInfo struct {
	ID         int32
	ChangeMask int64
	Name       string
	MaxInputs  int32
	NumInputs  int32
	InFormats  []Format
	MaxOutputs int32
	NumOutputs int32
	OutFormats []Format
	State      int32
	Error      string
	Props      [][2]string
}

// NodeEvents is implemented by the client's Node proxy.
type NodeEvents interface {
	Info(info NodeInfo) error
}

func writeFormats(s *Sender, b *pod.Builder, formats []Format) {
	for _, f := range formats {
		wireID, ok := s.Types.WireOf(f.TypeID)
		if !ok {
			wireID = f.TypeID
		}
		b.WriteObject(wireID, f.Body)
	}
}

// MarshalNodeInfo builds and sends a node.info event.
func MarshalNodeInfo(s *Sender, objectID uint32, info NodeInfo) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(info.ID)
	b.WriteInt64(info.ChangeMask)
	b.WriteString(info.Name)
	b.WriteInt32(info.MaxInputs)
	b.WriteInt32(info.NumInputs)
	b.WriteInt32(int32(len(info.InFormats)))
	writeFormats(s, b, info.InFormats)
	b.WriteInt32(info.MaxOutputs)
	b.WriteInt32(info.NumOutputs)
	b.WriteInt32(int32(len(info.OutFormats)))
	writeFormats(s, b, info.OutFormats)
	b.WriteInt32(info.State)
	b.WriteString(info.Error)
	b.WritePropDict(info.Props)
	b.CloseStruct(f)
	return s.Send(objectID, NodeInfoOpcode, b)
}

func readFormats(it *pod.StructIter, n int32) ([]Format, error) {
	if n < 0 {
		return nil, decodeErrorfNegativeCount("format", n)
	}
	formats := make([]Format, 0, n)
	for i := int32(0); i < n; i++ {
		typeID, body, err := it.ReadObject()
		if err != nil {
			return nil, err
		}
		formats = append(formats, Format{TypeID: typeID, Body: append([]byte(nil), body...)})
	}
	return formats, nil
}

func demarshalNodeEventInfo(payload []byte, h NodeEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	var info NodeInfo
	var err2 error
	if info.ID, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.ChangeMask, err2 = it.ReadInt64(); err2 != nil {
		return err2
	}
	if info.Name, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.MaxInputs, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.NumInputs, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	nInFmt, err2 := it.ReadInt32()
	if err2 != nil {
		return err2
	}
	if info.InFormats, err2 = readFormats(it, nInFmt); err2 != nil {
		return err2
	}
	if info.MaxOutputs, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.NumOutputs, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	nOutFmt, err2 := it.ReadInt32()
	if err2 != nil {
		return err2
	}
	if info.OutFormats, err2 = readFormats(it, nOutFmt); err2 != nil {
		return err2
	}
	if info.State, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.Error, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.Props, err2 = it.ReadPropDict(); err2 != nil {
		return err2
	}
	return h.Info(info)
}

var nodeEventDemarshalers = [...]func([]byte, NodeEvents) error{
	demarshalNodeEventInfo,
}

// DispatchNodeEvent invokes the event demarshaler for opcode.
func DispatchNodeEvent(opcode uint8, payload []byte, h NodeEvents) error {
	if int(opcode) >= len(nodeEventDemarshalers) {
		return ErrUnknownOpcode
	}
	return nodeEventDemarshalers[opcode](payload, h)
}
