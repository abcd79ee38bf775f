package proto

import "github.com/phomes/pipewire/pod"

// Module event opcodes. Module has no methods (spec.md §6).
const (
	ModuleInfoOpcode uint8 = 0
)

// ModuleInfo carries the fields of a module.info event.
type ModuleInfo struct {
	ID         int32
	ChangeMask int64
	Name       string
	Filename   string
	Args       string
	Props      [][2]string
}

// ModuleEvents is implemented by the client's Module proxy.
type ModuleEvents interface {
	Info(info ModuleInfo) error
}

// MarshalModuleInfo builds and sends a module.info event.
func MarshalModuleInfo(s *Sender, objectID uint32, info ModuleInfo) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(info.ID)
	b.WriteInt64(info.ChangeMask)
	b.WriteString(info.Name)
	b.WriteString(info.Filename)
	b.WriteString(info.Args)
	b.WritePropDict(info.Props)
	b.CloseStruct(f)
	return s.Send(objectID, ModuleInfoOpcode, b)
}

func demarshalModuleEventInfo(payload []byte, h ModuleEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	var info ModuleInfo
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
	if info.Filename, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.Args, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.Props, err2 = it.ReadPropDict(); err2 != nil {
		return err2
	}
	return h.Info(info)
}

var moduleEventDemarshalers = [...]func([]byte, ModuleEvents) error{
	demarshalModuleEventInfo,
}

// DispatchModuleEvent invokes the event demarshaler for opcode.
func DispatchModuleEvent(opcode uint8, payload []byte, h ModuleEvents) error {
	if int(opcode) >= len(moduleEventDemarshalers) {
		return ErrUnknownOpcode
	}
	return moduleEventDemarshalers[opcode](payload, h)
}
