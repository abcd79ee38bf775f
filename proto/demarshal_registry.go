package proto

import "github.com/phomes/pipewire/pod"

func demarshalRegistryMethodBind(payload []byte, h RegistryMethods) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	id, err := it.ReadInt32()
	if err != nil {
		return err
	}
	version, err := it.ReadInt32()
	if err != nil {
		return err
	}
	newID, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.Bind(id, version, newID)
}

func demarshalRegistryEventGlobal(payload []byte, h RegistryEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	id, err := it.ReadInt32()
	if err != nil {
		return err
	}
	typeURI, err := it.ReadString()
	if err != nil {
		return err
	}
	version, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.Global(id, typeURI, version)
}

func demarshalRegistryEventGlobalRemove(payload []byte, h RegistryEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	id, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.GlobalRemove(id)
}

var registryMethodDemarshalers = [...]func([]byte, RegistryMethods) error{
	demarshalRegistryMethodBind,
}

var registryEventDemarshalers = [...]func([]byte, RegistryEvents) error{
	demarshalRegistryEventGlobal,
	demarshalRegistryEventGlobalRemove,
}

// DispatchRegistryMethod invokes the method demarshaler for opcode.
func DispatchRegistryMethod(opcode uint8, payload []byte, h RegistryMethods) error {
	if int(opcode) >= len(registryMethodDemarshalers) {
		return ErrUnknownOpcode
	}
	return registryMethodDemarshalers[opcode](payload, h)
}

// DispatchRegistryEvent invokes the event demarshaler for opcode.
func DispatchRegistryEvent(opcode uint8, payload []byte, h RegistryEvents) error {
	if int(opcode) >= len(registryEventDemarshalers) {
		return ErrUnknownOpcode
	}
	return registryEventDemarshalers[opcode](payload, h)
}
