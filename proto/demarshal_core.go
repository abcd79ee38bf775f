package proto

import "github.com/phomes/pipewire/pod"

func demarshalCoreUpdateTypesPayload(payload []byte) (firstID int32, names []string, err error) {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return 0, nil, err
	}
	return it.ReadTypeList()
}

func demarshalCoreMethodUpdateTypes(payload []byte, h CoreMethods) error {
	firstID, names, err := demarshalCoreUpdateTypesPayload(payload)
	if err != nil {
		return err
	}
	return h.UpdateTypes(firstID, names)
}

func demarshalCoreMethodSync(payload []byte, h CoreMethods) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	seq, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.Sync(seq)
}

func demarshalCoreMethodGetRegistry(payload []byte, h CoreMethods) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	newID, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.GetRegistry(newID)
}

func demarshalCoreMethodClientUpdate(payload []byte, h CoreMethods) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	props, err := it.ReadPropDict()
	if err != nil {
		return err
	}
	return h.ClientUpdate(props)
}

func demarshalCoreMethodCreateNode(payload []byte, h CoreMethods) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	factory, err := it.ReadString()
	if err != nil {
		return err
	}
	name, err := it.ReadString()
	if err != nil {
		return err
	}
	props, err := it.ReadPropDict()
	if err != nil {
		return err
	}
	newID, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.CreateNode(factory, name, props, newID)
}

// demarshalCoreMethodCreateLink follows field order out_node, out_port,
// in_node, in_port, filter?, props, new_id
// (original_source/protocol-native.c core_method_demarshal_create_link),
// which spec.md §8 scenario 4 confirms with its no-filter example.
func demarshalCoreMethodCreateLink(payload []byte, h CoreMethods) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	outNode, err := it.ReadInt32()
	if err != nil {
		return err
	}
	outPort, err := it.ReadInt32()
	if err != nil {
		return err
	}
	inNode, err := it.ReadInt32()
	if err != nil {
		return err
	}
	inPort, err := it.ReadInt32()
	if err != nil {
		return err
	}
	filterTypeID, filter, hasFilter, err := it.ReadOptionalObject()
	if err != nil {
		return err
	}
	props, err := it.ReadPropDict()
	if err != nil {
		return err
	}
	newID, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.CreateLink(outNode, outPort, inNode, inPort, filterTypeID, filter, hasFilter, props, newID)
}

func demarshalCoreEventUpdateTypes(payload []byte, h CoreEvents) error {
	firstID, names, err := demarshalCoreUpdateTypesPayload(payload)
	if err != nil {
		return err
	}
	return h.UpdateTypes(firstID, names)
}

func demarshalCoreEventDone(payload []byte, h CoreEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	seq, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.Done(seq)
}

func demarshalCoreEventError(payload []byte, h CoreEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	id, err := it.ReadInt32()
	if err != nil {
		return err
	}
	res, err := it.ReadInt32()
	if err != nil {
		return err
	}
	message, err := it.ReadString()
	if err != nil {
		return err
	}
	return h.Error(id, res, message)
}

func demarshalCoreEventRemoveID(payload []byte, h CoreEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	id, err := it.ReadInt32()
	if err != nil {
		return err
	}
	return h.RemoveID(id)
}

func demarshalCoreEventInfo(payload []byte, h CoreEvents) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return err
	}
	var info CoreInfo
	var err2 error
	if info.ID, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.ChangeMask, err2 = it.ReadInt64(); err2 != nil {
		return err2
	}
	if info.User, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.Host, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.Version, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.Name, err2 = it.ReadString(); err2 != nil {
		return err2
	}
	if info.Cookie, err2 = it.ReadInt32(); err2 != nil {
		return err2
	}
	if info.Props, err2 = it.ReadPropDict(); err2 != nil {
		return err2
	}
	return h.Info(info)
}

// coreMethodDemarshalers is the opcode-indexed dispatch table for
// Core's method direction (spec.md §9 "Function-pointer dispatch
// tables").
var coreMethodDemarshalers = [...]func([]byte, CoreMethods) error{
	demarshalCoreMethodUpdateTypes,
	demarshalCoreMethodSync,
	demarshalCoreMethodGetRegistry,
	demarshalCoreMethodClientUpdate,
	demarshalCoreMethodCreateNode,
	demarshalCoreMethodCreateLink,
}

// coreEventDemarshalers is the opcode-indexed dispatch table for Core's
// event direction.
var coreEventDemarshalers = [...]func([]byte, CoreEvents) error{
	demarshalCoreEventUpdateTypes,
	demarshalCoreEventDone,
	demarshalCoreEventError,
	demarshalCoreEventRemoveID,
	demarshalCoreEventInfo,
}

// DispatchCoreMethod invokes the method demarshaler for opcode, which
// must already have had its embedded type ids remapped to local ids.
func DispatchCoreMethod(opcode uint8, payload []byte, h CoreMethods) error {
	if int(opcode) >= len(coreMethodDemarshalers) {
		return ErrUnknownOpcode
	}
	return coreMethodDemarshalers[opcode](payload, h)
}

// DispatchCoreEvent invokes the event demarshaler for opcode.
func DispatchCoreEvent(opcode uint8, payload []byte, h CoreEvents) error {
	if int(opcode) >= len(coreEventDemarshalers) {
		return ErrUnknownOpcode
	}
	return coreEventDemarshalers[opcode](payload, h)
}
