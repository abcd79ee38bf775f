package proto

import "github.com/phomes/pipewire/pod"

// MarshalCoreUpdateTypes builds the update_types payload: first_id, n,
// then n names (spec.md §6, Core M0/E0). It is used directly by
// Sender.ensureTypesUpToDate, never routed back through Sender.Send,
// so sending it can never itself trigger another type-map check
// (spec.md §4.5 "must NOT re-trigger ensure_up_to_date").
func MarshalCoreUpdateTypes(firstID int32, names []string) *pod.Builder {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteTypeList(firstID, names)
	b.CloseStruct(f)
	return b
}

// MarshalCoreSync builds and sends a core.sync(seq) method call.
func MarshalCoreSync(s *Sender, objectID uint32, seq int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(seq)
	b.CloseStruct(f)
	return s.Send(objectID, CoreSyncOpcode, b)
}

// MarshalCoreGetRegistry builds and sends a core.get_registry(new_id)
// method call.
func MarshalCoreGetRegistry(s *Sender, objectID uint32, newID int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(newID)
	b.CloseStruct(f)
	return s.Send(objectID, CoreGetRegistryOpcode, b)
}

// MarshalCoreClientUpdate builds and sends a core.client_update(props)
// method call.
func MarshalCoreClientUpdate(s *Sender, objectID uint32, props [][2]string) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WritePropDict(props)
	b.CloseStruct(f)
	return s.Send(objectID, CoreClientUpdateOpcode, b)
}

// MarshalCoreCreateNode builds and sends a
// core.create_node(factory, name, props, new_id) method call.
func MarshalCoreCreateNode(s *Sender, objectID uint32, factory, name string, props [][2]string, newID int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteString(factory)
	b.WriteString(name)
	b.WritePropDict(props)
	b.WriteInt32(newID)
	b.CloseStruct(f)
	return s.Send(objectID, CoreCreateNodeOpcode, b)
}

// MarshalCoreCreateLink builds and sends a core.create_link method
// call. filterLocalTypeID/filter/hasFilter encode the optional `filter`
// argument: when hasFilter is false, no Object record is written at
// all, matching the boundary case in spec.md §8 scenario 4 where the
// record is omitted rather than written empty. Field order (filter
// before props, new_id last) follows
// original_source/protocol-native.c core_method_marshal_create_link.
func MarshalCoreCreateLink(s *Sender, objectID uint32, outNode, outPort, inNode, inPort int32, filterLocalTypeID int32, filter []byte, hasFilter bool, props [][2]string, newID int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(outNode)
	b.WriteInt32(outPort)
	b.WriteInt32(inNode)
	b.WriteInt32(inPort)
	if hasFilter {
		wireID, ok := s.Types.WireOf(filterLocalTypeID)
		if !ok {
			wireID = filterLocalTypeID
		}
		b.WriteObject(wireID, filter)
	}
	b.WritePropDict(props)
	b.WriteInt32(newID)
	b.CloseStruct(f)
	return s.Send(objectID, CoreCreateLinkOpcode, b)
}

// MarshalCoreDone builds and sends a core.done(seq) event.
func MarshalCoreDone(s *Sender, objectID uint32, seq int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(seq)
	b.CloseStruct(f)
	return s.Send(objectID, CoreDoneOpcode, b)
}

// MarshalCoreError builds and sends a core.error(id, res, message)
// event. Callers should produce message via FormatError so long
// messages are capped consistently.
func MarshalCoreError(s *Sender, objectID uint32, id int32, res int32, message string) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(id)
	b.WriteInt32(res)
	b.WriteString(message)
	b.CloseStruct(f)
	return s.Send(objectID, CoreErrorOpcode, b)
}

// MarshalCoreRemoveID builds and sends a core.remove_id(id) event.
func MarshalCoreRemoveID(s *Sender, objectID uint32, id int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(id)
	b.CloseStruct(f)
	return s.Send(objectID, CoreRemoveIDOpcode, b)
}

// MarshalCoreInfo builds and sends a core.info event.
func MarshalCoreInfo(s *Sender, objectID uint32, info CoreInfo) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(info.ID)
	b.WriteInt64(info.ChangeMask)
	b.WriteString(info.User)
	b.WriteString(info.Host)
	b.WriteString(info.Version)
	b.WriteString(info.Name)
	b.WriteInt32(info.Cookie)
	b.WritePropDict(info.Props)
	b.CloseStruct(f)
	return s.Send(objectID, CoreInfoOpcode, b)
}
