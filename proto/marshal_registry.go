package proto

import "github.com/phomes/pipewire/pod"

// MarshalRegistryBind builds and sends a registry.bind(id, version,
// new_id) method call.
func MarshalRegistryBind(s *Sender, objectID uint32, id, version, newID int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(id)
	b.WriteInt32(version)
	b.WriteInt32(newID)
	b.CloseStruct(f)
	return s.Send(objectID, RegistryBindOpcode, b)
}

// MarshalRegistryGlobal builds and sends a registry.global(id, type,
// version) event.
func MarshalRegistryGlobal(s *Sender, objectID uint32, id int32, typeURI string, version int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(id)
	b.WriteString(typeURI)
	b.WriteInt32(version)
	b.CloseStruct(f)
	return s.Send(objectID, RegistryGlobalOpcode, b)
}

// MarshalRegistryGlobalRemove builds and sends a
// registry.global_remove(id) event.
func MarshalRegistryGlobalRemove(s *Sender, objectID uint32, id int32) error {
	b := pod.NewBuilder()
	f := b.OpenStruct()
	b.WriteInt32(id)
	b.CloseStruct(f)
	return s.Send(objectID, RegistryGlobalRemoveOpcode, b)
}
