package proto

// Core method opcodes (client-to-core requests), spec.md §6.
const (
	coreUpdateTypesOpcode  uint8 = 0
	CoreSyncOpcode         uint8 = 1
	CoreGetRegistryOpcode  uint8 = 2
	CoreClientUpdateOpcode uint8 = 3
	CoreCreateNodeOpcode   uint8 = 4
	CoreCreateLinkOpcode   uint8 = 5
)

// Core event opcodes (core-to-client notifications), spec.md §6.
const (
	CoreUpdateTypesEventOpcode uint8 = 0
	CoreDoneOpcode             uint8 = 1
	CoreErrorOpcode            uint8 = 2
	CoreRemoveIDOpcode         uint8 = 3
	CoreInfoOpcode             uint8 = 4
)

// CoreInfo carries the fields of a core.info event (spec.md §6).
type CoreInfo struct {
	ID         int32
	ChangeMask int64
	User       string
	Host       string
	Version    string
	Name       string
	Cookie     int32
	Props      [][2]string
}

// CoreMethods is implemented by whatever handles inbound requests on the
// core side: the server's Core resource.
type CoreMethods interface {
	UpdateTypes(firstID int32, names []string) error
	Sync(seq int32) error
	GetRegistry(newID int32) error
	ClientUpdate(props [][2]string) error
	CreateNode(factory, name string, props [][2]string, newID int32) error
	CreateLink(outNode, outPort, inNode, inPort int32, filterTypeID int32, filter []byte, hasFilter bool, props [][2]string, newID int32) error
}

// CoreEvents is implemented by whatever handles inbound notifications on
// the client side: the client's Core proxy.
type CoreEvents interface {
	UpdateTypes(firstID int32, names []string) error
	Done(seq int32) error
	Error(id int32, res int32, message string) error
	RemoveID(id int32) error
	Info(info CoreInfo) error
}
