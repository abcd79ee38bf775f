package connection

import "github.com/phomes/pipewire/proto"

// State is an Object's position in the created→active→destroyed state
// machine (spec.md §4.6, §5).
type State int

const (
	// Created is the state of an object between its allocation (the
	// new_id argument of a method, or a resource freshly instantiated
	// on bind) and the point it is usable for the interface's normal
	// methods and events.
	Created State = iota
	// Active is the normal operating state.
	Active
	// Destroyed objects no longer accept inbound messages; outbound on
	// a destroyed object is a caller bug (spec.md §4.6).
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown-state"
	}
}

// Dispatch is the per-object demarshal entry point: given an opcode
// already known to target this object, and a payload with embedded type
// ids already remapped to local ids, invoke whatever handler this
// object was bound with. Concrete interfaces (proto.CoreMethods,
// proto.RegistryEvents, ...) are adapted into this shape by whoever
// creates the Object, since Connection itself is interface-agnostic.
type Dispatch func(opcode uint8, payload []byte) error

// Object is one entry in a Connection's object table: a local id, the
// interface it is bound to, whether this side holds the proxy (caller)
// or the resource (callee) end, and its lifecycle state.
type Object struct {
	ID        uint32
	Interface proto.Interface
	IsProxy   bool
	State     State
	dispatch  Dispatch
}

// NewObject constructs an Object in the Created state.
func NewObject(id uint32, iface proto.Interface, isProxy bool, dispatch Dispatch) *Object {
	return &Object{ID: id, Interface: iface, IsProxy: isProxy, State: Created, dispatch: dispatch}
}

// Activate transitions an object from Created to Active, once bind (or
// creation) has fully completed.
func (o *Object) Activate() {
	if o.State == Created {
		o.State = Active
	}
}

// Destroy transitions an object to Destroyed. It is idempotent.
func (o *Object) Destroy() {
	o.State = Destroyed
}
