// Package connection implements the per-connection state that ties the
// type-id map, the object table, and the interface demarshalers
// together into the push-based dispatch loop a Framer drives (spec.md
// §4.7 in the expanded design).
package connection

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/phomes/pipewire/metrics"
	"github.com/phomes/pipewire/pod"
	"github.com/phomes/pipewire/proto"
	"github.com/phomes/pipewire/typemap"
	"github.com/phomes/pipewire/wire"
)

// Connection owns one Framer, one type-id map, and the table of objects
// bound on this connection. It implements wire.Dispatcher, so a Framer's
// Run loop calls Connection.Dispatch directly for every inbound
// message.
//
// A Connection has a single thread of execution: Dispatch must only
// ever be called from the goroutine running the owning Framer's Run
// loop, matching this codec's concurrency model (spec.md §5) and the
// teacher's collector.Run, which likewise serializes all state mutation
// into one loop rather than guarding it with a mutex per call.
// objects is still guarded by a mutex, in the same defensive style as
// eventsocket.Server's clients map, since AddObject/RemoveObject may be
// called from connection-external code setting up new objects (e.g. in
// response to a create_node reply) ahead of the next Dispatch call.
type Connection struct {
	Name string // used only as the "connection" metrics label

	Framer wire.Framer
	Types  *typemap.Map

	registry typemap.Registry

	// syncSeq hands out the sequence numbers callers pass to
	// core.sync, so a caller doesn't have to track its own counter to
	// correlate a sync call with the matching core.done event.
	syncSeq int32

	mu          sync.Mutex
	objects     map[uint32]*Object
	clientProps [][2]string
}

// New constructs a Connection over framer, with an empty type map and
// object table.
func New(name string, framer wire.Framer) *Connection {
	return &Connection{
		Name:    name,
		Framer:  framer,
		Types:   typemap.New(),
		objects: make(map[uint32]*Object),
	}
}

// AddObject installs obj into the connection's object table.
func (c *Connection) AddObject(obj *Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[obj.ID] = obj
	metrics.LiveObjectCount.WithLabelValues(c.Name).Set(float64(c.countLiveLocked()))
}

// Object looks up an object by id.
func (c *Connection) Object(id uint32) (*Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj, ok := c.objects[id]
	return obj, ok
}

// RemoveObject transitions id to Destroyed. Per spec.md §4.6, the
// transition is local: subsequent inbound messages targeting id are
// dropped rather than erroring.
func (c *Connection) RemoveObject(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if obj, ok := c.objects[id]; ok {
		obj.Destroy()
	}
	metrics.LiveObjectCount.WithLabelValues(c.Name).Set(float64(c.countLiveLocked()))
}

func (c *Connection) countLiveLocked() int {
	n := 0
	for _, obj := range c.objects {
		if obj.State != Destroyed {
			n++
		}
	}
	return n
}

// SetRegistry installs the process-wide local type registry this
// connection's type map consults. It must be called before Dispatch.
func (c *Connection) SetRegistry(reg typemap.Registry) {
	c.registry = reg
}

// NextSyncSeq returns the next sequence number to pass to core.sync.
// Sequence numbers start at 1 and increase monotonically for the life
// of the connection.
func (c *Connection) NextSyncSeq() int32 {
	return atomic.AddInt32(&c.syncSeq, 1)
}

// SetClientProps records the property dictionary last sent via
// core.client_update, for diagnostics. It does not itself send
// anything; callers invoke it alongside proto.MarshalCoreClientUpdate.
func (c *Connection) SetClientProps(props [][2]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientProps = append([][2]string(nil), props...)
}

// ClientProps returns the property dictionary last recorded by
// SetClientProps.
func (c *Connection) ClientProps() [][2]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][2]string(nil), c.clientProps...)
}

// Dispatch is the push target a Framer calls for every inbound message.
// It looks the target object up, drops messages aimed at a destroyed or
// unknown object (counting the latter), special-cases Core's
// update_types opcode (installing the mapping directly rather than
// routing it through the bound object, since update_types has no
// interface-specific handler), remaps embedded type ids in every other
// payload, and finally invokes the object's bound Dispatch closure.
func (c *Connection) Dispatch(msg wire.Message) error {
	obj, ok := c.Object(msg.ObjectID)
	if !ok {
		metrics.DecodeErrorCount.WithLabelValues(metrics.KindUnknownObject).Inc()
		return ErrUnknownObject
	}
	if obj.State == Destroyed {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.DispatchLatencyHistogram.WithLabelValues(obj.Interface.URI).Observe(time.Since(start).Seconds())
	}()

	if obj.Interface == proto.CoreInterface && isUpdateTypesOpcode(msg.Opcode) {
		return c.handleUpdateTypes(msg.Payload)
	}

	payload := append([]byte(nil), msg.Payload...)
	if err := pod.RemapEmbeddedIDs(payload, c.Types.LocalOf); err != nil {
		metrics.DecodeErrorCount.WithLabelValues(metrics.KindPodDecode).Inc()
		return err
	}
	return obj.dispatch(msg.Opcode, payload)
}

func isUpdateTypesOpcode(opcode uint8) bool {
	return opcode == proto.CoreUpdateTypesEventOpcode // 0 on both directions
}

func (c *Connection) handleUpdateTypes(payload []byte) error {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		metrics.DecodeErrorCount.WithLabelValues(metrics.KindPodDecode).Inc()
		return err
	}
	firstID, names, err := it.ReadTypeList()
	if err != nil {
		metrics.DecodeErrorCount.WithLabelValues(metrics.KindPodDecode).Inc()
		return err
	}
	if c.registry == nil {
		return nil
	}
	if err := c.Types.OnUpdateTypes(c.registry, firstID, names); err != nil {
		metrics.DecodeErrorCount.WithLabelValues(metrics.KindTypeMapGap).Inc()
		return err
	}
	metrics.TypeMapHighWater.WithLabelValues(c.Name).Set(float64(c.Types.RecvHighWater()))
	return nil
}
