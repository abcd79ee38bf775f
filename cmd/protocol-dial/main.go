// protocol-dial is a minimal reference client: it connects to a media
// graph daemon's native protocol socket, performs a core.sync round
// trip, and prints whatever core events arrive in response.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/rtx"

	"github.com/phomes/pipewire/connection"
	"github.com/phomes/pipewire/proto"
	"github.com/phomes/pipewire/wire"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

var (
	socket = flag.String("socket", "", "Path to the daemon's native protocol unix socket")
	seq    = flag.Int("seq", 0, "Sequence number to pass to core.sync (0 picks the connection's next sequence number)")

	mainCtx, mainCancel = context.WithCancel(context.Background())
)

// coreEvents implements proto.CoreEvents by logging every event and
// signaling done on a matching core.done.
type coreEvents struct {
	wantSeq int32
	done    chan struct{}
}

func (h *coreEvents) UpdateTypes(firstID int32, names []string) error {
	log.Printf("update_types first_id=%d names=%v", firstID, names)
	return nil
}

func (h *coreEvents) Done(seq int32) error {
	log.Printf("done seq=%d", seq)
	if seq == h.wantSeq {
		close(h.done)
	}
	return nil
}

func (h *coreEvents) Error(id int32, res int32, message string) error {
	log.Printf("error id=%d res=%d message=%q", id, res, message)
	return nil
}

func (h *coreEvents) RemoveID(id int32) error {
	log.Printf("remove_id id=%d", id)
	return nil
}

func (h *coreEvents) Info(info proto.CoreInfo) error {
	log.Printf("info %+v", info)
	return nil
}

func main() {
	flag.Parse()
	rtx.Must(flagx.ArgsFromEnv(flag.CommandLine), "Could not get args from environment variables")
	defer mainCancel()

	if *socket == "" {
		panic("-socket is required")
	}

	conn, err := net.Dial("unix", *socket)
	rtx.Must(err, "Could not dial %q", *socket)

	framer := wire.NewConnFramer(conn)
	c := connection.New(*socket, framer)

	wantSeq := int32(*seq)
	if wantSeq == 0 {
		wantSeq = c.NextSyncSeq()
	}
	events := &coreEvents{wantSeq: wantSeq, done: make(chan struct{})}
	obj := connection.NewObject(proto.CoreObjectID, proto.CoreInterface, true, func(opcode uint8, payload []byte) error {
		return proto.DispatchCoreEvent(opcode, payload, events)
	})
	obj.Activate()
	c.AddObject(obj)

	go func() {
		if err := framer.Run(mainCtx, c); err != nil {
			log.Printf("framer run ended: %v", err)
		}
	}()

	sender := &proto.Sender{Framer: framer, Types: c.Types, Registry: newEmptyRegistry()}
	rtx.Must(proto.MarshalCoreSync(sender, proto.CoreObjectID, wantSeq), "Could not send core.sync")

	select {
	case <-events.done:
		fmt.Println("ok")
	case <-time.After(5 * time.Second):
		log.Fatal("timed out waiting for core.done")
	}
}

// emptyRegistry is a typemap.Registry with nothing registered, used
// when this client has no locally-defined types of its own to
// announce: every outbound message in this tool carries only scalar
// arguments, so EnsureUpToDate is always a no-op.
type emptyRegistry struct{}

func newEmptyRegistry() emptyRegistry { return emptyRegistry{} }

func (emptyRegistry) Size() int                { return 0 }
func (emptyRegistry) URI(int32) (string, bool) { return "", false }
func (emptyRegistry) Intern(uri string) int32  { return 0 }
