// poddump is a diagnostic tool: it reads a file of captured native
// protocol frames and writes one CSV row per message, summarizing its
// target object, opcode, and top-level record tags, without requiring a
// live connection.
package main

import (
	"encoding/binary"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/m-lab/go/rtx"

	"github.com/phomes/pipewire/pod"
)

func init() {
	// Always prepend the filename and line number.
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// row is one CSV record describing a single captured message.
type row struct {
	ObjectID   uint32 `csv:"object_id"`
	Opcode     uint8  `csv:"opcode"`
	PayloadLen int    `csv:"payload_len"`
	TopTags    string `csv:"top_level_tags"`
}

// frame is one (object id, opcode, payload) tuple read off the capture
// file, mirroring wire.Message but decoupled from a live Framer.
type frame struct {
	ObjectID uint32
	Opcode   uint8
	Payload  []byte
}

// readFrames reads every captured frame from rdr. Each frame is a
// 12-byte header (object_id, opcode, size, all little-endian u32)
// followed by size payload bytes, the same shape wire.ConnFramer writes
// to the network; this function reads it from a plain file instead of a
// net.Conn, in the style of the teacher's loader.LoadNetlinkMessage
// (fixed binary header via encoding/binary, then a length-derived
// payload read).
func readFrames(rdr io.Reader) ([]frame, error) {
	frames := make([]frame, 0, 64)
	for {
		var hdr [12]byte
		_, err := io.ReadFull(rdr, hdr[:])
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		objectID := binary.LittleEndian.Uint32(hdr[0:4])
		opcode := binary.LittleEndian.Uint32(hdr[4:8])
		size := binary.LittleEndian.Uint32(hdr[8:12])

		payload := make([]byte, size)
		if _, err := io.ReadFull(rdr, payload); err != nil {
			return frames, err
		}
		frames = append(frames, frame{ObjectID: objectID, Opcode: uint8(opcode), Payload: payload})
	}
}

// summarizeTopTags lists the tag of every top-level record inside the
// message's Struct payload, for quick eyeballing of a capture's shape.
func summarizeTopTags(payload []byte) string {
	r := pod.NewReader(payload)
	it, err := r.OpenStruct()
	if err != nil {
		return "decode-error: " + err.Error()
	}
	var tags []string
	for !it.Done() {
		tag, ok := it.PeekTag()
		if !ok {
			break
		}
		tags = append(tags, tag.String())
		if err := it.SkipRecord(); err != nil {
			tags = append(tags, "decode-error: "+err.Error())
			break
		}
	}
	return strings.Join(tags, ",")
}

func toRows(frames []frame) []*row {
	rows := make([]*row, 0, len(frames))
	for _, f := range frames {
		rows = append(rows, &row{
			ObjectID:   f.ObjectID,
			Opcode:     f.Opcode,
			PayloadLen: len(f.Payload),
			TopTags:    summarizeTopTags(f.Payload),
		})
	}
	return rows
}

func openFile(fn string) (io.ReadCloser, error) {
	if fn == "" || fn == "-" {
		return os.Stdin, nil
	}
	return os.Open(fn)
}

func main() {
	args := os.Args[1:]
	var fn string
	if len(args) == 1 {
		fn = args[0]
	} else if len(args) > 1 {
		log.Fatal("Too many command-line arguments.")
	}

	source, err := openFile(fn)
	rtx.Must(err, "Could not open file %q", fn)
	defer source.Close()

	frames, err := readFrames(source)
	rtx.Must(err, "Could not read captured frames")
	rtx.Must(gocsv.Marshal(toRows(frames), os.Stdout), "Could not write CSV")
}
