package proto

import (
	"errors"
	"fmt"

	"github.com/phomes/pipewire/pod"
)

// ErrUnknownOpcode is returned by an interface's Dispatch function when
// asked for an opcode beyond its table (spec.md §7 "UnknownOpcode").
var ErrUnknownOpcode = errors.New("proto: opcode beyond interface table")

// decodeErrorfNegativeCount reports a negative element count for one of
// the repeated argument shapes (format lists) that aren't plain
// pod.StructIter helpers, wrapping pod.ErrDecode like every other decode
// failure in this codec.
func decodeErrorfNegativeCount(what string, n int32) error {
	return fmt.Errorf("proto: %s count %d is negative: %w", what, n, pod.ErrDecode)
}
