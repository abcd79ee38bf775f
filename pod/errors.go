package pod

import (
	"errors"
	"fmt"
)

// ErrDecode is the sentinel all decode failures wrap: truncated buffers,
// tag mismatches, padding violations, or counts exceeding the remaining
// bytes. Callers should tear down the connection on ErrDecode, per the
// error handling design: local decode errors are not recoverable at the
// codec level.
var ErrDecode = errors.New("pod: decode error")

// decodeErrorf builds an error that wraps ErrDecode with context, so
// callers can use errors.Is(err, pod.ErrDecode) regardless of the message.
func decodeErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDecode)
}
