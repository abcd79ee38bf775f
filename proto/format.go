package proto

import "fmt"

// maxErrorMessage is the fixed cap on a formatted core.error message,
// matching the original implementation's fixed-size vsnprintf buffer
// (original_source/protocol-native.c core_event_marshal_error).
const maxErrorMessage = 128

// FormatError formats a core.error message and truncates it to
// maxErrorMessage bytes, so every call site producing an error event
// gets the same capped formatting (spec.md §9 "Variadic format
// strings").
func FormatError(format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	if len(s) <= maxErrorMessage {
		return s
	}
	return s[:maxErrorMessage]
}
