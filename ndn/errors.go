package ndn

import "fmt"

// Error kinds from spec.md §7. Each is a distinct Go type so callers can
// distinguish them with errors.As, while still reading naturally as a
// plain error string (matching the teacher's fmt.Errorf-based style
// elsewhere in std/security).

// CodecError reports malformed TLV, a missing required field, or the
// wrong outer type tag.
type CodecError string

func (e CodecError) Error() string { return "codec-error: " + string(e) }

// ErrCodec builds a CodecError with a formatted message.
func ErrCodec(format string, args ...any) error {
	return CodecError(fmt.Sprintf(format, args...))
}

// NamingError reports a name that does not match the expected certificate
// or bundle shape.
type NamingError string

func (e NamingError) Error() string { return "naming-error: " + string(e) }

// ErrNaming builds a NamingError with a formatted message.
func ErrNaming(format string, args ...any) error {
	return NamingError(fmt.Sprintf(format, args...))
}

// StateInvalidError reports an operation invoked on a default-constructed
// or already-finalized handle.
type StateInvalidError string

func (e StateInvalidError) Error() string { return "state-invalid: " + string(e) }

// ErrStateInvalid builds a StateInvalidError with a formatted message.
func ErrStateInvalid(format string, args ...any) error {
	return StateInvalidError(fmt.Sprintf(format, args...))
}
