package fru

import "errors"

// Decode/Encode/Write error taxonomy (spec §7). Callers use errors.Is
// rather than matching on message text.
var (
	// ErrTooShort means the byte slice is no longer than a common header
	// (Decode needs at least one byte past the 8-byte header).
	ErrTooShort = errors.New("fru: too short to contain a common header")
	// ErrHeaderInvalid means the 8-byte common header failed validation.
	ErrHeaderInvalid = errors.New("fru: invalid common header")
	// ErrTruncated means a field or area cursor advanced past the end
	// of the byte slice.
	ErrTruncated = errors.New("fru: area truncated mid-field")
	// ErrTooLarge means the byte slice exceeds the 512-byte FRU cap.
	ErrTooLarge = errors.New("fru: exceeds maximum fru size")
	// ErrUnknownField names a field the target area does not recognize.
	// Encode does not return it: keys outside an area's vocabulary are
	// ignored.
	ErrUnknownField = errors.New("fru: unknown field for area")
)

// MaxFruSize is the largest FRU this decoder/encoder will accept.
const MaxFruSize = 512
