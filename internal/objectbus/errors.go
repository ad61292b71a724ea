package objectbus

import "errors"

// ErrInvalidArgument and ErrInternal are the two RPC error classes spec'd
// for the external interface: a caller-fixable request problem versus a
// daemon-side failure. Handlers return one of these two (wrapped with
// context via fmt.Errorf) rather than a raw fru/i2cbus sentinel, so the
// wire error string a client sees always begins with "invalid-argument"
// or "internal-error".
var (
	ErrInvalidArgument = errors.New("invalid-argument")
	ErrInternal        = errors.New("internal-error")
)
