package i2cbus

import "errors"

// ErrAdapterUnsupported is returned when an opened bus lacks the SMBus
// byte-read and I2C block-read functions the scanner requires.
var ErrAdapterUnsupported = errors.New("i2cbus: adapter missing required SMBus/I2C-block functions")

// Bus is the low-level transport the addressing probe, block reader and
// writer operate on. A single Bus is address-scoped: SetSlaveAddress must
// be called before any read or write is meaningful.
type Bus interface {
	// SetSlaveAddress forces the kernel to target addr on this bus,
	// even if a driver is already bound to it.
	SetSlaveAddress(addr Address) error
	// ReadByte performs an SMBus byte-data read at the given register.
	ReadByte(register byte) (byte, error)
	// ReadBlock performs an I2C/SMBus block read of length bytes,
	// starting at the given register.
	ReadBlock(register byte, length int) ([]byte, error)
	// WriteByte performs an SMBus byte-data write at the given register.
	WriteByte(register byte, value byte) error
	// SupportsRequiredFunctions reports whether the adapter exposes both
	// SMBus byte-read and I2C block-read capability bits.
	SupportsRequiredFunctions() bool
	// Close releases the underlying device node.
	Close() error
}
