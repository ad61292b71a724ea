// Package i2cbus implements the I2C bus enumeration, addressing probe,
// block-read scanning and paged EEPROM write path that the FRU discovery
// daemon runs on top of.
package i2cbus

// BusIndex is the numeric suffix of an i2c-N device node.
type BusIndex int

// Address is a 7-bit I2C slave address.
type Address uint8

// DeviceMap is one bus's discovered devices, keyed by slave address.
type DeviceMap map[Address][]byte

// BusMap is the full discovery result, keyed by bus index. Bus index 0 is
// reserved for the baseboard FRU, which may come from a file rather than a
// physical probe.
type BusMap map[BusIndex]DeviceMap

// BusEntry is one enumerated device node.
type BusEntry struct {
	Index BusIndex
	Path  string
}

// AddressingWidth records whether a probed device answers to 8-bit or
// 16-bit internal register addressing.
type AddressingWidth int

const (
	// Width8Bit means the device's internal pointer is a single byte and
	// does not auto-increment across repeated register-0 reads.
	Width8Bit AddressingWidth = iota
	// Width16Bit means the device auto-increments its internal pointer,
	// so repeated register-0 reads return successive EEPROM bytes.
	Width16Bit
)

// FirstProbeAddress and LastProbeAddress bound the default scan range
// (7-bit addresses reserved for reads/writes, excluding the reserved
// blocks at the top and bottom of the address space).
const (
	FirstProbeAddress Address = 0x03
	LastProbeAddress  Address = 0x77
)
