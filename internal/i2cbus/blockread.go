package i2cbus

// ReadAt reads length bytes (1..32) starting at the given 16-bit offset
// from a bus already selected to the target address, using the block-read
// split appropriate to the device's addressing width (spec §4.4).
//
// 8-bit devices see the low byte of offset as the SMBus command byte in a
// single block read. 16-bit devices need their internal pointer
// established first: the low byte of offset is written to register 0,
// then the block read is issued tagged with the high byte as the
// sub-register.
func ReadAt(bus Bus, width AddressingWidth, offset uint16, length int) ([]byte, error) {
	lo := byte(offset & 0xFF)
	hi := byte(offset >> 8)

	if width == Width8Bit {
		return bus.ReadBlock(lo, length)
	}

	if err := bus.WriteByte(0, lo); err != nil {
		return nil, err
	}
	return bus.ReadBlock(hi, length)
}
