//go:build force16bit

package i2cbus

// force16Bit's package init overrides forced16Bit for builds tagged
// force16bit, the equivalent of compiling the original with
// -DUSE_16BIT_ADDR: every probed device is treated as 16-bit addressed
// without running the register-0 read sequence.
func init() {
	forced16Bit = true
}
