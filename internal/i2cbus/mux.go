package i2cbus

import (
	"fmt"
	"os"
)

// IsMuxChild reports whether the given bus is exposed as a child of an
// I2C multiplexer, identified by the presence of a mux_device symlink on
// its sysfs node. sysfsRoot is normally "/sys/bus/i2c/devices".
func IsMuxChild(sysfsRoot string, bus BusIndex) bool {
	path := fmt.Sprintf("%s/i2c-%d/mux_device", sysfsRoot, bus)
	_, err := os.Lstat(path)
	return err == nil
}
