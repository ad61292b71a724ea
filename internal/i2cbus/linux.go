package i2cbus

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux i2c-dev ioctl numbers and SMBus wire constants, from
// <linux/i2c-dev.h> and <linux/i2c.h>. golang.org/x/sys/unix does not
// expose these (they live in the i2c-tools/kernel header space, not the
// generic syscall table), so they are reproduced here.
const (
	ioctlI2CSlaveForce = 0x0706
	ioctlI2CFuncs      = 0x0705
	ioctlI2CSMBus      = 0x0720

	i2cFuncSMBusReadByte    = 0x00020000
	i2cFuncSMBusReadI2CBlock = 0x04000000

	smbusRead  = 1
	smbusWrite = 0

	smbusByte        = 1
	smbusByteData    = 2
	smbusI2CBlockData = 8

	i2cSMBusBlockMax = 32
)

// smbusIoctlData mirrors struct i2c_smbus_ioctl_data.
type smbusIoctlData struct {
	readWrite byte
	command   byte
	size      uint32
	data      uintptr
}

// LinuxBus is a Bus backed by an open /dev/i2c-N device node.
type LinuxBus struct {
	f     *os.File
	funcs uint64
}

// OpenLinuxBus opens the device node at path and reads its capability mask.
func OpenLinuxBus(path string) (*LinuxBus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	var funcs uint64
	if err := ioctl(f.Fd(), ioctlI2CFuncs, uintptr(unsafe.Pointer(&funcs))); err != nil {
		f.Close()
		return nil, fmt.Errorf("querying adapter functions on %s: %w", path, err)
	}

	return &LinuxBus{f: f, funcs: funcs}, nil
}

// SupportsRequiredFunctions checks both capability bits against the
// adapter's actual function mask.
func (b *LinuxBus) SupportsRequiredFunctions() bool {
	const required = i2cFuncSMBusReadByte | i2cFuncSMBusReadI2CBlock
	return b.funcs&required == required
}

// SetSlaveAddress forces the target address, bypassing any bound kernel
// driver, matching what a discovery daemon must do to read a foreign
// device's EEPROM.
func (b *LinuxBus) SetSlaveAddress(addr Address) error {
	return ioctl(b.f.Fd(), ioctlI2CSlaveForce, uintptr(addr))
}

// ReadByte issues an SMBus byte-data read.
func (b *LinuxBus) ReadByte(register byte) (byte, error) {
	var value byte
	req := smbusIoctlData{
		readWrite: smbusRead,
		command:   register,
		size:      smbusByteData,
		data:      uintptr(unsafe.Pointer(&value)),
	}
	if err := ioctl(b.f.Fd(), ioctlI2CSMBus, uintptr(unsafe.Pointer(&req))); err != nil {
		return 0, err
	}
	return value, nil
}

// ReadBlock issues an I2C block-data read of length bytes (1..32) starting
// at register.
func (b *LinuxBus) ReadBlock(register byte, length int) ([]byte, error) {
	if length < 1 || length > i2cSMBusBlockMax {
		return nil, fmt.Errorf("i2cbus: block read length %d out of range", length)
	}

	// block[0] holds the requested length on entry and the actual
	// transferred length on return; block[1:] holds the data.
	block := make([]byte, i2cSMBusBlockMax+1)
	block[0] = byte(length)

	req := smbusIoctlData{
		readWrite: smbusRead,
		command:   register,
		size:      smbusI2CBlockData,
		data:      uintptr(unsafe.Pointer(&block[0])),
	}
	if err := ioctl(b.f.Fd(), ioctlI2CSMBus, uintptr(unsafe.Pointer(&req))); err != nil {
		return nil, err
	}

	n := int(block[0])
	if n > length {
		n = length
	}
	out := make([]byte, n)
	copy(out, block[1:1+n])
	return out, nil
}

// WriteByte issues an SMBus byte-data write.
func (b *LinuxBus) WriteByte(register byte, value byte) error {
	req := smbusIoctlData{
		readWrite: smbusWrite,
		command:   register,
		size:      smbusByteData,
		data:      uintptr(unsafe.Pointer(&value)),
	}
	return ioctl(b.f.Fd(), ioctlI2CSMBus, uintptr(unsafe.Pointer(&req)))
}

// Close releases the device node.
func (b *LinuxBus) Close() error {
	return b.f.Close()
}

func ioctl(fd uintptr, request uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, request, arg)
	if errno != 0 {
		return errno
	}
	return nil
}
