package i2cbus

import (
	"fmt"
	"time"
)

const (
	// writeAttempts is the initial attempt plus two retries per byte.
	writeAttempts  = 3
	writePageBytes = 256
	writeDelay     = 10 * time.Millisecond
)

// WriteRawFru writes data byte-by-byte to a physical EEPROM starting at
// startAddr, crossing page boundaries every 256 bytes by incrementing the
// slave address and resetting the register index. sleep is injected so
// tests don't pay the real per-byte EEPROM write-cycle delay.
func WriteRawFru(bus Bus, startAddr Address, data []byte, sleep func(time.Duration)) error {
	addr := startAddr
	if err := bus.SetSlaveAddress(addr); err != nil {
		return fmt.Errorf("i2cbus: selecting address %#x: %w", addr, err)
	}

	for i, value := range data {
		if i > 0 && i%writePageBytes == 0 {
			addr++
			if err := bus.SetSlaveAddress(addr); err != nil {
				return fmt.Errorf("i2cbus: selecting page address %#x: %w", addr, err)
			}
		}

		register := byte(i % writePageBytes)

		var lastErr error
		written := false
		for attempt := 0; attempt < writeAttempts; attempt++ {
			if err := bus.WriteByte(register, value); err != nil {
				lastErr = err
				continue
			}
			written = true
			break
		}
		if !written {
			return fmt.Errorf("i2cbus: byte %d failed after %d attempts: %w", i, writeAttempts, lastErr)
		}

		sleep(writeDelay)
	}

	return nil
}
