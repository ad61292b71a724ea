package i2cbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"frud/internal/fru"
)

// blockChunk is the largest single block-read the scanner issues once past
// an area's own 8-byte sub-header.
const blockChunk = 32

// ScanOptions configures one bus scan pass.
type ScanOptions struct {
	First   Address
	Last    Address
	Timeout time.Duration
}

// DefaultScanOptions matches the addresses and timeout spec'd for the
// discovery daemon.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{First: FirstProbeAddress, Last: LastProbeAddress, Timeout: 5 * time.Second}
}

// OpenFunc opens a bus device node for scanning or writing. Production
// code passes a function backed by OpenLinuxBus; tests inject fakes.
type OpenFunc func(path string) (Bus, error)

// scanResult carries scanBusBlocking's outcome across the worker goroutine
// boundary in ScanBus.
type scanResult struct {
	devices DeviceMap
	err     error
}

// ScanBus walks entry's address range, decodes what it finds, and returns
// the resulting DeviceMap. The walk runs on a worker goroutine bounded by
// opts.Timeout: if the worker has not finished by the deadline, entry's
// index is blacklisted and no partial DeviceMap is returned. The worker
// itself is not forcibly killed, since an in-flight ioctl cannot be
// interrupted; it is left to finish and its result discarded.
func ScanBus(entry BusEntry, bl *Blacklist, opts ScanOptions, open OpenFunc, log zerolog.Logger) DeviceMap {
	result := make(chan scanResult, 1)

	go func() {
		devices, err := scanBusBlocking(entry, opts, open)
		result <- scanResult{devices: devices, err: err}
	}()

	select {
	case r := <-result:
		if r.err != nil {
			if errors.Is(r.err, ErrAdapterUnsupported) {
				log.Warn().Int("bus", int(entry.Index)).Err(r.err).Msg("adapter missing required SMBus/I2C-block functions")
			} else {
				log.Warn().Int("bus", int(entry.Index)).Err(r.err).Msg("failed to open bus")
			}
			return nil
		}
		return r.devices
	case <-time.After(opts.Timeout):
		log.Warn().Int("bus", int(entry.Index)).Dur("timeout", opts.Timeout).Msg("bus scan timed out, blacklisting")
		bl.Add(entry.Index)
		return nil
	}
}

// scanBusBlocking opens entry's device node and walks its address range.
// A failure to open the bus, or an adapter that lacks the required SMBus
// functions, is returned as an error (ErrAdapterUnsupported for the
// latter) rather than a partial DeviceMap, so ScanBus's caller can tell
// "nothing here" apart from "couldn't look."
func scanBusBlocking(entry BusEntry, opts ScanOptions, open OpenFunc) (DeviceMap, error) {
	bus, err := open(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("opening bus %s: %w", entry.Path, err)
	}
	defer bus.Close()

	if !bus.SupportsRequiredFunctions() {
		return nil, fmt.Errorf("bus %s: %w", entry.Path, ErrAdapterUnsupported)
	}

	devices := make(DeviceMap)

	for addr := opts.First; addr <= opts.Last; addr++ {
		if err := bus.SetSlaveAddress(addr); err != nil {
			continue
		}
		if _, err := bus.ReadByte(0); err != nil {
			continue
		}

		width, err := ProbeAddressing(bus)
		if err != nil {
			continue
		}

		raw, err := readRawFru(bus, width)
		if err != nil {
			continue
		}

		devices[addr] = raw
	}

	return devices, nil
}

// readRawFru reads and validates the common header at address 0, then
// walks each declared area's offset, placing bytes at the position they
// occupy on the physical device so the resulting slice indexes the same
// way the decoder expects.
func readRawFru(bus Bus, width AddressingWidth) ([]byte, error) {
	header, err := ReadAt(bus, width, 0, fru.HeaderSize)
	if err != nil {
		return nil, err
	}
	if !fru.ValidateHeader(header) {
		return nil, fru.ErrHeaderInvalid
	}

	raw := make([]byte, fru.HeaderSize)
	copy(raw, header)

	for slot := 1; slot <= 5; slot++ {
		offsetByte := header[slot]
		if offsetByte == 0 {
			continue
		}

		areaStart := fru.AreaOffset(offsetByte).Bytes()
		areaHeader, err := ReadAt(bus, width, uint16(areaStart), 8)
		if err != nil {
			return nil, err
		}

		areaLen := int(areaHeader[1]) * 8
		if areaLen < 8 {
			areaLen = 8
		}

		raw = growTo(raw, areaStart+areaLen)
		copy(raw[areaStart:areaStart+8], areaHeader)

		for read := 8; read < areaLen; {
			chunk := blockChunk
			if areaLen-read < chunk {
				chunk = areaLen - read
			}
			data, err := ReadAt(bus, width, uint16(areaStart+read), chunk)
			if err != nil {
				return nil, err
			}
			copy(raw[areaStart+read:areaStart+read+chunk], data)
			read += chunk
		}
	}

	return raw, nil
}

// growTo extends raw with zero bytes so it is at least n bytes long.
func growTo(raw []byte, n int) []byte {
	if len(raw) >= n {
		return raw
	}
	grown := make([]byte, n)
	copy(grown, raw)
	return grown
}
