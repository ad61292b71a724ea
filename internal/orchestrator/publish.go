package orchestrator

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"github.com/rs/zerolog"

	"frud/internal/fru"
	"frud/internal/i2cbus"
)

// PublishedDevice is one externally visible FRU object.
type PublishedDevice struct {
	Bus     i2cbus.BusIndex
	Address i2cbus.Address
	Path    string
	Raw     []byte
	Fields  fru.DecodedFru
}

// Snapshot is one immutable rescan generation. Readers keep working
// against a Snapshot after a later rescan replaces the Orchestrator's
// current one.
type Snapshot struct {
	Generation int
	Buses      i2cbus.BusMap
	Devices    []PublishedDevice
}

func emptySnapshot() *Snapshot {
	return &Snapshot{Buses: make(i2cbus.BusMap)}
}

// GetRawFru looks up the raw bytes for a bus/address pair, for the
// GetRawFru external method.
func (s *Snapshot) GetRawFru(bus i2cbus.BusIndex, addr i2cbus.Address) ([]byte, bool) {
	devices, ok := s.Buses[bus]
	if !ok {
		return nil, false
	}
	raw, ok := devices[addr]
	return raw, ok
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9_]`)

// buildSnapshot decodes every raw FRU in busMap and assigns each a
// published path derived from its product name, applying the mux-child
// deduplication rule and the smallest-N disambiguation scheme.
func buildSnapshot(busMap i2cbus.BusMap, generation int, sysfsRoot string, log zerolog.Logger) *Snapshot {
	snap := &Snapshot{Generation: generation, Buses: busMap}

	usedPaths := make(map[string]PublishedDevice)

	buses := make([]i2cbus.BusIndex, 0, len(busMap))
	for bus := range busMap {
		buses = append(buses, bus)
	}
	sort.Slice(buses, func(i, j int) bool { return buses[i] < buses[j] })

	for _, bus := range buses {
		devices := busMap[bus]

		addrs := make([]i2cbus.Address, 0, len(devices))
		for addr := range devices {
			addrs = append(addrs, addr)
		}
		sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

		for _, addr := range addrs {
			raw := devices[addr]
			decoded, err := fru.Decode(raw)
			if err != nil {
				log.Warn().Int("bus", int(bus)).Int("address", int(addr)).Err(err).Msg("discarding undecodable fru")
				continue
			}

			base := basePathName(decoded)
			path, suppressed := resolvePath(base, bus, addr, raw, usedPaths, sysfsRoot)
			if suppressed {
				continue
			}

			pd := PublishedDevice{Bus: bus, Address: addr, Path: path, Raw: raw, Fields: decoded}
			usedPaths[path] = pd
			snap.Devices = append(snap.Devices, pd)
		}
	}

	return snap
}

// basePathName derives the un-disambiguated object path segment from a
// decoded FRU's board name, falling back to its product name, then to a
// generic name when neither area was present.
func basePathName(decoded fru.DecodedFru) string {
	name := decoded["BOARD_PRODUCT_NAME"]
	if name == "" {
		name = decoded["PRODUCT_PRODUCT_NAME"]
	}
	if name == "" {
		name = "FRU_Device"
	}
	return nonIdentifier.ReplaceAllString(name, "_")
}

// resolvePath finds the smallest non-negative integer N such that
// "<base>_N" is unused, unless the candidate collision is a mux-child
// duplicate of an already-published device with byte-identical raw
// bytes, in which case suppressed is true and the caller skips it.
func resolvePath(base string, bus i2cbus.BusIndex, addr i2cbus.Address, raw []byte, used map[string]PublishedDevice, sysfsRoot string) (path string, suppressed bool) {
	for n := 0; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		prior, taken := used[candidate]
		if !taken {
			return candidate, false
		}
		if i2cbus.IsMuxChild(sysfsRoot, bus) && bytes.Equal(prior.Raw, raw) {
			return "", true
		}
	}
}
