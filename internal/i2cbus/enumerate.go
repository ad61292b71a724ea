package i2cbus

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var busNodePattern = regexp.MustCompile(`^i2c-(\d+)$`)

// Enumerate lists every i2c-N device node under dir, ordered by ascending
// bus index. An inaccessible directory yields an empty, non-error result;
// the caller is expected to log it.
func Enumerate(dir string) []BusEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []BusEntry
	for _, entry := range entries {
		m := busNodePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, BusEntry{
			Index: BusIndex(idx),
			Path:  filepath.Join(dir, entry.Name()),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
