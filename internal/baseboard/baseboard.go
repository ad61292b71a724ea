// Package baseboard implements the file-backed stand-in for bus 0,
// address 0: the one FRU the daemon can neither probe nor blacklist,
// because it names the board the daemon itself runs on.
package baseboard

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotPresent means the baseboard file does not exist; the caller
// should leave bus 0 absent from the BusMap rather than treat this as an
// error.
var ErrNotPresent = errors.New("baseboard: file not present")

// Load reads the baseboard FRU file at path. A missing file returns
// ErrNotPresent; any other read failure is returned wrapped with the path.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotPresent
		}
		return nil, fmt.Errorf("reading baseboard fru %s: %w", path, err)
	}
	return data, nil
}

// Write overwrites the baseboard file with data. The write is not
// interleaved with concurrent readers: a temp file is written and renamed
// into place, which on the same filesystem is atomic and leaves no window
// where the file is half-written.
func Write(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing baseboard fru %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing baseboard fru %s: %w", path, err)
	}
	return nil
}
