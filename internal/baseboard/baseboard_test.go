package baseboard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "baseboard.fru.bin"))
	if !errors.Is(err, ErrNotPresent) {
		t.Fatalf("expected ErrNotPresent, got %v", err)
	}
}

func TestWriteThenLoad_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseboard.fru.bin")
	data := []byte{0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xFE}

	if err := Write(path, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("got %d bytes, want %d", len(got), len(data))
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, got[i], data[i])
		}
	}
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseboard.fru.bin")
	if err := os.WriteFile(path, []byte{0xFF, 0xFF}, 0644); err != nil {
		t.Fatal(err)
	}

	newData := []byte{0x01, 0x02, 0x03}
	if err := Write(path, newData); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != len(newData) {
		t.Fatalf("expected overwrite to replace contents, got %v", got)
	}
}
