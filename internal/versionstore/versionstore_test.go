package versionstore

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestStore_LastGeneration_EmptyBeforeAnyRecord(t *testing.T) {
	s, err := Open(t.TempDir()+"/version.db", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	_, found, err := s.LastGeneration()
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected no generation recorded yet")
	}
}

func TestStore_RecordRescan_RoundTrips(t *testing.T) {
	s, err := Open(t.TempDir()+"/version.db", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.RecordRescan(7); err != nil {
		t.Fatal(err)
	}

	gen, found, err := s.LastGeneration()
	if err != nil {
		t.Fatal(err)
	}
	if !found || gen != 7 {
		t.Fatalf("got generation %d found=%v, want 7 found=true", gen, found)
	}

	_, found, err = s.LastRescanTime()
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected last rescan time to be recorded")
	}
}

func TestStore_RecordRescan_OverwritesPreviousGeneration(t *testing.T) {
	s, err := Open(t.TempDir()+"/version.db", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.RecordRescan(1); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRescan(2); err != nil {
		t.Fatal(err)
	}

	gen, _, err := s.LastGeneration()
	if err != nil {
		t.Fatal(err)
	}
	if gen != 2 {
		t.Fatalf("got %d, want 2", gen)
	}
}

func TestOpen_ReopensExistingFile(t *testing.T) {
	path := t.TempDir() + "/version.db"

	s1, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.RecordRescan(3); err != nil {
		t.Fatal(err)
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	gen, found, err := s2.LastGeneration()
	if err != nil {
		t.Fatal(err)
	}
	if !found || gen != 3 {
		t.Fatalf("got generation %d found=%v, want 3 found=true", gen, found)
	}
}
