// Package versionstore persists the daemon's rescan generation counter
// and the timestamp of its last successful rescan across restarts, via a
// small bbolt database. It deliberately never stores FRU bytes or decoded
// fields: the discovered inventory itself is non-persistent, only the
// bookkeeping a small version marker file needs is.
package versionstore

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

var metaBucket = []byte("meta")

var (
	generationKey = []byte("generation")
	lastRescanKey = []byte("last_rescan_unix")
)

// Store wraps a bbolt database holding the version marker.
type Store struct {
	db  *bolt.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// Open opens or creates a bbolt file at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening version store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating meta bucket: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRescan persists generation as the latest known rescan generation
// along with the current time, so a restarted daemon can report where it
// left off before its first rescan completes.
func (s *Store) RecordRescan(generation int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)

		genBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(genBytes, uint64(generation))
		if err := b.Put(generationKey, genBytes); err != nil {
			return err
		}

		tsBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(tsBytes, uint64(time.Now().Unix()))
		return b.Put(lastRescanKey, tsBytes)
	})
}

// LastGeneration reports the most recently recorded generation, and
// whether one has ever been recorded.
func (s *Store) LastGeneration() (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var generation int
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		v := b.Get(generationKey)
		if v == nil {
			return nil
		}
		found = true
		generation = int(binary.BigEndian.Uint64(v))
		return nil
	})
	return generation, found, err
}

// LastRescanTime reports the timestamp of the most recently recorded
// rescan, and whether one has ever been recorded.
func (s *Store) LastRescanTime() (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t time.Time
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		v := b.Get(lastRescanKey)
		if v == nil {
			return nil
		}
		found = true
		t = time.Unix(int64(binary.BigEndian.Uint64(v)), 0).UTC()
		return nil
	})
	return t, found, err
}
