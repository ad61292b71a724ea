// Package orchestrator owns the rescan lifecycle: debouncing triggers,
// re-enumerating buses, running the scanner, decoding what it finds, and
// publishing the resulting object set. Each rescan builds an entirely new
// generation; readers of a previous generation are never blocked or
// mutated mid-read.
package orchestrator

import (
	"time"

	"github.com/rs/zerolog"

	"frud/internal/baseboard"
	"frud/internal/i2cbus"
	"frud/internal/versionstore"
)

// ScanFunc runs one bus's scan pass. Production code wires this to
// i2cbus.ScanBus; tests inject fakes.
type ScanFunc func(entry i2cbus.BusEntry) i2cbus.DeviceMap

// BaseboardLoadFunc loads the baseboard FRU, or returns baseboard.ErrNotPresent.
type BaseboardLoadFunc func() ([]byte, error)

// Config configures an Orchestrator.
type Config struct {
	I2CDevDir     string
	SysfsRoot     string
	BaseboardPath string
	Debounce      time.Duration
	Blacklist     *i2cbus.Blacklist
	Scan          ScanFunc
	LoadBaseboard BaseboardLoadFunc
	VersionStore  *versionstore.Store
	Log           zerolog.Logger
}

// Orchestrator runs the debounced rescan loop and holds the currently
// published generation.
type Orchestrator struct {
	cfg Config

	trigger chan struct{}
	stop    chan struct{}
	stopped chan struct{}

	mu         chan struct{} // 1-buffered mutex: held while snapshot is read or replaced
	snapshot   *Snapshot
	generation int
}

// New builds an Orchestrator. Call Run to start its event loop.
func New(cfg Config) *Orchestrator {
	if cfg.LoadBaseboard == nil {
		cfg.LoadBaseboard = func() ([]byte, error) { return baseboard.Load(cfg.BaseboardPath) }
	}
	o := &Orchestrator{
		cfg:      cfg,
		trigger:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
		mu:       make(chan struct{}, 1),
		snapshot: emptySnapshot(),
	}
	o.mu <- struct{}{}
	return o
}

// RequestRescan asks for a rescan, coalesced with any other pending
// request until the debounce timer fires.
func (o *Orchestrator) RequestRescan() {
	select {
	case o.trigger <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recently published generation. Safe to call
// concurrently with Run.
func (o *Orchestrator) Snapshot() *Snapshot {
	<-o.mu
	s := o.snapshot
	o.mu <- struct{}{}
	return s
}

// generationSnapshot reports the generation number of the most recently
// published snapshot. Safe to call concurrently with Run.
func (o *Orchestrator) generationSnapshot() int {
	return o.Snapshot().Generation
}

// Stop ends the event loop and waits for it to exit.
func (o *Orchestrator) Stop() {
	close(o.stop)
	<-o.stopped
}

// Run is the single-threaded event loop: it suspends on the debounce
// timer, device-node filesystem events and chassis power transitions,
// and serializes every rescan behind the same timer so at most one scan
// pass runs at a time.
func (o *Orchestrator) Run(devEvents <-chan struct{}, power <-chan bool) {
	defer close(o.stopped)

	var timer *time.Timer
	armed := false

	arm := func() {
		if !armed {
			timer = time.NewTimer(o.cfg.Debounce)
			armed = true
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(o.cfg.Debounce)
	}

	var timerC <-chan time.Time
	for {
		if armed {
			timerC = timer.C
		} else {
			timerC = nil
		}

		select {
		case <-o.stop:
			return
		case <-o.trigger:
			arm()
		case <-devEvents:
			arm()
		case <-power:
			arm()
		case <-timerC:
			armed = false
			o.rescan()
		}
	}
}

// rescan re-enumerates every bus, runs the scanner over each
// non-blacklisted one, loads the baseboard FRU, decodes everything it
// got, and atomically swaps in the new generation.
func (o *Orchestrator) rescan() {
	o.generation++
	log := o.cfg.Log.With().Int("generation", o.generation).Logger()
	log.Info().Msg("rescan starting")

	busMap := make(i2cbus.BusMap)

	if raw, err := o.cfg.LoadBaseboard(); err == nil {
		busMap[0] = i2cbus.DeviceMap{0: raw}
	} else if err != baseboard.ErrNotPresent {
		log.Warn().Err(err).Msg("failed to load baseboard fru")
	}

	for _, entry := range i2cbus.Enumerate(o.cfg.I2CDevDir) {
		if o.cfg.Blacklist.Contains(entry.Index) {
			continue
		}
		devices := o.cfg.Scan(entry)
		if len(devices) > 0 {
			busMap[entry.Index] = devices
		}
	}

	snapshot := buildSnapshot(busMap, o.generation, o.cfg.SysfsRoot, log)

	<-o.mu
	o.snapshot = snapshot
	o.mu <- struct{}{}

	if o.cfg.VersionStore != nil {
		if err := o.cfg.VersionStore.RecordRescan(o.generation); err != nil {
			log.Warn().Err(err).Msg("failed to persist rescan generation")
		}
	}

	log.Info().Int("published", len(snapshot.Devices)).Msg("rescan complete")
}
