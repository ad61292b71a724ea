package orchestrator

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"frud/internal/baseboard"
	"frud/internal/i2cbus"
)

func testConfig(t *testing.T, scan ScanFunc) Config {
	t.Helper()
	bl, err := i2cbus.LoadBlacklist(t.TempDir() + "/blacklist.json")
	if err != nil {
		t.Fatal(err)
	}
	return Config{
		I2CDevDir:     t.TempDir(),
		SysfsRoot:     t.TempDir(),
		BaseboardPath: t.TempDir() + "/baseboard.bin",
		Debounce:      20 * time.Millisecond,
		Blacklist:     bl,
		Scan:          scan,
		LoadBaseboard: func() ([]byte, error) { return nil, baseboard.ErrNotPresent },
		Log:           zerolog.Nop(),
	}
}

func TestOrchestrator_RequestRescanPublishesAfterDebounce(t *testing.T) {
	var scanCalls int32
	cfg := testConfig(t, func(entry i2cbus.BusEntry) i2cbus.DeviceMap {
		atomic.AddInt32(&scanCalls, 1)
		return nil
	})

	o := New(cfg)
	devEvents := make(chan struct{})
	power := make(chan bool)
	go o.Run(devEvents, power)
	defer o.Stop()

	if snap := o.Snapshot(); len(snap.Devices) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d devices", len(snap.Devices))
	}

	o.RequestRescan()

	deadline := time.Now().Add(2 * time.Second)
	for o.generationSnapshot() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for rescan to run")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestOrchestrator_CoalescesRapidTriggers(t *testing.T) {
	var scanCalls int32
	cfg := testConfig(t, func(entry i2cbus.BusEntry) i2cbus.DeviceMap {
		atomic.AddInt32(&scanCalls, 1)
		return nil
	})
	cfg.Debounce = 100 * time.Millisecond

	o := New(cfg)
	devEvents := make(chan struct{})
	power := make(chan bool)
	go o.Run(devEvents, power)
	defer o.Stop()

	for i := 0; i < 5; i++ {
		o.RequestRescan()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)

	if got := o.generationSnapshot(); got != 1 {
		t.Fatalf("expected exactly one coalesced rescan, got generation %d", got)
	}
}

func TestOrchestrator_PowerGoodTriggersRescan(t *testing.T) {
	cfg := testConfig(t, func(entry i2cbus.BusEntry) i2cbus.DeviceMap { return nil })
	o := New(cfg)
	devEvents := make(chan struct{})
	power := make(chan bool)
	go o.Run(devEvents, power)
	defer o.Stop()

	power <- false // a transition to power-not-good also triggers a rescan
	deadline := time.Now().Add(2 * time.Second)
	for o.generationSnapshot() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("power-not-good transition should trigger a rescan")
		}
		time.Sleep(5 * time.Millisecond)
	}

	power <- true
	deadline = time.Now().Add(2 * time.Second)
	for o.generationSnapshot() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for power-good rescan")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestOrchestrator_DevNodeEventTriggersRescan(t *testing.T) {
	cfg := testConfig(t, func(entry i2cbus.BusEntry) i2cbus.DeviceMap { return nil })
	o := New(cfg)
	devEvents := make(chan struct{})
	power := make(chan bool)
	go o.Run(devEvents, power)
	defer o.Stop()

	devEvents <- struct{}{}
	deadline := time.Now().Add(2 * time.Second)
	for o.generationSnapshot() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for dev-node-triggered rescan")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestOrchestrator_UsesBaseboardWhenPresent(t *testing.T) {
	raw := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF}
	cfg := testConfig(t, func(entry i2cbus.BusEntry) i2cbus.DeviceMap { return nil })
	cfg.LoadBaseboard = func() ([]byte, error) { return raw, nil }

	o := New(cfg)
	devEvents := make(chan struct{})
	power := make(chan bool)
	go o.Run(devEvents, power)
	defer o.Stop()

	o.RequestRescan()

	deadline := time.Now().Add(2 * time.Second)
	for o.generationSnapshot() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for rescan")
		}
		time.Sleep(5 * time.Millisecond)
	}

	snap := o.Snapshot()
	if _, ok := snap.GetRawFru(0, 0); !ok {
		t.Fatal("expected baseboard fru published at bus 0 address 0")
	}
}
