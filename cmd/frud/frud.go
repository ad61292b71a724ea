// Package frud implements the "frud" daemon subcommand: it loads
// configuration, wires the orchestrator to the bus scanner and its
// external event sources, starts the object-bus RPC service, and runs
// until it receives a termination signal.
package frud

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"frud/internal/baseboard"
	"frud/internal/diag"
	"frud/internal/i2cbus"
	"frud/internal/objectbus"
	"frud/internal/orchestrator"
	"frud/internal/versionstore"
	"frud/internal/watch"
	"frud/pkg/config"
	"frud/pkg/logger"
)

// Run loads configPath and runs the daemon until it is signaled to stop.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Init(cfg.Daemon.LogLevel)

	for _, path := range []string{cfg.Daemon.BlacklistPath, cfg.Daemon.BaseboardPath, cfg.Daemon.RPCSocket} {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}
	if err := os.MkdirAll(cfg.Daemon.VersionStoreDir, 0700); err != nil {
		return fmt.Errorf("creating version store directory %s: %w", cfg.Daemon.VersionStoreDir, err)
	}

	blacklist, err := i2cbus.LoadBlacklist(cfg.Daemon.BlacklistPath)
	if err != nil {
		return fmt.Errorf("loading blacklist: %w", err)
	}

	versionDBPath := filepath.Join(cfg.Daemon.VersionStoreDir, "version")
	vstore, err := versionstore.Open(versionDBPath, log)
	if err != nil {
		return fmt.Errorf("opening version store: %w", err)
	}
	defer vstore.Close()

	if generation, found, err := vstore.LastGeneration(); err != nil {
		log.Warn().Err(err).Msg("failed to read persisted rescan generation")
	} else if found {
		rescanTime, _, err := vstore.LastRescanTime()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read persisted last-rescan time")
		}
		log.Info().Int("generation", generation).Time("last_rescan", rescanTime).
			Msg("resuming after a previous run")
	}

	buses := i2cbus.Enumerate(cfg.Daemon.I2CDevDir)
	if len(buses) == 0 {
		if _, err := baseboard.Load(cfg.Daemon.BaseboardPath); err != nil {
			return fmt.Errorf("initial enumeration found no i2c buses under %s and no baseboard fru at %s: %w",
				cfg.Daemon.I2CDevDir, cfg.Daemon.BaseboardPath, err)
		}
	}

	scanTimeout, err := cfg.Daemon.ParseScanTimeout()
	if err != nil {
		return fmt.Errorf("parsing scan_timeout: %w", err)
	}
	debounce, err := cfg.Daemon.ParseDebounce()
	if err != nil {
		return fmt.Errorf("parsing debounce: %w", err)
	}

	scanOpts := i2cbus.ScanOptions{
		First:   i2cbus.Address(cfg.Daemon.ProbeFirst),
		Last:    i2cbus.Address(cfg.Daemon.ProbeLast),
		Timeout: scanTimeout,
	}

	orch := orchestrator.New(orchestrator.Config{
		I2CDevDir:     cfg.Daemon.I2CDevDir,
		SysfsRoot:     cfg.Daemon.SysfsRoot,
		BaseboardPath: cfg.Daemon.BaseboardPath,
		Debounce:      debounce,
		Blacklist:     blacklist,
		Scan: func(entry i2cbus.BusEntry) i2cbus.DeviceMap {
			return i2cbus.ScanBus(entry, blacklist, scanOpts, openLinuxBus, log)
		},
		VersionStore: vstore,
		Log:          log,
	})

	devWatcher, err := watch.NewDevNodeWatcher(cfg.Daemon.I2CDevDir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", cfg.Daemon.I2CDevDir, err)
	}
	defer devWatcher.Close()

	var powerEvents <-chan bool
	if cfg.Daemon.PowerGoodPath != "" {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		tick := make(chan struct{})
		go func() {
			for range ticker.C {
				tick <- struct{}{}
			}
		}()
		power := watch.NewPolledPowerSignal(func() (bool, error) {
			return readPowerGood(cfg.Daemon.PowerGoodPath)
		}, tick)
		defer power.Close()
		powerEvents = power.Transitions()
	}

	go orch.Run(devWatcher.Events(), powerEvents)
	orch.RequestRescan()

	svc := objectbus.NewService(objectbus.Config{
		Orchestrator:  orch,
		I2CDevDir:     cfg.Daemon.I2CDevDir,
		BaseboardPath: cfg.Daemon.BaseboardPath,
		OpenBus:       openLinuxBus,
		Log:           log,
	})

	listener, err := objectbus.Start(cfg.Daemon.RPCSocket, svc, log)
	if err != nil {
		return fmt.Errorf("starting object-bus: %w", err)
	}
	defer listener.Close()

	status := diag.Collect()
	log.Info().
		Str("i2c_dev_dir", cfg.Daemon.I2CDevDir).
		Str("rpc_socket", cfg.Daemon.RPCSocket).
		Str("hostname", status.Hostname).
		Msg("frud started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	orch.Stop()
	return nil
}

func openLinuxBus(path string) (i2cbus.Bus, error) {
	return i2cbus.OpenLinuxBus(path)
}

// readPowerGood reads a well-known sysfs-like file expected to contain
// "0" or "1" (with optional surrounding whitespace), standing in for a
// real chassis power-good GPIO line.
func readPowerGood(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(data)) == "1", nil
}
