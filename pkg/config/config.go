// Package config provides TOML configuration loading for frud.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration structure.
type Config struct {
	Daemon DaemonConfig `toml:"daemon"`
	Ctl    CtlConfig    `toml:"ctl"`
}

// DaemonConfig holds settings for the frud discovery daemon.
type DaemonConfig struct {
	I2CDevDir       string `toml:"i2c_dev_dir"`
	SysfsRoot       string `toml:"sysfs_root"`
	ProbeFirst      int    `toml:"probe_first"`
	ProbeLast       int    `toml:"probe_last"`
	ScanTimeout     string `toml:"scan_timeout"`
	Debounce        string `toml:"debounce"`
	BlacklistPath   string `toml:"blacklist_path"`
	BaseboardPath   string `toml:"baseboard_path"`
	RPCSocket       string `toml:"rpc_socket"`
	VersionStoreDir string `toml:"version_store_dir"`
	PowerGoodPath   string `toml:"power_good_path"`
	LogLevel        string `toml:"log_level"`
}

// CtlConfig holds settings for the fructl client CLI.
type CtlConfig struct {
	RPCSocket string `toml:"rpc_socket"`
}

// ParseScanTimeout parses the per-bus scan timeout to a time.Duration.
func (d *DaemonConfig) ParseScanTimeout() (time.Duration, error) {
	if d.ScanTimeout == "" {
		return 5 * time.Second, nil
	}
	return time.ParseDuration(d.ScanTimeout)
}

// ParseDebounce parses the rescan debounce interval to a time.Duration.
func (d *DaemonConfig) ParseDebounce() (time.Duration, error) {
	if d.Debounce == "" {
		return 1 * time.Second, nil
	}
	return time.ParseDuration(d.Debounce)
}

// Load reads and parses a TOML config file, applying defaults for unset values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	cfg.expandPaths()
	return cfg, nil
}

func (cfg *Config) expandPaths() {
	cfg.Daemon.BlacklistPath = ExpandPath(cfg.Daemon.BlacklistPath)
	cfg.Daemon.BaseboardPath = ExpandPath(cfg.Daemon.BaseboardPath)
	cfg.Daemon.VersionStoreDir = ExpandPath(cfg.Daemon.VersionStoreDir)
	cfg.Daemon.RPCSocket = ExpandPath(cfg.Daemon.RPCSocket)
	cfg.Ctl.RPCSocket = ExpandPath(cfg.Ctl.RPCSocket)
}

// ExpandPath expands tilde (~) to the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	if path == "~" {
		return usr.HomeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(usr.HomeDir, path[2:])
	}
	return path
}

func applyDefaults(cfg *Config) {
	// Daemon defaults
	if cfg.Daemon.I2CDevDir == "" {
		cfg.Daemon.I2CDevDir = "/dev"
	}
	if cfg.Daemon.SysfsRoot == "" {
		cfg.Daemon.SysfsRoot = "/sys/bus/i2c/devices"
	}
	if cfg.Daemon.ProbeFirst == 0 {
		cfg.Daemon.ProbeFirst = 0x03
	}
	if cfg.Daemon.ProbeLast == 0 {
		cfg.Daemon.ProbeLast = 0x77
	}
	if cfg.Daemon.ScanTimeout == "" {
		cfg.Daemon.ScanTimeout = "5s"
	}
	if cfg.Daemon.Debounce == "" {
		cfg.Daemon.Debounce = "1s"
	}
	if cfg.Daemon.BlacklistPath == "" {
		cfg.Daemon.BlacklistPath = "/etc/frud/blacklist.json"
	}
	if cfg.Daemon.BaseboardPath == "" {
		cfg.Daemon.BaseboardPath = "/etc/fru/baseboard.fru.bin"
	}
	if cfg.Daemon.RPCSocket == "" {
		cfg.Daemon.RPCSocket = "/run/frud/frud.sock"
	}
	if cfg.Daemon.VersionStoreDir == "" {
		cfg.Daemon.VersionStoreDir = "/var/lib/frud"
	}
	if cfg.Daemon.LogLevel == "" {
		cfg.Daemon.LogLevel = "info"
	}

	// Ctl defaults
	if cfg.Ctl.RPCSocket == "" {
		cfg.Ctl.RPCSocket = "/run/frud/frud.sock"
	}
}
