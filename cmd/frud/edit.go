package frud

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const defaultConfigTemplate = `[daemon]
  i2c_dev_dir        = "/dev"
  sysfs_root          = "/sys/bus/i2c/devices"
  probe_first         = 3
  probe_last          = 119
  scan_timeout        = "5s"
  debounce            = "1s"
  blacklist_path      = "/etc/frud/blacklist.json"
  baseboard_path      = "/etc/fru/baseboard.fru.bin"
  rpc_socket          = "/run/frud/frud.sock"
  version_store_dir   = "/var/lib/frud"
  power_good_path     = ""
  log_level           = "info"

[ctl]
  rpc_socket = "/run/frud/frud.sock"
`

// EditConfig opens the configuration file in the system editor, creating
// it from a default template first if it doesn't exist yet.
func EditConfig(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Creating new config file at %s...\n", path)
		if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		for _, e := range []string{"vi", "nano", "vim"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found ($EDITOR environment variable not set, and vi/nano/vim not in PATH)")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
