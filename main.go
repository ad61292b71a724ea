// frud — IPMI FRU discovery daemon and tooling
//
// Usage:
//
//	frud daemon — probe I2C buses and publish discovered FRUs
//	frud ctl    — object-bus client (rescan/list/get/write/status)
//	frud tool   — offline FRU binary/hex converter, no daemon required
package main

import (
	"fmt"
	"os"

	"frud/cmd/frud"
	"frud/cmd/fructl"
	"frud/cmd/frutool"
)

const (
	defaultSystemPath = "/etc/frud/frud.toml"
	defaultLocalPath  = "frud.toml"
	version           = "1.0.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	configPath := ""

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" && i+1 < len(args) {
			configPath = args[i+1]
			args = append(args[:i], args[i+2:]...)
			i--
			continue
		}
		if len(arg) > 9 && arg[:9] == "--config=" {
			configPath = arg[9:]
			args = append(args[:i], args[i+1:]...)
			i--
			continue
		}
	}

	if configPath == "" {
		if _, err := os.Stat(defaultLocalPath); err == nil {
			configPath = defaultLocalPath
		} else {
			configPath = defaultSystemPath
		}
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	subcommand := args[0]
	var err error

	switch subcommand {
	case "daemon":
		err = frud.Run(configPath)
	case "ctl":
		err = fructl.Run(configPath, args[1:])
	case "tool":
		err = frutool.Run(args[1:])
	case "edit":
		err = frud.EditConfig(configPath)
	case "version":
		fmt.Printf("frud v%s\n", version)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`frud v%s — IPMI FRU discovery daemon

Usage:
  frud <command> [--config <path>] [args...]

Commands:
  daemon           Start the FRU discovery daemon
  ctl <subcommand> Talk to a running daemon (rescan/list/get/write/status)
  tool [flags]     Convert a FRU image between binary and hex-dump form
  edit             Edit the configuration file in your system editor
  version          Print version information
  help             Show this help message

Options:
  --config <path>  Path to config file (default: looks for ./frud.toml, then %s)

Examples:
  frud daemon                        # start the discovery daemon
  frud ctl list                      # list currently published FRUs
  frud ctl get 1 0x50                # dump raw bytes from bus 1 address 0x50
  frud tool -in baseboard.bin        # decode a FRU image without a daemon

`, version, defaultSystemPath)
}
