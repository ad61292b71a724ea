// Package fructl implements the "fructl" CLI: a thin object-bus RPC
// client for rescanning, listing, reading and writing FRUs.
package fructl

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"frud/internal/objectbus"
	"frud/pkg/config"
)

// Run dispatches args (os.Args[1:] with any --config already stripped)
// against the object-bus service described by configPath.
func Run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("no subcommand given")
	}

	client, err := objectbus.Dial(cfg.Ctl.RPCSocket)
	if err != nil {
		return fmt.Errorf("connecting to frud at %s: %w\nis frud running?", cfg.Ctl.RPCSocket, err)
	}
	defer client.Close()

	switch args[0] {
	case "rescan":
		return client.ReScan()
	case "list":
		return runList(client)
	case "get":
		return runGet(client, args[1:])
	case "write":
		return runWrite(client, args[1:])
	case "status":
		return runStatus(client)
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func runList(client *objectbus.Client) error {
	devices, err := client.ListDevices()
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No FRUs currently published.")
		return nil
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	fmt.Printf("  %-4s %-6s %-30s %-30s\n", "Bus", "Addr", "Path", "Product")
	if interactive {
		fmt.Printf("  %s %s %s %s\n", strings.Repeat("─", 4), strings.Repeat("─", 6), strings.Repeat("─", 30), strings.Repeat("─", 30))
	}

	for _, d := range devices {
		product := d.Fields["PRODUCT_PRODUCT_NAME"]
		if product == "" {
			product = d.Fields["BOARD_PRODUCT_NAME"]
		}
		fmt.Printf("  %-4d %#04x   %-30s %-30s\n", d.Bus, d.Address, d.Path, product)
	}
	return nil
}

func runGet(client *objectbus.Client, args []string) error {
	bus, addr, err := parseBusAddress(args)
	if err != nil {
		return err
	}
	data, err := client.GetRawFru(bus, addr)
	if err != nil {
		return fmt.Errorf("fetching fru: %w", err)
	}
	fmt.Print(hex.Dump(data))
	return nil
}

func runWrite(client *objectbus.Client, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: fructl write <bus> <address> <file>")
	}
	bus, addr, err := parseBusAddress(args[:2])
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[2])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[2], err)
	}
	if err := client.WriteFru(bus, addr, raw); err != nil {
		return fmt.Errorf("writing fru: %w", err)
	}
	fmt.Println("write accepted, rescan scheduled")
	return nil
}

func runStatus(client *objectbus.Client) error {
	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("fetching status: %w", err)
	}
	fmt.Printf("hostname:          %s\n", status.Hostname)
	fmt.Printf("platform:          %s (%s)\n", status.Platform, status.Arch)
	fmt.Printf("kernel:            %s\n", status.Kernel)
	fmt.Printf("uptime:            %ds\n", status.UptimeSeconds)
	fmt.Printf("load average (1m): %.2f\n", status.LoadAverage1M)
	fmt.Printf("memory:            %d/%d MB\n", status.MemoryUsedMB, status.MemoryTotalMB)
	fmt.Printf("last generation:   %d\n", status.LastGeneration)
	fmt.Printf("published devices: %d\n", status.PublishedCount)
	return nil
}

func parseBusAddress(args []string) (bus, addr int, err error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected <bus> <address>")
	}
	bus, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid bus %q: %w", args[0], err)
	}
	addrStr := strings.TrimPrefix(strings.ToLower(args[1]), "0x")
	a, err := strconv.ParseInt(addrStr, 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid address %q: %w", args[1], err)
	}
	return bus, int(a), nil
}

func printUsage() {
	fmt.Println(`fructl — object-bus client for frud

Usage:
  fructl rescan                       Request an immediate rescan
  fructl list                         List currently published FRUs
  fructl get <bus> <address>          Dump the raw bytes at bus/address (hex address, e.g. 0x50)
  fructl write <bus> <address> <file> Write a raw FRU image from file
  fructl status                       Show daemon/host diagnostics`)
}
