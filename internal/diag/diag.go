// Package diag collects host and process diagnostics for the object-bus
// Status method, standing in for the introspection a "busctl introspect"
// call would give against a D-Bus object manager.
package diag

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Status is the diagnostic snapshot returned by Collect.
type Status struct {
	Hostname       string  `msgpack:"hostname"`
	Kernel         string  `msgpack:"kernel"`
	Platform       string  `msgpack:"platform"`
	Arch           string  `msgpack:"arch"`
	UptimeSeconds  uint64  `msgpack:"uptime_seconds"`
	LoadAverage1M  float64 `msgpack:"load_average_1m"`
	MemoryTotalMB  uint64  `msgpack:"memory_total_mb"`
	MemoryUsedMB   uint64  `msgpack:"memory_used_mb"`
	ProcessUptime  int64   `msgpack:"process_uptime_seconds"`
	NumGoroutine   int     `msgpack:"num_goroutine"`
	LastGeneration int     `msgpack:"last_generation"`
	PublishedCount int     `msgpack:"published_count"`
}

// processStart is recorded once at package init; Collect measures
// ProcessUptime from it. Host facts, by contrast, are re-read on every
// Collect call rather than cached.
var processStart = time.Now()

// Collect gathers host diagnostics. Fields it cannot determine are left at
// their zero value rather than failing the whole call: a partial Status is
// more useful to an operator than none at all.
func Collect() Status {
	s := Status{
		Arch:         runtime.GOARCH,
		NumGoroutine: runtime.NumGoroutine(),
	}

	if hostname, err := os.Hostname(); err == nil {
		s.Hostname = hostname
	}

	if info, err := host.Info(); err == nil {
		s.Kernel = info.KernelVersion
		s.Platform = info.Platform
		s.UptimeSeconds = info.Uptime
	}

	if avg, err := load.Avg(); err == nil {
		s.LoadAverage1M = avg.Load1
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemoryTotalMB = vm.Total / (1024 * 1024)
		s.MemoryUsedMB = vm.Used / (1024 * 1024)
	}

	s.ProcessUptime = int64(time.Since(processStart).Seconds())

	return s
}
