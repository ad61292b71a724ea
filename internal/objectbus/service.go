// Package objectbus is the daemon's local IPC surface: a net/rpc service
// over a Unix domain socket, taking the place the object-bus/D-Bus layer
// plays in the design this was ported from. Each PublishedDevice becomes
// an entry in ListDevices rather than its own bus object, since a
// Unix-socket RPC service has no object-manager equivalent.
package objectbus

import (
	"fmt"
	"net"
	"net/rpc"
	"os"
	"time"

	"github.com/rs/zerolog"

	"frud/internal/baseboard"
	"frud/internal/diag"
	"frud/internal/fru"
	"frud/internal/i2cbus"
	"frud/internal/orchestrator"
)

// PublishedDeviceInfo is the wire shape of one discovered FRU, standing in
// for the per-object properties spec.md describes.
type PublishedDeviceInfo struct {
	Bus     int               `msgpack:"bus"`
	Address int               `msgpack:"address"`
	Path    string            `msgpack:"path"`
	Fields  map[string]string `msgpack:"fields"`
}

type (
	ReScanArgs  struct{}
	ReScanReply struct{}

	GetRawFruArgs struct {
		Bus     int
		Address int
	}
	GetRawFruReply struct {
		Data []byte
	}

	WriteFruArgs struct {
		Bus     int
		Address int
		Data    []byte
	}
	WriteFruReply struct{}

	ListDevicesArgs  struct{}
	ListDevicesReply struct {
		Devices []PublishedDeviceInfo
	}

	StatusArgs  struct{}
	StatusReply struct {
		Status diag.Status
	}
)

// Config wires a Service to the rest of the daemon.
type Config struct {
	Orchestrator   *orchestrator.Orchestrator
	I2CDevDir      string
	BaseboardPath  string
	OpenBus        i2cbus.OpenFunc
	WriteBaseboard func(path string, data []byte) error
	Log            zerolog.Logger
}

// Service is the RPC receiver registered against a net/rpc server.
type Service struct {
	cfg Config
}

// NewService builds a Service from cfg, defaulting WriteBaseboard to
// baseboard.Write when the caller doesn't override it (production code
// leaves it nil; tests inject a fake to avoid touching the filesystem
// outside t.TempDir()).
func NewService(cfg Config) *Service {
	if cfg.WriteBaseboard == nil {
		cfg.WriteBaseboard = baseboard.Write
	}
	return &Service{cfg: cfg}
}

// ReScan requests an immediate (debounced) rescan.
func (s *Service) ReScan(args *ReScanArgs, reply *ReScanReply) error {
	s.cfg.Orchestrator.RequestRescan()
	return nil
}

// GetRawFru returns the raw bytes most recently read from bus/address.
func (s *Service) GetRawFru(args *GetRawFruArgs, reply *GetRawFruReply) error {
	if args.Bus < 0 || args.Address < 0 || args.Address > 0xFF {
		return fmt.Errorf("%w: bus %d address %#x out of range", ErrInvalidArgument, args.Bus, args.Address)
	}

	snap := s.cfg.Orchestrator.Snapshot()
	raw, ok := snap.GetRawFru(i2cbus.BusIndex(args.Bus), i2cbus.Address(args.Address))
	if !ok {
		return fmt.Errorf("%w: no fru published at bus %d address %#x", ErrInvalidArgument, args.Bus, args.Address)
	}
	reply.Data = raw
	return nil
}

// WriteFru validates and writes a candidate FRU image to bus/address (bus
// 0 is the synthetic baseboard slot), then schedules a rescan so the new
// content is picked up and republished.
func (s *Service) WriteFru(args *WriteFruArgs, reply *WriteFruReply) error {
	if err := fru.ValidateForWrite(args.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if args.Bus == 0 {
		if err := s.cfg.WriteBaseboard(s.cfg.BaseboardPath, args.Data); err != nil {
			return fmt.Errorf("%w: writing baseboard fru: %v", ErrInternal, err)
		}
	} else {
		if args.Address < 0 || args.Address > 0xFF {
			return fmt.Errorf("%w: address %#x out of range", ErrInvalidArgument, args.Address)
		}
		path := fmt.Sprintf("%s/i2c-%d", s.cfg.I2CDevDir, args.Bus)
		bus, err := s.cfg.OpenBus(path)
		if err != nil {
			return fmt.Errorf("%w: opening %s: %v", ErrInternal, path, err)
		}
		defer bus.Close()

		if err := i2cbus.WriteRawFru(bus, i2cbus.Address(args.Address), args.Data, time.Sleep); err != nil {
			return fmt.Errorf("%w: writing fru: %v", ErrInternal, err)
		}
	}

	s.cfg.Orchestrator.RequestRescan()
	return nil
}

// ListDevices returns every currently published FRU object.
func (s *Service) ListDevices(args *ListDevicesArgs, reply *ListDevicesReply) error {
	snap := s.cfg.Orchestrator.Snapshot()
	devices := make([]PublishedDeviceInfo, 0, len(snap.Devices))
	for _, d := range snap.Devices {
		fields := make(map[string]string, len(d.Fields))
		for k, v := range d.Fields {
			fields[k] = v
		}
		devices = append(devices, PublishedDeviceInfo{
			Bus:     int(d.Bus),
			Address: int(d.Address),
			Path:    d.Path,
			Fields:  fields,
		})
	}
	reply.Devices = devices
	return nil
}

// Status returns host diagnostics plus the current rescan generation and
// published device count.
func (s *Service) Status(args *StatusArgs, reply *StatusReply) error {
	snap := s.cfg.Orchestrator.Snapshot()
	status := diag.Collect()
	status.LastGeneration = snap.Generation
	status.PublishedCount = len(snap.Devices)
	reply.Status = status
	return nil
}

// Listener is the subset of net.Listener Start needs, so tests can close
// down the accept loop deterministically.
type Listener interface {
	Close() error
}

// Start registers svc against a fresh net/rpc server and begins accepting
// msgpack-codec connections on socketPath, replacing any stale socket
// file left behind by a previous run.
func Start(socketPath string, svc *Service, log zerolog.Logger) (Listener, error) {
	server := rpc.NewServer()
	if err := server.RegisterName("Service", svc); err != nil {
		return nil, fmt.Errorf("registering object-bus service: %w", err)
	}

	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", socketPath, err)
	}
	if err := os.Chmod(socketPath, 0660); err != nil {
		log.Warn().Err(err).Msg("failed to set object-bus socket permissions")
	}

	log.Info().Str("socket", socketPath).Msg("object-bus listening")

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go server.ServeCodec(newServerCodec(conn))
		}
	}()

	return listener, nil
}
