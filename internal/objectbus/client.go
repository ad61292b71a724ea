package objectbus

import (
	"fmt"
	"net"
	"net/rpc"

	"frud/internal/diag"
)

// Client is a msgpack-codec net/rpc client for the object-bus service,
// used by fructl.
type Client struct {
	rpcClient *rpc.Client
}

// Dial connects to the object-bus Unix socket at socketPath.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to object-bus socket %s: %w", socketPath, err)
	}
	return &Client{rpcClient: rpc.NewClientWithCodec(newClientCodec(conn))}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rpcClient.Close()
}

// ReScan requests an immediate debounced rescan.
func (c *Client) ReScan() error {
	return c.rpcClient.Call("Service.ReScan", &ReScanArgs{}, &ReScanReply{})
}

// GetRawFru fetches the raw FRU bytes at bus/address.
func (c *Client) GetRawFru(bus, address int) ([]byte, error) {
	reply := &GetRawFruReply{}
	if err := c.rpcClient.Call("Service.GetRawFru", &GetRawFruArgs{Bus: bus, Address: address}, reply); err != nil {
		return nil, err
	}
	return reply.Data, nil
}

// WriteFru writes a candidate FRU image to bus/address.
func (c *Client) WriteFru(bus, address int, data []byte) error {
	args := &WriteFruArgs{Bus: bus, Address: address, Data: data}
	return c.rpcClient.Call("Service.WriteFru", args, &WriteFruReply{})
}

// ListDevices lists every currently published FRU object.
func (c *Client) ListDevices() ([]PublishedDeviceInfo, error) {
	reply := &ListDevicesReply{}
	if err := c.rpcClient.Call("Service.ListDevices", &ListDevicesArgs{}, reply); err != nil {
		return nil, err
	}
	return reply.Devices, nil
}

// Status fetches host and daemon diagnostics.
func (c *Client) Status() (diag.Status, error) {
	reply := &StatusReply{}
	if err := c.rpcClient.Call("Service.Status", &StatusArgs{}, reply); err != nil {
		return diag.Status{}, err
	}
	return reply.Status, nil
}
