package objectbus

import (
	"io"
	"net/rpc"

	"github.com/vmihailenco/msgpack/v5"
)

// serverCodec and clientCodec replace net/rpc's default gob wire format
// with msgpack, following the teacher's beacon payload encoding. msgpack
// values are self-delimiting on the wire, so header and body are written
// and read as two consecutive Encode/Decode calls with no extra framing,
// the same shape net/rpc's own gob codec uses internally.
type serverCodec struct {
	conn   io.ReadWriteCloser
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	closed bool
}

// newServerCodec wraps conn for use as an rpc.ServerCodec.
func newServerCodec(conn io.ReadWriteCloser) rpc.ServerCodec {
	return &serverCodec{
		conn: conn,
		dec:  msgpack.NewDecoder(conn),
		enc:  msgpack.NewEncoder(conn),
	}
}

func (c *serverCodec) ReadRequestHeader(r *rpc.Request) error {
	return c.dec.Decode(r)
}

func (c *serverCodec) ReadRequestBody(body interface{}) error {
	if body == nil {
		var discard interface{}
		return c.dec.Decode(&discard)
	}
	return c.dec.Decode(body)
}

func (c *serverCodec) WriteResponse(r *rpc.Response, body interface{}) error {
	if err := c.enc.Encode(r); err != nil {
		return err
	}
	return c.enc.Encode(body)
}

func (c *serverCodec) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// clientCodec is the ClientCodec counterpart of serverCodec.
type clientCodec struct {
	conn   io.ReadWriteCloser
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	closed bool
}

// newClientCodec wraps conn for use as an rpc.ClientCodec.
func newClientCodec(conn io.ReadWriteCloser) rpc.ClientCodec {
	return &clientCodec{
		conn: conn,
		dec:  msgpack.NewDecoder(conn),
		enc:  msgpack.NewEncoder(conn),
	}
}

func (c *clientCodec) WriteRequest(r *rpc.Request, body interface{}) error {
	if err := c.enc.Encode(r); err != nil {
		return err
	}
	return c.enc.Encode(body)
}

func (c *clientCodec) ReadResponseHeader(r *rpc.Response) error {
	return c.dec.Decode(r)
}

func (c *clientCodec) ReadResponseBody(body interface{}) error {
	if body == nil {
		var discard interface{}
		return c.dec.Decode(&discard)
	}
	return c.dec.Decode(body)
}

func (c *clientCodec) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
