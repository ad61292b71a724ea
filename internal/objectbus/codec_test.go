package objectbus

import (
	"net"
	"net/rpc"
	"testing"
	"time"
)

type EchoArgs struct {
	Message string
}

type EchoReply struct {
	Message string
}

type echoService struct{}

func (echoService) Echo(args *EchoArgs, reply *EchoReply) error {
	reply.Message = args.Message
	return nil
}

func TestMsgpackCodec_RoundTripsRPCCall(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	server := rpc.NewServer()
	if err := server.RegisterName("Echo", echoService{}); err != nil {
		t.Fatal(err)
	}
	go server.ServeCodec(newServerCodec(serverConn))

	client := rpc.NewClientWithCodec(newClientCodec(clientConn))
	defer client.Close()

	args := &EchoArgs{Message: "hello object-bus"}
	reply := &EchoReply{}

	done := make(chan error, 1)
	go func() { done <- client.Call("Echo.Echo", args, reply) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("call failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for RPC call")
	}

	if reply.Message != args.Message {
		t.Errorf("got %q, want %q", reply.Message, args.Message)
	}
}
