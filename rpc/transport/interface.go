package transport

import (
	"net"

	"github.com/ValentinKolb/uKV/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// IRPCServerTransport is the interface for the RPC server transport layer.
// It only binds the socket, the receive loop and the response path are
// owned by the RPC server.
type IRPCServerTransport interface {
	// Listen binds a datagram socket according to the configuration.
	// A bind failure must be returned as an error.
	Listen(config common.ServerConfig) (net.PacketConn, error)
	// GetName returns the name of the transport type (e.g., "udp")
	GetName() string
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends one request datagram to the server and returns the reply datagram
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
