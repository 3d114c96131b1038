package udp

import (
	"fmt"
	"net"

	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/udp")

// serverTransport implements the IRPCServerTransport interface for UDP sockets
type serverTransport struct{}

// NewUDPServerTransport creates a new UDP server transport
func NewUDPServerTransport() transport.IRPCServerTransport {
	return &serverTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) GetName() string {
	return "udp"
}

func (t *serverTransport) Listen(config common.ServerConfig) (net.PacketConn, error) {
	conn, err := net.ListenPacket("udp", config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to bind udp socket on %s: %w", config.Endpoint, err)
	}

	if err := upgradeConnection(conn, config); err != nil {
		_ = conn.Close()
		return nil, err
	}

	Logger.Infof("Listening on %s (udp)", conn.LocalAddr())
	return conn, nil
}

// upgradeConnection applies the socket buffer sizes from the configuration
func upgradeConnection(conn net.PacketConn, config common.ServerConfig) error {
	udpConn, ok := conn.(*net.UDPConn)
	if !ok {
		return nil // Not a UDP connection, nothing to upgrade
	}

	if config.SocketReadBuffer > 0 {
		if err := udpConn.SetReadBuffer(config.SocketReadBuffer); err != nil {
			return fmt.Errorf("failed to set socket read buffer: %w", err)
		}
	}
	if config.SocketWriteBuffer > 0 {
		if err := udpConn.SetWriteBuffer(config.SocketWriteBuffer); err != nil {
			return fmt.Errorf("failed to set socket write buffer: %w", err)
		}
	}
	return nil
}
