package udp

import (
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/transport"
)

const (
	// maxDatagramSize is the largest possible UDP payload
	maxDatagramSize = 64 * 1024
	// defaultTimeout is used if the configuration does not set a timeout
	defaultTimeout = 5 * time.Second
)

// ErrTimeout is returned if no reply arrived in time
var ErrTimeout = errors.New("request timed out")

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientConnection is a single connected UDP socket.
// Since datagrams carry no request id, only one request can be
// outstanding per socket.
type clientConnection struct {
	mu       sync.Mutex // held for a full request/reply exchange
	conn     net.Conn
	endpoint string
	buf      []byte
}

// clientTransport implements the IRPCClientTransport interface for UDP sockets
type clientTransport struct {
	config        common.ClientConfig
	connections   []*clientConnection
	connectionsMu sync.RWMutex
	nextConnIndex uint64 // Atomic counter for Round Robin
}

// NewUDPClientTransport creates a new UDP client transport
func NewUDPClientTransport() transport.IRPCClientTransport {
	return &clientTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if len(config.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	// Close all existing connections
	t.closeConnections()

	t.config = config

	// Set default value for ConnectionsPerEndpoint
	connectionsPerEP := 1
	if config.ConnectionsPerEndpoint > 0 {
		connectionsPerEP = config.ConnectionsPerEndpoint
	}

	bufSize := maxDatagramSize
	if config.ReadBufferSize > 0 {
		bufSize = config.ReadBufferSize
	}

	connections := make([]*clientConnection, 0, len(config.Endpoints)*connectionsPerEP)
	for _, endpoint := range config.Endpoints {
		// Create multiple connections per endpoint
		for i := 0; i < connectionsPerEP; i++ {
			clientConn := &clientConnection{
				endpoint: endpoint,
				buf:      make([]byte, bufSize),
			}

			// Establish the initial connection using reconnect
			if err := clientConn.reconnect(); err != nil {
				Logger.Warningf("Failed to connect to %s (connection %d/%d): %v", endpoint, i+1, connectionsPerEP, err)
				continue
			}
			connections = append(connections, clientConn)
		}
	}

	// Check if we have at least one connection
	if len(connections) == 0 {
		return fmt.Errorf("failed to connect to any endpoint")
	}

	t.connectionsMu.Lock()
	t.connections = connections
	t.connectionsMu.Unlock()

	Logger.Debugf("Connected %d out of %d sockets to %d endpoints using udp transport",
		len(connections), len(config.Endpoints)*connectionsPerEP, len(config.Endpoints))
	return nil
}

func (t *clientTransport) Send(req []byte) ([]byte, error) {
	if len(req) > maxDatagramSize {
		return nil, fmt.Errorf("request of %d bytes exceeds the maximum datagram size", len(req))
	}

	timeout := defaultTimeout
	if t.config.TimeoutSecond > 0 {
		timeout = time.Duration(t.config.TimeoutSecond) * time.Second
	}

	// We always try at least once, and up to maxRetries times
	maxRetries := t.config.RetryCount
	if maxRetries < 1 {
		maxRetries = 1
	}

	// Initial backoff duration in milliseconds
	backoffMs := 50

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		conn := t.getNextConnection()
		if conn == nil {
			return nil, fmt.Errorf("no active connections available")
		}

		data, err := conn.exchange(req, timeout)
		if err == nil {
			return data, nil
		}

		lastErr = err
		Logger.Debugf("Request attempt %d/%d to %s failed: %v", i+1, maxRetries, conn.endpoint, err)

		if i < maxRetries-1 {
			// Exponential backoff with a small random jitter (+-10%)
			jitter := float64(backoffMs) * (0.9 + 0.2*rand.Float64())
			time.Sleep(time.Duration(jitter) * time.Millisecond)
			backoffMs *= 2
		}
	}

	// All attempts failed
	return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, lastErr)
}

func (t *clientTransport) Close() error {
	t.closeConnections()
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// getNextConnection selects the next connection via Round Robin
func (t *clientTransport) getNextConnection() *clientConnection {
	t.connectionsMu.RLock()
	defer t.connectionsMu.RUnlock()

	if len(t.connections) == 0 {
		return nil
	}

	// Simple Round Robin algorithm
	var index uint64
	if len(t.connections) == 1 {
		// optimize for single connection
		index = 0
	} else {
		index = atomic.AddUint64(&t.nextConnIndex, 1) % uint64(len(t.connections))
	}
	return t.connections[index]
}

// closeConnections closes all active connections
func (t *clientTransport) closeConnections() {
	t.connectionsMu.Lock()
	defer t.connectionsMu.Unlock()

	for _, c := range t.connections {
		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()
	}

	// Empty the list
	t.connections = nil
}

// exchange writes one request datagram and waits for one reply datagram.
// After a timeout the socket is replaced, so a late reply can never be
// mistaken for the reply of the next request.
func (c *clientConnection) exchange(req []byte, timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("connection is closed")
	}

	deadline := time.Now().Add(timeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	if _, err := c.conn.Write(req); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	n, err := c.conn.Read(c.buf)
	if err != nil {
		// Try to restore the connection
		if rerr := c.reconnectLocked(); rerr != nil {
			Logger.Errorf("Failed to reconnect to %s: %v", c.endpoint, rerr)
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}

	resp := make([]byte, n)
	copy(resp, c.buf[:n])
	return resp, nil
}

// reconnect establishes or restores the socket
func (c *clientConnection) reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnectLocked()
}

// reconnectLocked is reconnect for callers that already hold c.mu
func (c *clientConnection) reconnectLocked() error {
	// Close the old connection if it exists
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}

	conn, err := net.Dial("udp", c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
	}
	c.conn = conn
	return nil
}
