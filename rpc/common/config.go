package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// Default values for the server configuration
const (
	DefaultEndpoint   = "127.0.0.1:8080"
	DefaultBufferSize = 1024
	DefaultQueueSize  = 1024
	DefaultRateBurst  = 10
	DefaultLogLevel   = "info"
)

// ServerConfig holds all configuration parameters for the ukv server.
type ServerConfig struct {
	// UDP address the server binds to
	Endpoint string

	// Snapshot file, ":memory:" disables persistence
	DataFile string
	// Write the snapshot to a temporary file and rename it
	AtomicSnapshot bool

	// Size of the receive buffer, longer datagrams are truncated
	BufferSize int
	// Capacity of the response queue between handlers and the sender
	QueueSize int
	// Reject payloads with unknown fields or trailing data
	StrictJSON bool
	// Socket level read and write buffer sizes in bytes (0 = OS default)
	SocketReadBuffer  int
	SocketWriteBuffer int

	// Stop the server after this duration (0 = run until shutdown)
	RunFor time.Duration

	// Per sender rate limit in datagrams per second (<= 0 = off)
	RateLimit float64
	RateBurst int

	// Address of the prometheus metrics endpoint ("" = off)
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
	LogFile  string
}

// DefaultServerConfig returns a configuration with all defaults applied
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Endpoint:   DefaultEndpoint,
		DataFile:   "db.json",
		BufferSize: DefaultBufferSize,
		QueueSize:  DefaultQueueSize,
		RateBurst:  DefaultRateBurst,
		LogLevel:   DefaultLogLevel,
	}
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orOff := func(s string) string {
		if s == "" {
			return "off"
		}
		return s
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Buffer Size", fmt.Sprintf("%d bytes", c.BufferSize))
	addField("Queue Size", strconv.Itoa(c.QueueSize))
	addField("Strict JSON", fmt.Sprintf("%t", c.StrictJSON))
	if c.RunFor > 0 {
		addField("Run For", c.RunFor.String())
	} else {
		addField("Run For", "until shutdown")
	}

	// Rate limiting
	addSection("Rate Limit")
	if c.RateLimit > 0 {
		addField("Datagrams Per Second", strconv.FormatFloat(c.RateLimit, 'f', -1, 64))
		addField("Burst", strconv.Itoa(c.RateBurst))
	} else {
		addField("Rate Limit", "off")
	}

	// Storage
	addSection("Storage")
	addField("Data File", c.DataFile)
	addField("Atomic Snapshot", fmt.Sprintf("%t", c.AtomicSnapshot))

	// Observability
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Log File", orOff(c.LogFile))
	addField("Metrics Endpoint", orOff(c.MetricsEndpoint))

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints              []string
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int
	// Size of the buffer a reply is read into, longer replies are truncated
	ReadBufferSize int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.ReadBufferSize))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
