package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// ErrServerNotStartable is returned by Serve if the server is running or has
// already served. A server can not be restarted.
var ErrServerNotStartable = errors.New("server can not be started: already running or stopped")

var (
	datagramsReceived  = metrics.GetOrCreateCounter("ukv_datagrams_received_total")
	datagramsRateLimit = metrics.GetOrCreateCounter("ukv_datagrams_rate_limited_total")
	responsesSent      = metrics.GetOrCreateCounter("ukv_responses_sent_total")
	responsesDropped   = metrics.GetOrCreateCounter("ukv_responses_dropped_total")
	requestsInFlight   = metrics.GetOrCreateCounter("ukv_requests_in_flight")
	requestDuration    = metrics.GetOrCreateHistogram("ukv_request_duration_seconds")
	receiveErrors      = metrics.GetOrCreateCounter("ukv_receive_errors_total")
)

// IRPCServer is the interface of the RPC server
type IRPCServer interface {
	// Serve runs the server until Shutdown is called or the socket is closed.
	// It returns nil after a shutdown and the socket error if the socket was
	// closed underneath the server. A server that was shut down before it
	// ever ran returns nil right away. It returns ErrServerNotStartable if the
	// server is already running or has already served.
	Serve() error
	// ServeFor runs Serve and shuts the server down after d.
	// It returns nil when the duration expired.
	ServeFor(d time.Duration) error
	// Shutdown stops the server and cancels all in-flight requests.
	// It does not wait, is idempotent and safe for concurrent use.
	Shutdown()
	// Addr returns the local address the server is bound to
	Addr() net.Addr
}

// server lifecycle states
const (
	stateCreated int32 = iota
	stateRunning
	stateStopped
)

// backoff bounds for repeated receive errors
const (
	minReceiveBackoff = 5 * time.Millisecond
	maxReceiveBackoff = time.Second
)

// response is a reply waiting in the response queue
type response struct {
	data []byte
	addr net.Addr
}

type rpcServer[T comparable] struct {
	config    common.ServerConfig
	transport transport.IRPCServerTransport
	store     store.IStore[T]
	adapter   IRPCServerAdapter[T]
	conn      net.PacketConn
	limiter   *senderRateLimiter

	state        atomic.Int32
	started      atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once

	// cancel funcs of all requests that are currently handled
	inFlight  *xsync.MapOf[uint64, context.CancelFunc]
	nextID    atomic.Uint64
	responses chan response
}

// NewRPCServer creates a new RPC server and binds its socket.
// A bind failure is returned as error.
//
// Usage:
//
//	s, err := server.NewRPCServer[resource.Human](
//		config,
//		udp.NewUDPServerTransport(),
//		store,
//		server.NewIStoreServerAdapter[resource.Human](serializer.NewJSONSerializer()),
//	)
//	if err != nil {
//		return err
//	}
//
//	if err := s.Serve(); err != nil {
//		return err
//	}
func NewRPCServer[T comparable](
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	store store.IStore[T],
	adapter IRPCServerAdapter[T],
) (IRPCServer, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = common.DefaultBufferSize
	}
	if config.QueueSize <= 0 {
		config.QueueSize = common.DefaultQueueSize
	}

	conn, err := transport.Listen(config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	Logger.Infof("Created RPC Server using %s transport", transport.GetName())
	Logger.Infof("%s", config.String())

	return &rpcServer[T]{
		config:    config,
		transport: transport,
		store:     store,
		adapter:   adapter,
		conn:      conn,
		limiter:   newSenderRateLimiter(config.RateLimit, config.RateBurst),
		ctx:       ctx,
		cancel:    cancel,
		inFlight:  xsync.NewMapOf[uint64, context.CancelFunc](),
		responses: make(chan response, config.QueueSize),
	}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IRPCServer)
// --------------------------------------------------------------------------

func (s *rpcServer[T]) Serve() error {
	if !s.state.CompareAndSwap(stateCreated, stateRunning) {
		// shut down before it ever ran, there is nothing to serve
		if s.state.Load() == stateStopped && !s.started.Load() {
			return nil
		}
		return ErrServerNotStartable
	}
	s.started.Store(true)
	defer s.state.Store(stateStopped)
	defer s.conn.Close()

	Logger.Infof("Serving on %s", s.conn.LocalAddr())

	// the single sender owns all writes to the socket
	senderDone := make(chan struct{})
	go func() {
		defer close(senderDone)
		s.sendResponses()
	}()

	// unblock the receive loop once the server is shut down
	stop := context.AfterFunc(s.ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	err := s.receiveRequests()

	s.Shutdown()
	<-senderDone

	Logger.Infof("Server on %s stopped", s.conn.LocalAddr())
	return err
}

func (s *rpcServer[T]) ServeFor(d time.Duration) error {
	timer := time.AfterFunc(d, s.Shutdown)
	defer timer.Stop()
	return s.Serve()
}

func (s *rpcServer[T]) Shutdown() {
	s.shutdownOnce.Do(func() {
		Logger.Infof("Shutting down server on %s", s.conn.LocalAddr())
		s.cancel()

		// cancel every in-flight request instead of waiting for it
		s.inFlight.Range(func(_ uint64, cancel context.CancelFunc) bool {
			cancel()
			return true
		})

		// a server that never ran still owns its socket
		if s.state.CompareAndSwap(stateCreated, stateStopped) {
			_ = s.conn.Close()
		}
	})
}

func (s *rpcServer[T]) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// receiveRequests reads datagrams until the server is shut down.
// It returns nil after a shutdown and an error if the socket was closed.
func (s *rpcServer[T]) receiveRequests() error {
	buf := make([]byte, s.config.BufferSize)
	var backoff time.Duration

	for {
		n, addr, err := s.conn.ReadFrom(buf)

		// Check if we should stop
		if s.ctx.Err() != nil {
			return nil
		}

		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				Logger.Errorf("Socket closed, stopping server: %v", err)
				return fmt.Errorf("failed to receive datagram: %w", err)
			}
			receiveErrors.Inc()

			// back off exponentially while the socket keeps failing
			if backoff == 0 {
				backoff = minReceiveBackoff
			} else if backoff *= 2; backoff > maxReceiveBackoff {
				backoff = maxReceiveBackoff
			}
			Logger.Warningf("Failed to receive datagram, retrying in %s: %v", backoff, err)

			select {
			case <-s.ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		datagramsReceived.Inc()

		if !s.limiter.Allow(addr) {
			datagramsRateLimit.Inc()
			Logger.Debugf("Dropped datagram from %s (rate limited)", addr)
			continue
		}

		// DecodeDatagram copies, buf can be reused right away
		s.handle(common.DecodeDatagram(buf[:n]), addr)
	}
}

// handle processes one request in its own goroutine
func (s *rpcServer[T]) handle(req string, addr net.Addr) {
	id := s.nextID.Add(1)
	ctx, cancel := context.WithCancel(s.ctx)
	s.inFlight.Store(id, cancel)
	requestsInFlight.Inc()

	go func() {
		defer func() {
			s.inFlight.Delete(id)
			cancel()
			requestsInFlight.Dec()
		}()

		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		resp := s.adapter.Handle(req, s.store)
		requestDuration.Update(time.Since(start).Seconds())
		Logger.Debugf("%s: %q -> %q", addr, req, resp)

		// a cancelled request never enqueues its response
		if ctx.Err() != nil {
			responsesDropped.Inc()
			return
		}

		select {
		case s.responses <- response{data: []byte(resp), addr: addr}:
		case <-ctx.Done():
			responsesDropped.Inc()
		}
	}()
}

// sendResponses drains the response queue until the server is shut down
func (s *rpcServer[T]) sendResponses() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case r := <-s.responses:
			if _, err := s.conn.WriteTo(r.data, r.addr); err != nil {
				responsesDropped.Inc()
				if errors.Is(err, net.ErrClosed) {
					Logger.Errorf("Socket closed, stopping response sender: %v", err)
					s.Shutdown()
					return
				}
				Logger.Warningf("Failed to send response to %s: %v", r.addr, err)
				continue
			}
			responsesSent.Inc()
		}
	}
}
