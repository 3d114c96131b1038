package client

import (
	"errors"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/store/jstore"
	storetesting "github.com/ValentinKolb/uKV/lib/store/testing"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/server"
	"github.com/ValentinKolb/uKV/rpc/transport/udp"
)

// startServer starts an in memory ukv server and returns its address
func startServer(t *testing.T) string {
	t.Helper()

	s, err := jstore.NewJSONStore[resource.Human](jstore.Options{Path: jstore.MemoryPath})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	config := common.DefaultServerConfig()
	config.Endpoint = "127.0.0.1:0"

	srv, err := server.NewRPCServer[resource.Human](
		config,
		udp.NewUDPServerTransport(),
		s,
		server.NewIStoreServerAdapter[resource.Human](serializer.NewJSONSerializer()),
	)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve()
	}()
	t.Cleanup(func() {
		srv.Shutdown()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("Server did not stop")
		}
	})

	return srv.Addr().String()
}

// newClient creates a client store connected to endpoint
func newClient(t *testing.T, endpoint string) store.IStore[resource.Human] {
	t.Helper()

	tr := udp.NewUDPClientTransport()
	s, err := NewRPCStore[resource.Human](
		common.ClientConfig{
			Endpoints:              []string{endpoint},
			TimeoutSecond:          2,
			RetryCount:             1,
			ConnectionsPerEndpoint: 4,
		},
		tr,
		serializer.NewJSONSerializer(),
	)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return s
}

func TestRPCStore(t *testing.T) {
	storetesting.RunIStoreTests(t, "RPCStore", func(t *testing.T) store.IStore[resource.Human] {
		return newClient(t, startServer(t))
	})
}

func TestRPCStoreInvalidKeys(t *testing.T) {
	s := newClient(t, startServer(t))

	for _, key := range []string{"", "with space", "line\nbreak"} {
		if err := s.Create(key, resource.NewSingle(resource.Human{Name: "A"})); err == nil {
			t.Errorf("Expected key %q to be rejected", key)
		}
	}
}

func TestRPCStoreGetInfo(t *testing.T) {
	s := newClient(t, startServer(t))
	if _, err := s.GetInfo(); err == nil {
		t.Errorf("Expected GetInfo to be unsupported")
	}
}

func TestRPCStoreUnreachable(t *testing.T) {
	// nothing listens on port 1
	s := newClient(t, "127.0.0.1:1")
	_, _, err := s.Read("alice")
	if err == nil {
		t.Fatalf("Expected an error when no server is reachable")
	}
	if errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Expected a transport error, got %v", err)
	}
}

func TestResponseError(t *testing.T) {
	req := common.NewAppendRequest("team", []byte("[]"))

	testCases := []struct {
		resp string
		code store.RetCode
		msg  string
	}{
		{"Error: Key not found: team", store.RetCKeyNotFound, "team"},
		{"Error: Invalid resource type: team", store.RetCInvalidResourceType, "team"},
		{"Error: IO error: disk full", store.RetCIoFailure, "disk full"},
		{"Error: Lock error", store.RetCLockFailure, ""},
		{"Error: store is nil", store.RetCInternalError, "store is nil"},
		{"Invalid data format", store.RetCSerializationFailure, ""},
		{"Unknown command", store.RetCInternalError, ""},
		{"something else", store.RetCInternalError, ""},
	}

	for _, tc := range testCases {
		err := responseError(req, tc.resp)
		var storeErr *store.Error
		if !errors.As(err, &storeErr) {
			t.Errorf("Expected *store.Error for %q, got %T", tc.resp, err)
			continue
		}
		if storeErr.Code != tc.code {
			t.Errorf("Expected code %s for %q, got %s", tc.code, tc.resp, storeErr.Code)
		}
		if tc.msg != "" && storeErr.Msg != tc.msg {
			t.Errorf("Expected message %q for %q, got %q", tc.msg, tc.resp, storeErr.Msg)
		}
	}
}
