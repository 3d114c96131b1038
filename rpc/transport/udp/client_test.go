package udp

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/rpc/common"
)

// startEchoServer starts a udp server that answers every datagram with
// reply(request). Replies are sent from a separate goroutine per datagram.
func startEchoServer(t *testing.T, reply func(req string) (string, time.Duration)) string {
	t.Helper()

	conn, err := NewUDPServerTransport().Listen(common.ServerConfig{Endpoint: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buf := make([]byte, 2048)
		for {
			n, addr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			req := string(buf[:n])
			go func(req string, addr net.Addr) {
				resp, delay := reply(req)
				time.Sleep(delay)
				_, _ = conn.WriteTo([]byte(resp), addr)
			}(req, addr)
		}
	}()

	return conn.LocalAddr().String()
}

func newTestClient(t *testing.T, config common.ClientConfig) *clientTransport {
	t.Helper()
	c := NewUDPClientTransport().(*clientTransport)
	if err := c.Connect(config); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSend(t *testing.T) {
	endpoint := startEchoServer(t, func(req string) (string, time.Duration) {
		return strings.ToUpper(req), 0
	})

	c := newTestClient(t, common.ClientConfig{
		Endpoints:              []string{endpoint},
		TimeoutSecond:          2,
		RetryCount:             1,
		ConnectionsPerEndpoint: 3,
	})

	for _, req := range []string{"read alice", "delete bob", "append team [1]"} {
		resp, err := c.Send([]byte(req))
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if string(resp) != strings.ToUpper(req) {
			t.Errorf("Expected %q, got %q", strings.ToUpper(req), resp)
		}
	}
}

func TestSendTimeoutDropsLateReply(t *testing.T) {
	endpoint := startEchoServer(t, func(req string) (string, time.Duration) {
		if req == "slow" {
			return "slow reply", 1500 * time.Millisecond
		}
		return req, 0
	})

	c := newTestClient(t, common.ClientConfig{
		Endpoints:     []string{endpoint},
		TimeoutSecond: 1,
		RetryCount:    1,
	})

	if _, err := c.Send([]byte("slow")); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}

	// wait until the late reply was sent
	time.Sleep(700 * time.Millisecond)

	resp, err := c.Send([]byte("fast"))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp) != "fast" {
		t.Errorf("Expected the reply to the second request, got %q", resp)
	}
}

func TestConnectWithoutEndpoints(t *testing.T) {
	if err := NewUDPClientTransport().Connect(common.ClientConfig{}); err == nil {
		t.Errorf("Expected an error without endpoints")
	}
}

func TestSendAfterClose(t *testing.T) {
	endpoint := startEchoServer(t, func(req string) (string, time.Duration) { return req, 0 })

	c := NewUDPClientTransport()
	if err := c.Connect(common.ClientConfig{Endpoints: []string{endpoint}}); err != nil {
		t.Fatal(err)
	}
	_ = c.Close()

	if _, err := c.Send([]byte("read a")); err == nil {
		t.Errorf("Expected Send to fail after Close")
	}
}

func TestListenBindFailure(t *testing.T) {
	first, err := NewUDPServerTransport().Listen(common.ServerConfig{Endpoint: "127.0.0.1:0"})
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()

	if _, err := NewUDPServerTransport().Listen(common.ServerConfig{Endpoint: first.LocalAddr().String()}); err == nil {
		t.Errorf("Expected binding an address in use to fail")
	}
}
