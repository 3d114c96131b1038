package server

import (
	"net"
	"testing"
)

func TestSenderRateLimiter(t *testing.T) {
	l := newSenderRateLimiter(0.001, 3)

	alice := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 1000}
	aliceOtherPort := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 2000}
	bob := &net.UDPAddr{IP: net.ParseIP("10.0.0.2"), Port: 1000}

	for i := 0; i < 3; i++ {
		if !l.Allow(alice) {
			t.Fatalf("Expected datagram %d within the burst to be allowed", i)
		}
	}
	if l.Allow(alice) {
		t.Errorf("Expected datagram after the burst to be limited")
	}
	if l.Allow(aliceOtherPort) {
		t.Errorf("Expected the limit to apply per ip, not per port")
	}
	if !l.Allow(bob) {
		t.Errorf("Expected another sender to have its own bucket")
	}
}

func TestSenderRateLimiterDisabled(t *testing.T) {
	l := newSenderRateLimiter(0, 10)
	if l != nil {
		t.Fatalf("Expected no limiter for a rate of 0")
	}

	addr := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 1000}
	for i := 0; i < 100; i++ {
		if !l.Allow(addr) {
			t.Fatalf("Expected a nil limiter to allow everything")
		}
	}
}

func TestSenderIP(t *testing.T) {
	if ip := senderIP(&net.UDPAddr{IP: net.ParseIP("::1"), Port: 9}); ip != "::1" {
		t.Errorf("Expected ::1, got %s", ip)
	}
	if ip := senderIP(&net.TCPAddr{IP: net.ParseIP("192.168.1.1"), Port: 9}); ip != "192.168.1.1" {
		t.Errorf("Expected 192.168.1.1, got %s", ip)
	}
}
