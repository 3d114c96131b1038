package server

import (
	"net"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/time/rate"
)

const (
	// limiterCacheSize is the number of senders whose token buckets are kept
	limiterCacheSize = 1000
	// limiterExpiry is how long an idle sender keeps its token bucket
	limiterExpiry = 24 * time.Hour
)

// senderRateLimiter keeps one token bucket per sender ip in an LRU cache
type senderRateLimiter struct {
	mu    sync.Mutex
	cache gcache.Cache
	r     rate.Limit
	b     int
}

// newSenderRateLimiter creates a limiter allowing r datagrams per second with
// bursts of b per sender. It returns nil if r <= 0 (no limit).
func newSenderRateLimiter(r float64, b int) *senderRateLimiter {
	if r <= 0 {
		return nil
	}
	if b < 1 {
		b = 1
	}
	return &senderRateLimiter{
		cache: gcache.New(limiterCacheSize).LRU().Build(),
		r:     rate.Limit(r),
		b:     b,
	}
}

// Allow reports whether a datagram from addr may be handled now.
// A nil limiter allows everything.
func (l *senderRateLimiter) Allow(addr net.Addr) bool {
	if l == nil {
		return true
	}
	return l.getLimiter(senderIP(addr)).Allow()
}

// getLimiter returns the token bucket of ip, creating it if needed
func (l *senderRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, err := l.cache.Get(ip); err == nil {
		return cached.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.r, l.b)
	_ = l.cache.SetWithExpire(ip, limiter, limiterExpiry)
	return limiter
}

// senderIP returns the ip of addr without the port
func senderIP(addr net.Addr) string {
	if udpAddr, ok := addr.(*net.UDPAddr); ok {
		return udpAddr.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
