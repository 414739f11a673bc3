package server

import (
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleExpiry = 2 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter keeps one token bucket per client address
type loginLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	limit    rate.Limit
	burst    int
	clients  map[string]*clientLimiter
	now      func() time.Time
}

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	interval := time.Minute / time.Duration(perMinute)
	return &loginLimiter{
		interval: interval,
		limit:    rate.Every(interval),
		burst:    burst,
		clients:  make(map[string]*clientLimiter),
		now:      time.Now,
	}
}

func (l *loginLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterIdleExpiry {
			delete(l.clients, key)
		}
	}

	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *loginLimiter) RetryAfterSeconds() int {
	return int(math.Ceil(l.interval.Seconds()))
}

// clientAddress is the remote IP of the connection. Forwarding headers are not trusted.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
