package http

import (
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CORS allows cross-origin requests from the configured origins. A "*" entry
// allows every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := slices.Contains(allowedOrigins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || slices.Contains(allowedOrigins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join([]string{
					http.MethodGet, http.MethodPost, http.MethodOptions,
				}, ", "))
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientLimiter hands out one token bucket per client IP. Buckets left idle
// long enough to refill completely are dropped, since a fresh bucket behaves
// the same way.
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	clients   map[string]*limitedClient
}

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	minLimiterIdle = time.Minute
	maxLimiterIdle = 24 * time.Hour
)

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	idle := maxLimiterIdle
	if refill := float64(burst) / float64(limit); refill < maxLimiterIdle.Seconds() {
		idle = max(time.Duration(refill*float64(time.Second)), minLimiterIdle)
	}
	return &clientLimiter{
		limit:   limit,
		burst:   burst,
		idle:    idle,
		now:     time.Now,
		clients: map[string]*limitedClient{},
	}
}

func (c *clientLimiter) allow(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= c.idle {
		for key, client := range c.clients {
			if now.Sub(client.lastSeen) >= c.idle {
				delete(c.clients, key)
			}
		}
		c.lastSweep = now
	}

	client, ok := c.clients[ip]
	if !ok {
		client = &limitedClient{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// clientIP returns the address the request came from. X-Forwarded-For is only
// consulted when the peer is one of the trusted proxies, and then the rightmost
// hop that is not itself a trusted proxy wins.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if len(trusted) == 0 || !isTrusted(host, trusted) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		if !isTrusted(hop, trusted) {
			return hop
		}
	}
	return host
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// RateLimit rejects requests with 429 once a client exceeds limit requests per
// second with the given burst. A non-positive limit disables limiting.
func RateLimit(limit rate.Limit, burst int, trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	clients := newClientLimiter(limit, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !clients.allow(clientIP(r, trustedProxies)) {
				writeError(w, http.StatusTooManyRequests, "too many submissions, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
