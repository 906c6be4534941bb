package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client's limiter is kept.
const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors holds one token bucket per client IP.
type visitors struct {
	mu        sync.Mutex
	clients   map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

// newVisitors returns a limiter allowing rps requests per second with the
// given burst per client. A non-positive rps disables limiting.
func newVisitors(rps float64, burst int) *visitors {
	if burst < 1 {
		burst = 1
	}
	return &visitors{
		clients: make(map[string]*visitor),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (v *visitors) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.Sub(v.lastSweep) > visitorTTL {
		for k, c := range v.clients {
			if now.Sub(c.lastSeen) > visitorTTL {
				delete(v.clients, k)
			}
		}
		v.lastSweep = now
	}

	c, exists := v.clients[ip]
	if !exists {
		c = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (v *visitors) middleware(next http.Handler) http.Handler {
	if v.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		if !v.get(ip).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
