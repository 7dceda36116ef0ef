package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"campuseats-be/internal/metrics"
	"campuseats-be/internal/utils"

	"golang.org/x/time/rate"
)

// Rate limit tiers. Payment-adjacent routes get the strict bucket.
const (
	limitStrict = rate.Limit(2)
	burstStrict = 5

	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

const visitorTTL = 3 * time.Minute

// visitor holds a rate limiter and the last time its key was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a limiter per identity and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rejected metrics.Counter
}

// Rejected reports how many requests this limiter has turned away.
func (rl *RateLimiter) Rejected() uint64 {
	return rl.rejected.Load()
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{visitors: make(map[string]*visitor)}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup drops idle entries so the visitor map does not grow without
// bound.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > visitorTTL {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware enforces the per-identity rate limit. Authenticated
// requests are keyed by user id, anonymous ones by IP, so a user keeps
// a single quota across devices.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveRateTier(r)

		var identity string
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			identity = "user:" + userID.String()
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		// The same identity carries separate quotas per tier.
		key := fmt.Sprintf("%s:%s", identity, tier)

		limiter := rl.getVisitor(key, limit, burst)
		if !limiter.Allow() {
			rl.rejected.Inc()
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveRateTier picks the policy for the request path.
func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/auth/"),
		strings.HasSuffix(r.URL.Path, "/checkout"),
		strings.HasSuffix(r.URL.Path, "/tip"):
		return limitStrict, burstStrict, "strict"
	default:
		return limitGeneral, burstGeneral, "general"
	}
}
