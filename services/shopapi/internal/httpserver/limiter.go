package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
	idle     time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows perMinute attempts per IP with an equal burst.
// perMinute <= 0 disables throttling.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	if perMinute <= 0 {
		return &LoginLimiter{limit: rate.Inf}
	}
	return &LoginLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		visitors: map[string]*visitor{},
		idle:     10 * time.Minute,
	}
}

func (ll *LoginLimiter) allow(ip string) bool {
	if ll.limit == rate.Inf {
		return true
	}
	ll.mu.Lock()
	defer ll.mu.Unlock()

	now := time.Now()
	for k, v := range ll.visitors {
		if now.Sub(v.lastSeen) > ll.idle {
			delete(ll.visitors, k)
		}
	}
	v, ok := ll.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(ll.limit, ll.burst)}
		ll.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func (ll *LoginLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !ll.allow(c.RealIP()) {
			return c.JSON(http.StatusTooManyRequests, transport.ErrorResponse{Error: "Too many login attempts. Try again later."})
		}
		return next(c)
	}
}
