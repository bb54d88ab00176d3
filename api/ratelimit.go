package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginRateLimit    = 10
	registerRateLimit = 5
	rateLimitWindow   = time.Minute
)

// rateLimiter throttles authentication attempts per client IP using a
// fixed window counter in Redis. Redis trouble fails open: losing the
// limiter must not lock everyone out.
type rateLimiter struct {
	client *redis.Client
}

func newRateLimiter(client *redis.Client) *rateLimiter {
	return &rateLimiter{client: client}
}

// allow increments the counter for (scope, key) and reports whether the
// attempt is within limit for the current window.
func (l *rateLimiter) allow(ctx context.Context, scope, key string, limit int) bool {
	if l == nil || l.client == nil {
		return true
	}
	redisKey := "rl:" + scope + ":" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		slog.Warn("rate limiter unavailable", slog.String("error", err.Error()))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, rateLimitWindow).Err(); err != nil {
			slog.Warn("rate limiter unavailable", slog.String("error", err.Error()))
			return true
		}
	}
	return count <= int64(limit)
}

// allowLogin throttles credential checks for the requesting IP and for
// the targeted account, so a distributed guesser hits the account
// counter even when each IP stays under its own.
func (l *rateLimiter) allowLogin(r *http.Request, identifier string) bool {
	ok := l.allow(r.Context(), "login", clientIP(r), loginRateLimit)
	if identifier != "" {
		ok = l.allow(r.Context(), "login", identifier, loginRateLimit) && ok
	}
	return ok
}

// allowRegister throttles account creation per IP and per email.
func (l *rateLimiter) allowRegister(r *http.Request, identifier string) bool {
	ok := l.allow(r.Context(), "register", clientIP(r), registerRateLimit)
	if identifier != "" {
		ok = l.allow(r.Context(), "register", identifier, registerRateLimit) && ok
	}
	return ok
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
