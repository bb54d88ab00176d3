package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func loginRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = ip + ":54321"
	return req
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	_, client := newTestRedis(t)
	l := newRateLimiter(client)

	for i := 0; i < loginRateLimit; i++ {
		assert.True(t, l.allowLogin(loginRequest("10.0.0.1"), ""), "attempt %d", i+1)
	}
	assert.False(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
}

func TestRateLimiterIsPerIP(t *testing.T) {
	_, client := newTestRedis(t)
	l := newRateLimiter(client)

	for i := 0; i < loginRateLimit; i++ {
		require.True(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
	}
	assert.False(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
	assert.True(t, l.allowLogin(loginRequest("10.0.0.2"), ""))
}

func TestRateLimiterIsPerIdentifierToo(t *testing.T) {
	_, client := newTestRedis(t)
	l := newRateLimiter(client)

	// One account hammered from many IPs still trips the account counter.
	for i := 0; i < loginRateLimit; i++ {
		require.True(t, l.allowLogin(loginRequest(fmt.Sprintf("10.0.%d.1", i)), "alvo@versalles.com.br"))
	}
	assert.False(t, l.allowLogin(loginRequest("10.0.99.1"), "alvo@versalles.com.br"))
	assert.True(t, l.allowLogin(loginRequest("10.0.99.2"), "outra@versalles.com.br"))
}

func TestRateLimiterWindowExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	l := newRateLimiter(client)

	for i := 0; i < loginRateLimit; i++ {
		require.True(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
	}
	require.False(t, l.allowLogin(loginRequest("10.0.0.1"), ""))

	mr.FastForward(rateLimitWindow)
	assert.True(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
}

func TestRateLimiterScopesAreIndependent(t *testing.T) {
	_, client := newTestRedis(t)
	l := newRateLimiter(client)

	for i := 0; i < registerRateLimit; i++ {
		require.True(t, l.allowRegister(loginRequest("10.0.0.1"), ""))
	}
	assert.False(t, l.allowRegister(loginRequest("10.0.0.1"), ""))
	assert.True(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
}

func TestRateLimiterFailsOpenWithoutRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	l := newRateLimiter(client)

	for i := 0; i < loginRateLimit*2; i++ {
		assert.True(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
	}
}

func TestRateLimiterNilIsNoop(t *testing.T) {
	var l *rateLimiter
	assert.True(t, l.allowLogin(loginRequest("10.0.0.1"), ""))
}
