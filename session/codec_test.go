package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec([]byte("0123456789abcdef0123456789abcdef"), false)
	require.NoError(t, err)
	return c
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	_, err := NewCodec([]byte("too-short"), false)
	require.ErrorIs(t, err, ErrSecretTooShort)

	_, err = NewCodec(nil, false)
	require.ErrorIs(t, err, ErrSecretTooShort)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	for _, userID := range []string{"u-1", "6467e9d4c0ffee00aa11bb22", "áéíóú"} {
		p := Payload{UserID: userID, LoggedIn: true}
		value, err := c.Encode(p)
		require.NoError(t, err)

		got, ok := c.Decode(value)
		require.True(t, ok)
		assert.Equal(t, p, got)
	}
}

func TestEncodeRefusesLoggedOutPayload(t *testing.T) {
	c := newTestCodec(t)

	_, err := c.Encode(Payload{LoggedIn: true})
	require.Error(t, err)

	_, err = c.Encode(Payload{UserID: "u-1", LoggedIn: false})
	require.Error(t, err)
}

// Any value not produced by Encode must decode to absent, never panic
// and never produce a payload that looks logged in.
func TestDecodeRejectsForeignValues(t *testing.T) {
	c := newTestCodec(t)

	for _, value := range []string{
		"",
		"not-base64!!",
		"AAAA",
		strings.Repeat("A", 512),
		"eyJ1c2VySWQiOiJ1LTEiLCJpc0xvZ2dlZEluIjp0cnVlfQ", // plain base64 JSON, unsealed
	} {
		got, ok := c.Decode(value)
		assert.False(t, ok, "value %q must not decode", value)
		assert.Equal(t, Payload{}, got)
	}
}

func TestDecodeRejectsTamperedValue(t *testing.T) {
	c := newTestCodec(t)
	value, err := c.Encode(Payload{UserID: "u-1", LoggedIn: true})
	require.NoError(t, err)

	tampered := []byte(value)
	tampered[len(tampered)-1] ^= 0x01
	_, ok := c.Decode(string(tampered))
	assert.False(t, ok)
}

func TestDecodeRejectsOtherCodecsValue(t *testing.T) {
	c1 := newTestCodec(t)
	c2, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"), false)
	require.NoError(t, err)

	value, err := c2.Encode(Payload{UserID: "u-1", LoggedIn: true})
	require.NoError(t, err)

	_, ok := c1.Decode(value)
	assert.False(t, ok)
}

func TestCookiesCarryContractAttributes(t *testing.T) {
	c, err := NewCodec([]byte("0123456789abcdef0123456789abcdef"), true)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, c.WriteCookie(rec, Payload{UserID: "u-1", LoggedIn: true}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	// Session-scoped: no Max-Age, no Expires.
	assert.Zero(t, cookie.MaxAge)
	assert.True(t, cookie.Expires.IsZero())
}

func TestClearCookieExpiresSession(t *testing.T) {
	c := newTestCodec(t)

	rec := httptest.NewRecorder()
	c.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestReadCookie(t *testing.T) {
	c := newTestCodec(t)

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, ok, present := c.ReadCookie(r)
		assert.False(t, ok)
		assert.False(t, present)
	})

	t.Run("valid", func(t *testing.T) {
		value, err := c.Encode(Payload{UserID: "u-1", LoggedIn: true})
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: value})

		p, ok, present := c.ReadCookie(r)
		assert.True(t, ok)
		assert.True(t, present)
		assert.Equal(t, "u-1", p.UserID)
	})

	t.Run("forged", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})

		_, ok, present := c.ReadCookie(r)
		assert.False(t, ok)
		assert.True(t, present)
	})
}
