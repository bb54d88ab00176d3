package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versalles/versalles/session"
)

func TestRouteTableClassify(t *testing.T) {
	table := DefaultRouteTable()

	cases := []struct {
		path string
		want RouteClass
	}{
		{"/", RoutePublic},
		{"/campaigns", RoutePublic},
		{"/campaigns/abc", RoutePublic},
		{"/auth/login", RouteAuthOnly},
		{"/auth/session", RoutePublic},
		{"/users", RoutePublic},
		{"/users/alice", RoutePublic},
		{"/users/me", RouteProtected},
		{"/wishlist", RouteProtected},
		{"/wishlist/some-slug", RouteProtected},
		// Anything not listed is gated until someone opens it up.
		{"/unknown/path", RouteProtected},
		{"/admin/moderation", RouteProtected},
		{"/wishlist/", RouteProtected},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, table.Classify(tc.path), "path %q", tc.path)
	}
}

func TestRouteTableLongestPrefixWins(t *testing.T) {
	table := NewRouteTable(RoutePublic)
	table.Prefix("/a", RouteProtected)
	table.Prefix("/a/b", RoutePublic)
	table.Prefix("/a/b/c", RouteProtected)

	assert.Equal(t, RouteProtected, table.Classify("/a"))
	assert.Equal(t, RouteProtected, table.Classify("/a/x"))
	assert.Equal(t, RoutePublic, table.Classify("/a/b"))
	assert.Equal(t, RoutePublic, table.Classify("/a/b/x"))
	assert.Equal(t, RouteProtected, table.Classify("/a/b/c"))
	assert.Equal(t, RouteProtected, table.Classify("/a/b/c/deep"))

	// Prefixes match whole segments only.
	assert.Equal(t, RoutePublic, table.Classify("/ab"))
}

func TestRouteTableExactBeatsPrefix(t *testing.T) {
	table := NewRouteTable(RouteProtected)
	table.Prefix("/settings", RouteProtected)
	table.Exact("/settings/help", RoutePublic)

	assert.Equal(t, RoutePublic, table.Classify("/settings/help"))
	assert.Equal(t, RouteProtected, table.Classify("/settings/help/deep"))
	assert.Equal(t, RouteProtected, table.Classify("/settings"))
}

func TestRouteTableRootIsExactOnly(t *testing.T) {
	table := NewRouteTable(RouteProtected)
	table.Exact("/", RoutePublic)

	assert.Equal(t, RoutePublic, table.Classify("/"))
	assert.Equal(t, RouteProtected, table.Classify("/anything"))
}

func newGuardAPI(t *testing.T) (*API, *session.Codec) {
	t.Helper()
	codec, err := session.NewCodec([]byte(strings.Repeat("k", 32)), false)
	require.NoError(t, err)
	return New(nil, codec, nil, nil), codec
}

func guardedHandler(a *API) http.Handler {
	return a.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGuardProtectedWithoutSession(t *testing.T) {
	a, _ := newGuardAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	rec := httptest.NewRecorder()
	guardedHandler(a).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "/login")
}

func TestGuardProtectedWithSession(t *testing.T) {
	a, codec := newGuardAPI(t)

	rec := httptest.NewRecorder()
	require.NoError(t, codec.WriteCookie(rec, session.Payload{UserID: "u1", LoggedIn: true}))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	guardedHandler(a).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardAuthOnlyWithSession(t *testing.T) {
	a, codec := newGuardAPI(t)

	rec := httptest.NewRecorder()
	require.NoError(t, codec.WriteCookie(rec, session.Payload{UserID: "u1", LoggedIn: true}))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	guardedHandler(a).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already authenticated")
}

func TestGuardAuthOnlyWithoutSession(t *testing.T) {
	a, _ := newGuardAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	guardedHandler(a).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardClearsUndecodableCookie(t *testing.T) {
	a, _ := newGuardAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	guardedHandler(a).ServeHTTP(rec, req)

	// Public route still serves, but the bad cookie is expired.
	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestGuardForgedCookieIsLoggedOut(t *testing.T) {
	a, _ := newGuardAPI(t)

	// A cookie sealed under a different secret must not grant access.
	otherCodec, err := session.NewCodec([]byte(strings.Repeat("x", 32)), false)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, otherCodec.WriteCookie(rec, session.Payload{UserID: "u1", LoggedIn: true}))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	guardedHandler(a).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
