package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/session"
	"github.com/versalles/versalles/store"
	"github.com/versalles/versalles/store/memory"
)

// countingStore wraps a Store and counts user lookups so tests can
// assert the resolver never touches the store for logged-out requests.
type countingStore struct {
	store.Store
	userGets int
}

func (s *countingStore) Users() store.Users {
	return countingUsers{Users: s.Store.Users(), calls: &s.userGets}
}

type countingUsers struct {
	store.Users
	calls *int
}

func (u countingUsers) GetByID(ctx context.Context, id string) (*platform.User, error) {
	*u.calls++
	return u.Users.GetByID(ctx, id)
}

func newResolverAPI(t *testing.T) (*API, *countingStore, *session.Codec) {
	t.Helper()
	codec, err := session.NewCodec([]byte(strings.Repeat("k", 32)), false)
	require.NoError(t, err)
	st := &countingStore{Store: memory.New()}
	return New(st, codec, nil, nil), st, codec
}

func resolverHandler(a *API) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := CurrentUser(r.Context()); user != nil {
			w.Write([]byte(user.Username))
			return
		}
		w.Write([]byte("anonymous"))
	})
	return a.Guard(a.ResolveUser(inner))
}

func sessionCookie(t *testing.T, codec *session.Codec, userID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, codec.WriteCookie(rec, session.Payload{UserID: userID, LoggedIn: true}))
	return rec.Result().Cookies()[0]
}

func TestResolveUserSuccess(t *testing.T) {
	a, st, codec := newResolverAPI(t)

	user := &platform.User{ID: "u1", Username: "alice", Email: "a@b.com", CreatedAt: time.Now()}
	require.NoError(t, st.Store.Users().Create(context.Background(), user))

	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	req.AddCookie(sessionCookie(t, codec, "u1"))
	rec := httptest.NewRecorder()
	resolverHandler(a).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
	assert.Equal(t, 1, st.userGets)
}

func TestResolveUserSkipsStoreWhenLoggedOut(t *testing.T) {
	a, st, _ := newResolverAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	rec := httptest.NewRecorder()
	resolverHandler(a).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Zero(t, st.userGets)
}

func TestResolveUserDestroysOrphanedSession(t *testing.T) {
	a, _, codec := newResolverAPI(t)

	// Session names a user the store has never seen.
	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	req.AddCookie(sessionCookie(t, codec, "gone"))
	rec := httptest.NewRecorder()
	resolverHandler(a).ServeHTTP(rec, req)

	// Public page still serves anonymously, but the dead cookie is
	// expired so it does not come back on the next request.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestResolveUserFailsClosedOnStoreError(t *testing.T) {
	codec, err := session.NewCodec([]byte(strings.Repeat("k", 32)), false)
	require.NoError(t, err)
	a := New(failingStore{}, codec, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	req.AddCookie(sessionCookie(t, codec, "u1"))
	rec := httptest.NewRecorder()
	resolverHandler(a).ServeHTTP(rec, req)

	// A store outage degrades the request to anonymous instead of
	// blocking public pages. The cookie is kept for a later retry.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

// failingStore errors every user lookup.
type failingStore struct {
	store.Store
}

func (failingStore) Users() store.Users { return failingUsers{} }

type failingUsers struct {
	store.Users
}

func (failingUsers) GetByID(context.Context, string) (*platform.User, error) {
	return nil, context.DeadlineExceeded
}
