package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubProvider(t *testing.T, handler http.HandlerFunc) *RESTProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTProvider(srv.URL, "test-key")
}

func TestRESTProviderSignIn(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signIn", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req credentialRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "INVALID_PASSWORD"})
			return
		}
		_ = json.NewEncoder(w).Encode(accountResponse{UID: "uid-1", Email: req.Email, IDToken: "tok"})
	})

	account, err := p.SignIn(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", account.UID)
	assert.Equal(t, "tok", account.IDToken)

	_, err = p.SignIn(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRESTProviderSignUpClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"email exists", http.StatusConflict, "EMAIL_EXISTS", ErrEmailInUse},
		{"weak password", http.StatusBadRequest, "WEAK_PASSWORD", ErrWeakPassword},
		{"bad email", http.StatusBadRequest, "INVALID_EMAIL", ErrInvalidEmail},
		{"server error", http.StatusInternalServerError, "", ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": tc.code})
			})
			_, err := p.SignUp(context.Background(), "a@b.com", "pw")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRESTProviderDeleteAccount(t *testing.T) {
	var gotUID string
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:delete", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotUID = req["uid"]
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, p.DeleteAccount(context.Background(), "uid-9"))
	assert.Equal(t, "uid-9", gotUID)
}

func TestRESTProviderUnreachable(t *testing.T) {
	p := NewRESTProvider("http://127.0.0.1:1", "test-key")
	p.client.Timeout = 200 * time.Millisecond

	_, err := p.SignIn(context.Background(), "a@b.com", "pw")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTokenVerifier(t *testing.T) {
	secret := []byte("token-secret")
	v := NewTokenVerifier(secret)

	tok, err := MintToken(secret, "uid-42", time.Minute)
	require.NoError(t, err)

	uid, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-42", uid)

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := MintToken([]byte("other-secret-entirely"), "uid-42", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		stale, err := MintToken(secret, "uid-42", -time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(stale)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok, err := MintToken(secret, "", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
