package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/session"
	"github.com/versalles/versalles/store"
)

// Login authenticates against the identity provider, resolves the
// local account for the provider UID, and mints a session cookie.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeJSON[platform.LoginForm](w, r)
	if !ok {
		return
	}
	form.Normalize()

	if a.limiter != nil && !a.limiter.allowLogin(r, form.Email) {
		a.audit.logFailure(AuditLoginRateLimited, r, "too many attempts")
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	account, err := a.provider.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		a.audit.logFailure(AuditLoginFailure, r, "provider rejected credentials")
		mapError(w, err)
		return
	}

	user, err := a.store.Users().GetByProviderUID(ctx, account.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Credentials exist upstream but the local half of the
			// account never materialized. Refuse the login rather
			// than minting a session for a user record we don't have.
			a.audit.logFailure(AuditLoginFailure, r, "no local account for provider uid")
			writeError(w, http.StatusUnauthorized, "account incomplete, please register again")
			return
		}
		mapError(w, err)
		return
	}

	if err := a.startSession(w, user); err != nil {
		mapError(w, err)
		return
	}
	writeCSRFCookie(w, r)
	a.audit.logEvent(AuditLoginSuccess, r, user.ID)
	writeJSON(w, http.StatusOK, SessionResponse{LoggedIn: true, User: user})
}

// Register runs the two-phase signup. Phase one creates the credential
// account at the provider; phase two creates the local user. If phase
// two fails the provider account is deleted again so the email is not
// burned. Compensation is best effort: when it also fails, the orphan
// is logged loudly and the client is told to retry login later.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeJSON[platform.RegisterForm](w, r)
	if !ok {
		return
	}
	form.Normalize()

	if a.limiter != nil && !a.limiter.allowRegister(r, form.Email) {
		a.audit.logFailure(AuditLoginRateLimited, r, "too many registrations")
		writeError(w, http.StatusTooManyRequests, "too many registration attempts")
		return
	}

	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	// Local preconditions first: a taken username should not cost a
	// provider round trip, and must not leave a credential behind.
	if _, err := a.store.Users().GetByUsername(ctx, form.Username); err == nil {
		mapError(w, store.ErrDuplicate)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		mapError(w, err)
		return
	}

	account, err := a.provider.SignUp(ctx, form.Email, form.Password)
	if err != nil {
		a.audit.logFailure(AuditRegisterFailure, r, "provider signup failed")
		mapError(w, err)
		return
	}

	user := &platform.User{
		ID:          uuid.NewString(),
		ProviderUID: account.UID,
		Username:    form.Username,
		Email:       form.Email,
		Role:        platform.RoleJogador,
		AvatarURL:   platform.DefaultAvatarURL,
		CreatedAt:   time.Now().UTC(),
	}

	if err := a.store.Users().Create(ctx, user); err != nil {
		a.compensateRegistration(r, account.UID, err)
		mapError(w, err)
		return
	}

	if err := a.startSession(w, user); err != nil {
		mapError(w, err)
		return
	}
	writeCSRFCookie(w, r)
	a.audit.logEvent(AuditRegister, r, user.ID)
	writeJSON(w, http.StatusCreated, SessionResponse{LoggedIn: true, User: user})
}

// compensateRegistration unwinds the provider half of a failed signup.
// The compensation context is detached from the request so a client
// disconnect cannot abandon the cleanup.
func (a *API) compensateRegistration(r *http.Request, providerUID string, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), resolveTimeout)
	defer cancel()

	if err := a.provider.DeleteAccount(ctx, providerUID); err != nil {
		a.audit.logFailure(AuditRegisterOrphaned, r, "compensation failed",
			slog.String("provider_uid", providerUID),
			slog.String("cause", cause.Error()),
			slog.String("compensation_error", err.Error()))
		return
	}
	a.audit.logFailure(AuditRegisterCompensated, r, cause.Error(),
		slog.String("provider_uid", providerUID))
}

// MintSession exchanges a provider ID token for a session cookie. This
// serves clients that authenticated with the provider directly and
// only need the platform half of the handshake.
func (a *API) MintSession(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeJSON[platform.MintSessionForm](w, r)
	if !ok {
		return
	}
	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	uid, err := a.verifier.Verify(form.IDToken)
	if err != nil {
		a.audit.logFailure(AuditSessionRejected, r, "token verification failed")
		mapError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	user, err := a.store.Users().GetByProviderUID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.audit.logFailure(AuditSessionRejected, r, "no local account for provider uid")
			writeError(w, http.StatusUnauthorized, "account incomplete, please register again")
			return
		}
		mapError(w, err)
		return
	}

	if err := a.startSession(w, user); err != nil {
		mapError(w, err)
		return
	}
	writeCSRFCookie(w, r)
	a.audit.logEvent(AuditSessionMinted, r, user.ID)
	writeJSON(w, http.StatusOK, SessionResponse{LoggedIn: true, User: user})
}

// Logout destroys the session. Idempotent: logging out logged out is
// still a success.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	payload := sessionFromContext(r.Context())
	a.codec.ClearCookie(w)
	clearCSRFCookie(w, r)
	if payload.Valid() {
		a.audit.logEvent(AuditLogout, r, payload.UserID)
	}
	writeJSON(w, http.StatusOK, SessionResponse{LoggedIn: false})
}

// SessionStatus reports whether the caller is logged in, with the
// resolved user when they are.
func (a *API) SessionStatus(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, SessionResponse{LoggedIn: false})
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{LoggedIn: true, User: user})
}

func (a *API) startSession(w http.ResponseWriter, user *platform.User) error {
	return a.codec.WriteCookie(w, session.Payload{UserID: user.ID, LoggedIn: true})
}
