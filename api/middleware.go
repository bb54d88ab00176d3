package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/store"
)

// ResolveUser turns the session the guard decoded into a full user
// record. It fails closed: when the user cannot be resolved the request
// proceeds logged out instead of carrying a half-trusted identity. A
// session naming a user that no longer exists is destroyed on the spot.
// Logged-out requests never touch the store.
func (a *API) ResolveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := sessionFromContext(r.Context())
		if !payload.Valid() {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
		defer cancel()

		user, err := a.store.Users().GetByID(ctx, payload.UserID)
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		case errors.Is(err, store.ErrNotFound):
			// The account is gone but the cookie survived. Destroy it
			// and continue anonymously rather than serving a ghost.
			a.codec.ClearCookie(w)
			a.audit.logEvent(AuditSessionOrphaned, r, payload.UserID)
			next.ServeHTTP(w, r)
		default:
			// A flaky store must not lock logged-in users out of public
			// pages. The cookie stays; next request retries the lookup.
			a.audit.logger.WarnContext(r.Context(), "user resolution failed",
				slog.String("user_id", payload.UserID),
				slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
		}
	})
}

// CurrentUser returns the resolved user for this request, or nil when
// the request is logged out.
func CurrentUser(ctx context.Context) *platform.User {
	user, _ := ctx.Value(userKey).(*platform.User)
	return user
}

// requireUser is for handlers on public paths whose mutations still
// need a login, such as creating a campaign under the browsable
// campaign listing.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (*platform.User, bool) {
	user := CurrentUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, RedirectResponse{
			Error:    "authentication required",
			Location: platform.DefaultLoginPath,
		})
		return nil, false
	}
	return user, true
}
