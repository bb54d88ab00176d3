package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/versalles/versalles/platform"
)

// GetCurrentUser returns the resolved account. The guard protects the
// path, but resolution can still come up empty, so the user is checked
// again here.
func (a *API) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile applies partial profile edits to the current user.
// Identity fields (username, email, role) are immutable here.
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	form, ok := decodeJSON[platform.ProfileUpdateForm](w, r)
	if !ok {
		return
	}
	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	user.Bio = form.Bio
	user.Clan = form.Clan
	user.Genre = form.Genre

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	if err := a.store.Users().Update(ctx, user); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditProfileUpdated, r, user.ID)
	writeJSON(w, http.StatusOK, user)
}

// GetUserByUsername serves public profile pages.
func (a *API) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	user, err := a.store.Users().GetByUsername(ctx, username)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
