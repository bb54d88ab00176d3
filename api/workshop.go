package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/versalles/versalles/platform"
)

// ListWorkshopItems serves the community marketplace. Anonymous
// browsing only sees approved items; a status filter is honored for
// the item's author view.
func (a *API) ListWorkshopItems(w http.ResponseWriter, r *http.Request) {
	status := platform.WorkshopApproved
	var author *platform.User
	if s := r.URL.Query().Get("status"); s != "" {
		status = platform.WorkshopStatus(s)
		switch status {
		case platform.WorkshopPending, platform.WorkshopApproved, platform.WorkshopRejected:
		default:
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		// Pending and rejected listings show a user their own
		// submissions only.
		if status != platform.WorkshopApproved {
			user, ok := a.requireUser(w, r)
			if !ok {
				return
			}
			author = user
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	items, err := a.store.Workshop().List(ctx, status)
	if err != nil {
		mapError(w, err)
		return
	}
	if author != nil {
		own := items[:0]
		for _, item := range items {
			if item.AuthorID == author.ID {
				own = append(own, item)
			}
		}
		items = own
	}
	writeJSON(w, http.StatusOK, listPage(r, items, platform.PageSizeWorkshopItems))
}

// CreateWorkshopItem submits an item for moderation. New items always
// start pending regardless of what the client sends.
func (a *API) CreateWorkshopItem(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	form, ok := decodeJSON[platform.WorkshopItemForm](w, r)
	if !ok {
		return
	}
	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	item := &platform.WorkshopItem{
		ID:          uuid.NewString(),
		AuthorID:    user.ID,
		Title:       form.Title,
		Description: form.Description,
		System:      form.System,
		Type:        form.Type,
		PriceCents:  form.PriceCents,
		Status:      platform.WorkshopPending,
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	if err := a.store.Workshop().Create(ctx, item); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditWorkshopSubmitted, r, user.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) GetWorkshopItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	item, err := a.store.Workshop().GetByID(ctx, chi.URLParam(r, "itemID"))
	if err != nil {
		mapError(w, err)
		return
	}
	// Unapproved items are visible to their author only.
	if item.Status != platform.WorkshopApproved {
		user := CurrentUser(r.Context())
		if user == nil || user.ID != item.AuthorID {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
	}
	writeJSON(w, http.StatusOK, item)
}
