package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/versalles/versalles/platform"
)

func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	products, err := a.store.Catalog().List(ctx)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPage(r, products, platform.PageSizeWorkshopItems))
}

func (a *API) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	product, err := a.store.Catalog().GetBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// GetWishlist returns the current user's wishlist. Empty is a normal
// state, never an error.
func (a *API) GetWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	wishlist, err := a.store.Wishlists().Get(ctx, user.ID)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wishlist)
}

// AddWishlistItem saves a product. Adding twice is a no-op.
func (a *API) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	product, err := a.store.Catalog().GetBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		mapError(w, err)
		return
	}
	if err := a.store.Wishlists().Add(ctx, user.ID, product.ID); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (a *API) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	product, err := a.store.Catalog().GetBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		mapError(w, err)
		return
	}
	if err := a.store.Wishlists().Remove(ctx, user.ID, product.ID); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
