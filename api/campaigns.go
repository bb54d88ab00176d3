package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/versalles/versalles/platform"
)

// ListCampaigns serves the public campaign browser.
func (a *API) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	campaigns, err := a.store.Campaigns().List(ctx)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPage(r, campaigns, platform.PageSizeCampaigns))
}

// CreateCampaign opens a new campaign owned by the current user.
func (a *API) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	form, ok := decodeJSON[platform.CampaignForm](w, r)
	if !ok {
		return
	}
	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	campaign := &platform.Campaign{
		ID:          uuid.NewString(),
		OwnerID:     user.ID,
		Title:       form.Title,
		System:      form.System,
		Description: form.Description,
		NextSession: form.NextSession,
		Status:      platform.CampaignStatus(form.Status),
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	if err := a.store.Campaigns().Create(ctx, campaign); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditCampaignCreated, r, user.ID)
	writeJSON(w, http.StatusCreated, campaign)
}

func (a *API) GetCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	campaign, err := a.store.Campaigns().GetByID(ctx, chi.URLParam(r, "campaignID"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// DeleteCampaign removes a campaign. Only the owner may do this.
func (a *API) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	campaignID := chi.URLParam(r, "campaignID")
	campaign, err := a.store.Campaigns().GetByID(ctx, campaignID)
	if err != nil {
		mapError(w, err)
		return
	}
	if campaign.OwnerID != user.ID {
		writeError(w, http.StatusForbidden, "not the campaign owner")
		return
	}

	if err := a.store.Campaigns().Delete(ctx, campaignID); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditCampaignDeleted, r, user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
