package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/versalles/versalles/platform"
)

func (a *API) ListGuilds(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	guilds, err := a.store.Guilds().List(ctx)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPage(r, guilds, platform.PageSizeGuilds))
}

// CreateGuild founds a guild with the current user as owner.
func (a *API) CreateGuild(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	form, ok := decodeJSON[platform.GuildForm](w, r)
	if !ok {
		return
	}
	if err := platform.Validate(form); err != nil {
		mapError(w, err)
		return
	}

	now := time.Now().UTC()
	guild := &platform.Guild{
		ID:          uuid.NewString(),
		Name:        form.Name,
		Tag:         form.Tag,
		Description: form.Description,
		Private:     form.Private,
		AvatarURL:   platform.DefaultGuildAvatarURL,
		Members: []platform.GuildMembership{
			{UserID: user.ID, Role: platform.GuildOwner, JoinedAt: now},
		},
		CreatedAt: now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	if err := a.store.Guilds().Create(ctx, guild); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditGuildCreated, r, user.ID)
	writeJSON(w, http.StatusCreated, guild)
}

func (a *API) GetGuild(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	guild, err := a.store.Guilds().GetByID(ctx, chi.URLParam(r, "guildID"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guild)
}

// JoinGuild adds the current user as a member. Private guilds cannot be
// joined directly.
func (a *API) JoinGuild(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")
	guild, err := a.store.Guilds().GetByID(ctx, guildID)
	if err != nil {
		mapError(w, err)
		return
	}
	if guild.Private {
		writeError(w, http.StatusForbidden, "guild is invite only")
		return
	}

	member := platform.GuildMembership{
		UserID:   user.ID,
		Role:     platform.GuildMember,
		JoinedAt: time.Now().UTC(),
	}
	if err := a.store.Guilds().AddMember(ctx, guildID, member); err != nil {
		mapError(w, err)
		return
	}
	a.audit.logEvent(AuditGuildJoined, r, user.ID)
	writeJSON(w, http.StatusOK, member)
}
