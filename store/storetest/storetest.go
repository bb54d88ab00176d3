// Package storetest provides a conformance suite that every store.Store
// backend must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/store"
)

// Run exercises the full store.Store contract against a fresh backend
// produced by newStore.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Campaigns", func(t *testing.T) { testCampaigns(t, newStore(t)) })
	t.Run("Forums", func(t *testing.T) { testForums(t, newStore(t)) })
	t.Run("Guilds", func(t *testing.T) { testGuilds(t, newStore(t)) })
	t.Run("Workshop", func(t *testing.T) { testWorkshop(t, newStore(t)) })
	t.Run("Catalog", func(t *testing.T) { testCatalog(t, newStore(t)) })
	t.Run("Wishlists", func(t *testing.T) { testWishlists(t, newStore(t)) })
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	user := &platform.User{
		ID:          "u-1",
		ProviderUID: "prov-1",
		Username:    "mestre_ana",
		Email:       "ana@example.com",
		Role:        platform.RoleMestre,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, users.Create(ctx, user))

	got, err := users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "mestre_ana", got.Username)

	got, err = users.GetByUsername(ctx, "mestre_ana")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	got, err = users.GetByProviderUID(ctx, "prov-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = users.GetByUsername(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	t.Run("DuplicateKeys", func(t *testing.T) {
		dup := &platform.User{ID: "u-2", ProviderUID: "prov-2", Username: "mestre_ana", Email: "other@example.com"}
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrDuplicate)

		dup = &platform.User{ID: "u-2", ProviderUID: "prov-2", Username: "other", Email: "ana@example.com"}
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrDuplicate)

		dup = &platform.User{ID: "u-2", ProviderUID: "prov-1", Username: "other", Email: "other@example.com"}
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrDuplicate)
	})

	t.Run("Update", func(t *testing.T) {
		got, err := users.GetByID(ctx, "u-1")
		require.NoError(t, err)
		got.Bio = "Forever GM."
		got.Clan = "Versalles"
		require.NoError(t, users.Update(ctx, got))

		updated, err := users.GetByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "Forever GM.", updated.Bio)
		assert.Equal(t, "Versalles", updated.Clan)

		missing := &platform.User{ID: "ghost"}
		assert.ErrorIs(t, users.Update(ctx, missing), store.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		other := &platform.User{ID: "u-del", ProviderUID: "prov-del", Username: "deleted_soon", Email: "del@example.com"}
		require.NoError(t, users.Create(ctx, other))
		require.NoError(t, users.Delete(ctx, "u-del"))
		_, err := users.GetByID(ctx, "u-del")
		assert.ErrorIs(t, err, store.ErrNotFound)
		// Secondary lookups must miss too.
		_, err = users.GetByUsername(ctx, "deleted_soon")
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.ErrorIs(t, users.Delete(ctx, "u-del"), store.ErrNotFound)
	})
}

func testCampaigns(t *testing.T, s store.Store) {
	ctx := context.Background()
	campaigns := s.Campaigns()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, title := range []string{"Maldição de Strahd", "Tumba da Aniquilação"} {
		require.NoError(t, campaigns.Create(ctx, &platform.Campaign{
			ID:          "c-" + title[:3],
			OwnerID:     "u-1",
			Title:       title,
			System:      "D&D 5e",
			Description: "desc",
			Status:      platform.CampaignRecruiting,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := campaigns.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Maldição de Strahd", list[0].Title)

	got, err := campaigns.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, platform.CampaignRecruiting, got.Status)

	require.NoError(t, campaigns.Delete(ctx, list[0].ID))
	_, err = campaigns.GetByID(ctx, list[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, campaigns.Delete(ctx, list[0].ID), store.ErrNotFound)
}

func testForums(t *testing.T, s store.Store) {
	ctx := context.Background()
	forums := s.Forums()

	require.NoError(t, forums.Put(ctx, &platform.Forum{ID: "f-general", Title: "Discussão Geral"}))
	require.NoError(t, forums.Put(ctx, &platform.Forum{ID: "f-rules", Title: "Regras"}))

	list, err := forums.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	base := time.Now().UTC().Truncate(time.Millisecond)
	thread := &platform.ForumThread{ID: "t-1", ForumID: "f-general", AuthorID: "u-1", Title: "Bem-vindos", CreatedAt: base}
	require.NoError(t, forums.CreateThread(ctx, thread))

	assert.ErrorIs(t, forums.CreateThread(ctx, &platform.ForumThread{ID: "t-x", ForumID: "missing"}), store.ErrNotFound)

	got, err := forums.GetThread(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Bem-vindos", got.Title)

	threads, err := forums.ListThreads(ctx, "f-general")
	require.NoError(t, err)
	assert.Len(t, threads, 1)

	for i := 0; i < 3; i++ {
		require.NoError(t, forums.CreatePost(ctx, &platform.ForumPost{
			ID:        "p-" + string(rune('a'+i)),
			ThreadID:  "t-1",
			AuthorID:  "u-1",
			Content:   "post",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	assert.ErrorIs(t, forums.CreatePost(ctx, &platform.ForumPost{ID: "p-x", ThreadID: "missing"}), store.ErrNotFound)

	posts, err := forums.ListPosts(ctx, "t-1")
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "p-a", posts[0].ID)
}

func testGuilds(t *testing.T, s store.Store) {
	ctx := context.Background()
	guilds := s.Guilds()

	guild := &platform.Guild{
		ID:   "g-1",
		Name: "Ordem de Versalles",
		Tag:  "OV",
		Members: []platform.GuildMembership{
			{UserID: "u-1", Role: platform.GuildOwner, JoinedAt: time.Now().UTC()},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, guilds.Create(ctx, guild))
	assert.ErrorIs(t, guilds.Create(ctx, &platform.Guild{ID: "g-2", Name: "Ordem de Versalles"}), store.ErrDuplicate)

	require.NoError(t, guilds.AddMember(ctx, "g-1", platform.GuildMembership{
		UserID: "u-2", Role: platform.GuildMember, JoinedAt: time.Now().UTC(),
	}))
	assert.ErrorIs(t, guilds.AddMember(ctx, "g-1", platform.GuildMembership{UserID: "u-2"}), store.ErrDuplicate)
	assert.ErrorIs(t, guilds.AddMember(ctx, "missing", platform.GuildMembership{UserID: "u-3"}), store.ErrNotFound)

	got, err := guilds.GetByID(ctx, "g-1")
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	assert.Equal(t, platform.GuildOwner, got.Members[0].Role)

	list, err := guilds.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testWorkshop(t *testing.T, s store.Store) {
	ctx := context.Background()
	workshop := s.Workshop()

	base := time.Now().UTC().Truncate(time.Millisecond)
	statuses := []platform.WorkshopStatus{platform.WorkshopPending, platform.WorkshopApproved, platform.WorkshopApproved}
	for i, status := range statuses {
		require.NoError(t, workshop.Create(ctx, &platform.WorkshopItem{
			ID:          "w-" + string(rune('a'+i)),
			AuthorID:    "u-1",
			Title:       "Item",
			Description: "A community supplement.",
			System:      "D&D 5e",
			Type:        "supplement",
			Status:      status,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	approved, err := workshop.List(ctx, platform.WorkshopApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	all, err := workshop.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := workshop.GetByID(ctx, "w-a")
	require.NoError(t, err)
	assert.Equal(t, platform.WorkshopPending, got.Status)
}

func testCatalog(t *testing.T, s store.Store) {
	ctx := context.Background()
	catalog := s.Catalog()

	require.NoError(t, catalog.Put(ctx, &platform.Product{
		ID: "pr-1", Slug: "livro-basico", Title: "Livro Básico", PriceCents: 4990,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}))
	assert.ErrorIs(t, catalog.Put(ctx, &platform.Product{ID: "pr-2", Slug: "livro-basico"}), store.ErrDuplicate)

	got, err := catalog.GetBySlug(ctx, "livro-basico")
	require.NoError(t, err)
	assert.Equal(t, int64(4990), got.PriceCents)

	_, err = catalog.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testWishlists(t *testing.T, s store.Store) {
	ctx := context.Background()
	wishlists := s.Wishlists()

	// Empty wishlist, not a miss.
	got, err := wishlists.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, got.ProductIDs)

	require.NoError(t, wishlists.Add(ctx, "u-1", "pr-1"))
	require.NoError(t, wishlists.Add(ctx, "u-1", "pr-2"))
	require.NoError(t, wishlists.Add(ctx, "u-1", "pr-1")) // idempotent

	got, err = wishlists.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pr-1", "pr-2"}, got.ProductIDs)

	require.NoError(t, wishlists.Remove(ctx, "u-1", "pr-1"))
	got, err = wishlists.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pr-2"}, got.ProductIDs)

	// Removing an absent entry is a no-op.
	require.NoError(t, wishlists.Remove(ctx, "u-1", "never-there"))
}
