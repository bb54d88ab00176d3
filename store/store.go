// Package store defines the persistence interface of the platform.
// Backends live in subpackages: mongo (production document store),
// bbolt (single-file local store), and memory (tests).
package store

import (
	"context"
	"errors"

	"github.com/versalles/versalles/platform"
)

// ErrNotFound is returned when a keyed lookup misses.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a create collides with an existing
// unique key (username, email, provider UID, guild name, product slug).
var ErrDuplicate = errors.New("record already exists")

// Users is the account repository. The auth boundary only reads it.
type Users interface {
	Create(ctx context.Context, user *platform.User) error
	GetByID(ctx context.Context, id string) (*platform.User, error)
	GetByUsername(ctx context.Context, username string) (*platform.User, error)
	GetByProviderUID(ctx context.Context, uid string) (*platform.User, error)
	Update(ctx context.Context, user *platform.User) error
	Delete(ctx context.Context, id string) error
}

type Campaigns interface {
	Create(ctx context.Context, campaign *platform.Campaign) error
	GetByID(ctx context.Context, id string) (*platform.Campaign, error)
	List(ctx context.Context) ([]platform.Campaign, error)
	Delete(ctx context.Context, id string) error
}

type Forums interface {
	Put(ctx context.Context, forum *platform.Forum) error
	GetByID(ctx context.Context, id string) (*platform.Forum, error)
	List(ctx context.Context) ([]platform.Forum, error)
	CreateThread(ctx context.Context, thread *platform.ForumThread) error
	GetThread(ctx context.Context, id string) (*platform.ForumThread, error)
	ListThreads(ctx context.Context, forumID string) ([]platform.ForumThread, error)
	CreatePost(ctx context.Context, post *platform.ForumPost) error
	ListPosts(ctx context.Context, threadID string) ([]platform.ForumPost, error)
}

type Guilds interface {
	Create(ctx context.Context, guild *platform.Guild) error
	GetByID(ctx context.Context, id string) (*platform.Guild, error)
	List(ctx context.Context) ([]platform.Guild, error)
	AddMember(ctx context.Context, guildID string, member platform.GuildMembership) error
}

type Workshop interface {
	Create(ctx context.Context, item *platform.WorkshopItem) error
	GetByID(ctx context.Context, id string) (*platform.WorkshopItem, error)
	// List returns items in the given status; an empty status lists all.
	List(ctx context.Context, status platform.WorkshopStatus) ([]platform.WorkshopItem, error)
}

type Catalog interface {
	Put(ctx context.Context, product *platform.Product) error
	GetBySlug(ctx context.Context, slug string) (*platform.Product, error)
	List(ctx context.Context) ([]platform.Product, error)
}

type Wishlists interface {
	// Get returns the user's wishlist; a user with no saved entries gets
	// an empty wishlist, not ErrNotFound.
	Get(ctx context.Context, userID string) (*platform.Wishlist, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

// Store bundles the per-aggregate repositories. One Store instance is
// created at process start, injected into the API, reused across all
// requests, and closed on shutdown.
type Store interface {
	Users() Users
	Campaigns() Campaigns
	Forums() Forums
	Guilds() Guilds
	Workshop() Workshop
	Catalog() Catalog
	Wishlists() Wishlists
	Close(ctx context.Context) error
}
