// Package platform holds the domain model of the Versalles tabletop-RPG
// community: users, campaigns, forums, guilds, workshop items, and the
// store catalog, together with the input forms and their validation
// rules.
package platform

import "time"

// Role is a platform-wide user role.
type Role string

const (
	RoleMestre  Role = "Mestre"
	RoleJogador Role = "Jogador"
)

// GuildRole is a member's role inside a guild.
type GuildRole string

const (
	GuildOwner  GuildRole = "owner"
	GuildAdmin  GuildRole = "admin"
	GuildMember GuildRole = "member"
)

// CampaignStatus is the recruiting state of a campaign.
type CampaignStatus string

const (
	CampaignRecruiting CampaignStatus = "Recrutando"
	CampaignPrivate    CampaignStatus = "Privada"
	CampaignPaused     CampaignStatus = "Pausada"
)

// WorkshopStatus is the moderation state of a user-submitted item.
type WorkshopStatus string

const (
	WorkshopPending  WorkshopStatus = "pending"
	WorkshopApproved WorkshopStatus = "approved"
	WorkshopRejected WorkshopStatus = "rejected"
)

// Clans a user may claim affiliation with. The empty string means no
// affiliation.
var Clans = []string{"Triskelion", "Versalles", "Targaryen"}

// Default page sizes per listing, mirroring the platform's UI.
const (
	PageSizeCampaigns     = 20
	PageSizeForumThreads  = 20
	PageSizeForumPosts    = 15
	PageSizeWorkshopItems = 12
	PageSizeGuilds        = 20
)

const (
	DefaultAvatarURL      = "/img/default-avatar.png"
	DefaultGuildAvatarURL = "/img/default-guild-avatar.png"
)

// Client navigation targets the API hands back when it turns a request
// away. The SPA owns these paths; the server only points at them.
const (
	DefaultHomePath  = "/"
	DefaultLoginPath = "/login"
)

// User is the authoritative account record. The auth boundary only ever
// reads it; mutation happens through the profile handlers.
type User struct {
	ID            string    `json:"id" bson:"_id"`
	ProviderUID   string    `json:"-" bson:"provider_uid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Role          Role      `json:"role" bson:"role"`
	Bio           string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Clan          string    `json:"clan,omitempty" bson:"clan,omitempty"`
	Genre         string    `json:"genre,omitempty" bson:"genre,omitempty"`
	AvatarURL     string    `json:"avatarUrl,omitempty" bson:"avatar_url,omitempty"`
	BannerURL     string    `json:"bannerUrl,omitempty" bson:"banner_url,omitempty"`
	BackgroundURL string    `json:"backgroundUrl,omitempty" bson:"background_url,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}

// Campaign is a tabletop campaign looking for (or closed to) players.
type Campaign struct {
	ID          string         `json:"id" bson:"_id"`
	OwnerID     string         `json:"ownerId" bson:"owner_id"`
	Title       string         `json:"title" bson:"title"`
	System      string         `json:"system" bson:"system"`
	Description string         `json:"description" bson:"description"`
	NextSession string         `json:"nextSession,omitempty" bson:"next_session,omitempty"`
	Status      CampaignStatus `json:"status" bson:"status"`
	BannerURL   string         `json:"bannerUrl,omitempty" bson:"banner_url,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
}

// Forum is a fixed discussion board. Boards are seeded operationally,
// not created by users.
type Forum struct {
	ID          string `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// ForumThread is a topic inside a forum.
type ForumThread struct {
	ID        string    `json:"id" bson:"_id"`
	ForumID   string    `json:"forumId" bson:"forum_id"`
	AuthorID  string    `json:"authorId" bson:"author_id"`
	Title     string    `json:"title" bson:"title"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// ForumPost is a reply inside a thread. The thread's opening content is
// its first post.
type ForumPost struct {
	ID        string    `json:"id" bson:"_id"`
	ThreadID  string    `json:"threadId" bson:"thread_id"`
	AuthorID  string    `json:"authorId" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// GuildMembership ties a user to a guild with a role.
type GuildMembership struct {
	UserID   string    `json:"userId" bson:"user_id"`
	Role     GuildRole `json:"role" bson:"role"`
	JoinedAt time.Time `json:"joinedAt" bson:"joined_at"`
}

// Guild is a player community.
type Guild struct {
	ID          string            `json:"id" bson:"_id"`
	Name        string            `json:"name" bson:"name"`
	Tag         string            `json:"tag,omitempty" bson:"tag,omitempty"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Private     bool              `json:"isPrivate" bson:"private"`
	AvatarURL   string            `json:"avatarUrl,omitempty" bson:"avatar_url,omitempty"`
	BannerURL   string            `json:"bannerUrl,omitempty" bson:"banner_url,omitempty"`
	Members     []GuildMembership `json:"members" bson:"members"`
	CreatedAt   time.Time         `json:"createdAt" bson:"created_at"`
}

// WorkshopItem is user-generated content awaiting or past moderation.
type WorkshopItem struct {
	ID          string         `json:"id" bson:"_id"`
	AuthorID    string         `json:"authorId" bson:"author_id"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	System      string         `json:"system" bson:"system"`
	Type        string         `json:"type" bson:"type"`
	PriceCents  int64          `json:"priceCents" bson:"price_cents"`
	Status      WorkshopStatus `json:"status" bson:"status"`
	PreviewURL  string         `json:"previewUrl,omitempty" bson:"preview_url,omitempty"`
	FileURL     string         `json:"fileUrl,omitempty" bson:"file_url,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
}

// Product is an entry in the official store catalog.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Slug        string    `json:"slug" bson:"slug"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	System      string    `json:"system,omitempty" bson:"system,omitempty"`
	PriceCents  int64     `json:"priceCents" bson:"price_cents"`
	CoverURL    string    `json:"coverUrl,omitempty" bson:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Wishlist is the per-user set of wished-for catalog products.
type Wishlist struct {
	UserID     string   `json:"userId" bson:"_id"`
	ProductIDs []string `json:"productIds" bson:"product_ids"`
}
