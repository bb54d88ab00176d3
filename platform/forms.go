package platform

import (
	"strings"

	"github.com/versalles/versalles/internal/util"
)

// Input forms. Each form is an explicit contract validated with
// Validate before any side-effecting call; handlers never read loose
// maps. File uploads (avatars, banners, item files) are handled by the
// external asset pipeline, so forms carry URLs at most.

// LoginForm is the credentials input for POST /api/auth/login.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is the input for POST /api/users.
type RegisterForm struct {
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// MintSessionForm is the input for POST /api/auth/session.
type MintSessionForm struct {
	IDToken string `json:"idToken" validate:"required"`
}

// ProfileUpdateForm is the input for PATCH /api/users/me.
type ProfileUpdateForm struct {
	Bio   string `json:"bio" validate:"max=1000"`
	Clan  string `json:"clan" validate:"omitempty,oneof=Triskelion Versalles Targaryen"`
	Genre string `json:"genre" validate:"max=50"`
}

// CampaignForm is the input for POST /api/campaigns.
type CampaignForm struct {
	Title       string `json:"title" validate:"required,max=100"`
	System      string `json:"system" validate:"required,max=50"`
	Description string `json:"description" validate:"required,max=5000"`
	NextSession string `json:"nextSession" validate:"max=100"`
	Status      string `json:"status" validate:"required,oneof=Recrutando Privada Pausada"`
}

// WorkshopItemForm is the input for POST /api/workshop/items.
type WorkshopItemForm struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description" validate:"required,min=10,max=10000"`
	System      string `json:"system" validate:"required"`
	Type        string `json:"type" validate:"required"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
}

// ThreadForm is the input for POST /api/forums/{forumID}/threads. The
// content becomes the thread's opening post.
type ThreadForm struct {
	Title   string `json:"title" validate:"required,max=150"`
	Content string `json:"content" validate:"required,min=5,max=20000"`
}

// PostForm is the input for POST /api/threads/{threadID}/posts.
type PostForm struct {
	Content string `json:"content" validate:"required,min=1,max=20000"`
}

// GuildForm is the input for POST /api/guilds.
type GuildForm struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Tag         string `json:"tag" validate:"max=5"`
	Description string `json:"description" validate:"max=2000"`
	Private     bool   `json:"isPrivate"`
}

// Normalize canonicalizes the identifying fields before validation so
// that lookups and uniqueness checks see one spelling.
func (f *RegisterForm) Normalize() {
	f.Username = util.Normalize(strings.TrimSpace(f.Username))
	f.Email = util.Normalize(strings.ToLower(strings.TrimSpace(f.Email)))
}

// Normalize canonicalizes the email before it reaches the identity
// provider.
func (f *LoginForm) Normalize() {
	f.Email = util.Normalize(strings.ToLower(strings.TrimSpace(f.Email)))
}
