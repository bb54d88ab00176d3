// Package memory provides a thread-safe in-memory implementation of
// store.Store. Suitable for tests and demos; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/store"
)

// Store is an in-memory store.Store.
type Store struct {
	mu        sync.RWMutex
	users     map[string]platform.User
	campaigns map[string]platform.Campaign
	forums    map[string]platform.Forum
	threads   map[string]platform.ForumThread
	posts     map[string]platform.ForumPost
	guilds    map[string]platform.Guild
	items     map[string]platform.WorkshopItem
	products  map[string]platform.Product
	wishes    map[string]map[string]bool
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:     make(map[string]platform.User),
		campaigns: make(map[string]platform.Campaign),
		forums:    make(map[string]platform.Forum),
		threads:   make(map[string]platform.ForumThread),
		posts:     make(map[string]platform.ForumPost),
		guilds:    make(map[string]platform.Guild),
		items:     make(map[string]platform.WorkshopItem),
		products:  make(map[string]platform.Product),
		wishes:    make(map[string]map[string]bool),
	}
}

func (s *Store) Users() store.Users         { return users{s} }
func (s *Store) Campaigns() store.Campaigns { return campaigns{s} }
func (s *Store) Forums() store.Forums       { return forums{s} }
func (s *Store) Guilds() store.Guilds       { return guilds{s} }
func (s *Store) Workshop() store.Workshop   { return workshop{s} }
func (s *Store) Catalog() store.Catalog     { return catalog{s} }
func (s *Store) Wishlists() store.Wishlists { return wishlists{s} }

func (s *Store) Close(context.Context) error { return nil }

type users struct{ s *Store }

func (r users) Create(_ context.Context, user *platform.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == user.Username || existing.Email == user.Email ||
			existing.ProviderUID == user.ProviderUID {
			return store.ErrDuplicate
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r users) GetByID(_ context.Context, id string) (*platform.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (r users) GetByUsername(_ context.Context, username string) (*platform.User, error) {
	return r.find(func(u platform.User) bool { return u.Username == username })
}

func (r users) GetByProviderUID(_ context.Context, uid string) (*platform.User, error) {
	return r.find(func(u platform.User) bool { return u.ProviderUID == uid })
}

func (r users) find(match func(platform.User) bool) (*platform.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if match(user) {
			out := user
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r users) Update(_ context.Context, user *platform.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r users) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type campaigns struct{ s *Store }

func (r campaigns) Create(_ context.Context, campaign *platform.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.campaigns[campaign.ID] = *campaign
	return nil
}

func (r campaigns) GetByID(_ context.Context, id string) (*platform.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	campaign, ok := r.s.campaigns[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &campaign, nil
}

func (r campaigns) List(_ context.Context) ([]platform.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]platform.Campaign, 0, len(r.s.campaigns))
	for _, campaign := range r.s.campaigns {
		out = append(out, campaign)
	}
	sortByCreated(out, func(c platform.Campaign) (string, int64) { return c.ID, c.CreatedAt.UnixNano() })
	return out, nil
}

func (r campaigns) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.campaigns[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.campaigns, id)
	return nil
}

type forums struct{ s *Store }

func (r forums) Put(_ context.Context, forum *platform.Forum) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.forums[forum.ID] = *forum
	return nil
}

func (r forums) GetByID(_ context.Context, id string) (*platform.Forum, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	forum, ok := r.s.forums[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &forum, nil
}

func (r forums) List(_ context.Context) ([]platform.Forum, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]platform.Forum, 0, len(r.s.forums))
	for _, forum := range r.s.forums {
		out = append(out, forum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r forums) CreateThread(_ context.Context, thread *platform.ForumThread) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.forums[thread.ForumID]; !ok {
		return store.ErrNotFound
	}
	r.s.threads[thread.ID] = *thread
	return nil
}

func (r forums) GetThread(_ context.Context, id string) (*platform.ForumThread, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	thread, ok := r.s.threads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &thread, nil
}

func (r forums) ListThreads(_ context.Context, forumID string) ([]platform.ForumThread, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []platform.ForumThread
	for _, thread := range r.s.threads {
		if thread.ForumID == forumID {
			out = append(out, thread)
		}
	}
	sortByCreated(out, func(t platform.ForumThread) (string, int64) { return t.ID, t.CreatedAt.UnixNano() })
	return out, nil
}

func (r forums) CreatePost(_ context.Context, post *platform.ForumPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.threads[post.ThreadID]; !ok {
		return store.ErrNotFound
	}
	r.s.posts[post.ID] = *post
	return nil
}

func (r forums) ListPosts(_ context.Context, threadID string) ([]platform.ForumPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []platform.ForumPost
	for _, post := range r.s.posts {
		if post.ThreadID == threadID {
			out = append(out, post)
		}
	}
	sortByCreated(out, func(p platform.ForumPost) (string, int64) { return p.ID, p.CreatedAt.UnixNano() })
	return out, nil
}

type guilds struct{ s *Store }

func (r guilds) Create(_ context.Context, guild *platform.Guild) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.guilds {
		if existing.Name == guild.Name {
			return store.ErrDuplicate
		}
	}
	r.s.guilds[guild.ID] = cloneGuild(*guild)
	return nil
}

func (r guilds) GetByID(_ context.Context, id string) (*platform.Guild, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	guild, ok := r.s.guilds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneGuild(guild)
	return &out, nil
}

func (r guilds) List(_ context.Context) ([]platform.Guild, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]platform.Guild, 0, len(r.s.guilds))
	for _, guild := range r.s.guilds {
		out = append(out, cloneGuild(guild))
	}
	sortByCreated(out, func(g platform.Guild) (string, int64) { return g.ID, g.CreatedAt.UnixNano() })
	return out, nil
}

func (r guilds) AddMember(_ context.Context, guildID string, member platform.GuildMembership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	guild, ok := r.s.guilds[guildID]
	if !ok {
		return store.ErrNotFound
	}
	for _, existing := range guild.Members {
		if existing.UserID == member.UserID {
			return store.ErrDuplicate
		}
	}
	guild.Members = append(guild.Members, member)
	r.s.guilds[guildID] = guild
	return nil
}

func cloneGuild(g platform.Guild) platform.Guild {
	g.Members = append([]platform.GuildMembership(nil), g.Members...)
	return g
}

type workshop struct{ s *Store }

func (r workshop) Create(_ context.Context, item *platform.WorkshopItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = *item
	return nil
}

func (r workshop) GetByID(_ context.Context, id string) (*platform.WorkshopItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (r workshop) List(_ context.Context, status platform.WorkshopStatus) ([]platform.WorkshopItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []platform.WorkshopItem
	for _, item := range r.s.items {
		if status == "" || item.Status == status {
			out = append(out, item)
		}
	}
	sortByCreated(out, func(i platform.WorkshopItem) (string, int64) { return i.ID, i.CreatedAt.UnixNano() })
	return out, nil
}

type catalog struct{ s *Store }

func (r catalog) Put(_ context.Context, product *platform.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.products {
		if existing.Slug == product.Slug && id != product.ID {
			return store.ErrDuplicate
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r catalog) GetBySlug(_ context.Context, slug string) (*platform.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, product := range r.s.products {
		if product.Slug == slug {
			out := product
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r catalog) List(_ context.Context) ([]platform.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]platform.Product, 0, len(r.s.products))
	for _, product := range r.s.products {
		out = append(out, product)
	}
	sortByCreated(out, func(p platform.Product) (string, int64) { return p.ID, p.CreatedAt.UnixNano() })
	return out, nil
}

type wishlists struct{ s *Store }

func (r wishlists) Get(_ context.Context, userID string) (*platform.Wishlist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	wishlist := platform.Wishlist{UserID: userID, ProductIDs: []string{}}
	for productID := range r.s.wishes[userID] {
		wishlist.ProductIDs = append(wishlist.ProductIDs, productID)
	}
	sort.Strings(wishlist.ProductIDs)
	return &wishlist, nil
}

func (r wishlists) Add(_ context.Context, userID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.wishes[userID] == nil {
		r.s.wishes[userID] = make(map[string]bool)
	}
	r.s.wishes[userID][productID] = true
	return nil
}

func (r wishlists) Remove(_ context.Context, userID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.wishes[userID], productID)
	return nil
}

// sortByCreated orders newest-last with ID as the tiebreaker so listings
// are deterministic.
func sortByCreated[T any](items []T, key func(T) (string, int64)) {
	sort.Slice(items, func(i, j int) bool {
		idI, tsI := key(items[i])
		idJ, tsJ := key(items[j])
		if tsI != tsJ {
			return tsI < tsJ
		}
		return idI < idJ
	})
}
