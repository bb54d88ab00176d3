// Package bbolt provides a BBolt-backed store.Store for single-node
// deployments and local development.
package bbolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/store"
)

var (
	bucketUsers       = []byte("users")
	bucketIdxUsername = []byte("users_by_username")
	bucketIdxEmail    = []byte("users_by_email")
	bucketIdxProvider = []byte("users_by_provider")
	bucketCampaigns   = []byte("campaigns")
	bucketForums      = []byte("forums")
	bucketThreads     = []byte("threads")
	bucketPosts       = []byte("posts")
	bucketGuilds      = []byte("guilds")
	bucketWorkshop    = []byte("workshop")
	bucketProducts    = []byte("products")
	bucketIdxSlug     = []byte("products_by_slug")
	bucketWishlists   = []byte("wishlists")
)

var allBuckets = [][]byte{
	bucketUsers, bucketIdxUsername, bucketIdxEmail, bucketIdxProvider,
	bucketCampaigns, bucketForums, bucketThreads, bucketPosts,
	bucketGuilds, bucketWorkshop, bucketProducts, bucketIdxSlug,
	bucketWishlists,
}

// Store implements store.Store backed by a BBolt database.
type Store struct {
	db *bolt.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open BBolt database and creates the required buckets.
func New(db *bolt.DB) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromFile opens a BBolt database at the given path.
func NewFromFile(path string, options *bolt.Options) (*Store, error) {
	db, err := bolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return New(db)
}

func (s *Store) Users() store.Users         { return users{s.db} }
func (s *Store) Campaigns() store.Campaigns { return campaigns{s.db} }
func (s *Store) Forums() store.Forums       { return forums{s.db} }
func (s *Store) Guilds() store.Guilds       { return guilds{s.db} }
func (s *Store) Workshop() store.Workshop   { return workshop{s.db} }
func (s *Store) Catalog() store.Catalog     { return catalog{s.db} }
func (s *Store) Wishlists() store.Wishlists { return wishlists{s.db} }

func (s *Store) Close(context.Context) error { return s.db.Close() }

func putJSON(b *bolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), data)
}

func getJSON(b *bolt.Bucket, key string, out any) error {
	data := b.Get([]byte(key))
	if data == nil {
		return store.ErrNotFound
	}
	return json.Unmarshal(data, out)
}

type users struct{ db *bolt.DB }

func (r users) Create(_ context.Context, user *platform.User) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		idxUsername := tx.Bucket(bucketIdxUsername)
		idxEmail := tx.Bucket(bucketIdxEmail)
		idxProvider := tx.Bucket(bucketIdxProvider)
		if idxUsername.Get([]byte(user.Username)) != nil ||
			idxEmail.Get([]byte(user.Email)) != nil ||
			idxProvider.Get([]byte(user.ProviderUID)) != nil {
			return store.ErrDuplicate
		}
		if err := putJSON(tx.Bucket(bucketUsers), user.ID, user); err != nil {
			return err
		}
		if err := idxUsername.Put([]byte(user.Username), []byte(user.ID)); err != nil {
			return err
		}
		if err := idxEmail.Put([]byte(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return idxProvider.Put([]byte(user.ProviderUID), []byte(user.ID))
	})
}

func (r users) GetByID(_ context.Context, id string) (*platform.User, error) {
	var user platform.User
	err := r.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketUsers), id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r users) GetByUsername(ctx context.Context, username string) (*platform.User, error) {
	return r.getByIndex(ctx, bucketIdxUsername, username)
}

func (r users) GetByProviderUID(ctx context.Context, uid string) (*platform.User, error) {
	return r.getByIndex(ctx, bucketIdxProvider, uid)
}

func (r users) getByIndex(_ context.Context, idx []byte, key string) (*platform.User, error) {
	var user platform.User
	err := r.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(idx).Get([]byte(key))
		if id == nil {
			return store.ErrNotFound
		}
		return getJSON(tx.Bucket(bucketUsers), string(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r users) Update(_ context.Context, user *platform.User) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		var existing platform.User
		if err := getJSON(b, user.ID, &existing); err != nil {
			return err
		}
		// Username and email are immutable in the profile flow but keep
		// the indexes honest anyway.
		if existing.Username != user.Username {
			idx := tx.Bucket(bucketIdxUsername)
			if idx.Get([]byte(user.Username)) != nil {
				return store.ErrDuplicate
			}
			if err := idx.Delete([]byte(existing.Username)); err != nil {
				return err
			}
			if err := idx.Put([]byte(user.Username), []byte(user.ID)); err != nil {
				return err
			}
		}
		if existing.Email != user.Email {
			idx := tx.Bucket(bucketIdxEmail)
			if idx.Get([]byte(user.Email)) != nil {
				return store.ErrDuplicate
			}
			if err := idx.Delete([]byte(existing.Email)); err != nil {
				return err
			}
			if err := idx.Put([]byte(user.Email), []byte(user.ID)); err != nil {
				return err
			}
		}
		return putJSON(b, user.ID, user)
	})
}

func (r users) Delete(_ context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		var existing platform.User
		if err := getJSON(b, id, &existing); err != nil {
			return err
		}
		if err := tx.Bucket(bucketIdxUsername).Delete([]byte(existing.Username)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketIdxEmail).Delete([]byte(existing.Email)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketIdxProvider).Delete([]byte(existing.ProviderUID)); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

type campaigns struct{ db *bolt.DB }

func (r campaigns) Create(_ context.Context, campaign *platform.Campaign) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketCampaigns), campaign.ID, campaign)
	})
}

func (r campaigns) GetByID(_ context.Context, id string) (*platform.Campaign, error) {
	var campaign platform.Campaign
	err := r.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketCampaigns), id, &campaign)
	})
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r campaigns) List(_ context.Context) ([]platform.Campaign, error) {
	out, err := listAll[platform.Campaign](r.db, bucketCampaigns, nil)
	if err != nil {
		return nil, err
	}
	sortByCreated(out, func(c platform.Campaign) (string, time.Time) { return c.ID, c.CreatedAt })
	return out, nil
}

func (r campaigns) Delete(_ context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCampaigns)
		if b.Get([]byte(id)) == nil {
			return store.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

type forums struct{ db *bolt.DB }

func (r forums) Put(_ context.Context, forum *platform.Forum) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketForums), forum.ID, forum)
	})
}

func (r forums) GetByID(_ context.Context, id string) (*platform.Forum, error) {
	var forum platform.Forum
	err := r.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketForums), id, &forum)
	})
	if err != nil {
		return nil, err
	}
	return &forum, nil
}

func (r forums) List(_ context.Context) ([]platform.Forum, error) {
	return listAll[platform.Forum](r.db, bucketForums, nil)
}

func (r forums) CreateThread(_ context.Context, thread *platform.ForumThread) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketForums).Get([]byte(thread.ForumID)) == nil {
			return store.ErrNotFound
		}
		return putJSON(tx.Bucket(bucketThreads), thread.ID, thread)
	})
}

func (r forums) GetThread(_ context.Context, id string) (*platform.ForumThread, error) {
	var thread platform.ForumThread
	err := r.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketThreads), id, &thread)
	})
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r forums) ListThreads(_ context.Context, forumID string) ([]platform.ForumThread, error) {
	out, err := listAll(r.db, bucketThreads, func(t platform.ForumThread) bool {
		return t.ForumID == forumID
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(out, func(t platform.ForumThread) (string, time.Time) { return t.ID, t.CreatedAt })
	return out, nil
}

func (r forums) CreatePost(_ context.Context, post *platform.ForumPost) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketThreads).Get([]byte(post.ThreadID)) == nil {
			return store.ErrNotFound
		}
		return putJSON(tx.Bucket(bucketPosts), post.ID, post)
	})
}

func (r forums) ListPosts(_ context.Context, threadID string) ([]platform.ForumPost, error) {
	out, err := listAll(r.db, bucketPosts, func(p platform.ForumPost) bool {
		return p.ThreadID == threadID
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(out, func(p platform.ForumPost) (string, time.Time) { return p.ID, p.CreatedAt })
	return out, nil
}

type guilds struct{ db *bolt.DB }

func (r guilds) Create(_ context.Context, guild *platform.Guild) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGuilds)
		var dup bool
		cursor := b.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var existing platform.Guild
			if err := json.Unmarshal(v, &existing); err != nil {
				return err
			}
			if existing.Name == guild.Name {
				dup = true
				break
			}
		}
		if dup {
			return store.ErrDuplicate
		}
		return putJSON(b, guild.ID, guild)
	})
}

func (r guilds) GetByID(_ context.Context, id string) (*platform.Guild, error) {
	var guild platform.Guild
	err := r.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketGuilds), id, &guild)
	})
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

func (r guilds) List(_ context.Context) ([]platform.Guild, error) {
	out, err := listAll[platform.Guild](r.db, bucketGuilds, nil)
	if err != nil {
		return nil, err
	}
	sortByCreated(out, func(g platform.Guild) (string, time.Time) { return g.ID, g.CreatedAt })
	return out, nil
}

func (r guilds) AddMember(_ context.Context, guildID string, member platform.GuildMembership) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGuilds)
		var guild platform.Guild
		if err := getJSON(b, guildID, &guild); err != nil {
			return err
		}
		for _, existing := range guild.Members {
			if existing.UserID == member.UserID {
				return store.ErrDuplicate
			}
		}
		guild.Members = append(guild.Members, member)
		return putJSON(b, guildID, &guild)
	})
}

type workshop struct{ db *bolt.DB }

func (r workshop) Create(_ context.Context, item *platform.WorkshopItem) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketWorkshop), item.ID, item)
	})
}

func (r workshop) GetByID(_ context.Context, id string) (*platform.WorkshopItem, error) {
	var item platform.WorkshopItem
	err := r.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketWorkshop), id, &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r workshop) List(_ context.Context, status platform.WorkshopStatus) ([]platform.WorkshopItem, error) {
	out, err := listAll(r.db, bucketWorkshop, func(i platform.WorkshopItem) bool {
		return status == "" || i.Status == status
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(out, func(i platform.WorkshopItem) (string, time.Time) { return i.ID, i.CreatedAt })
	return out, nil
}

type catalog struct{ db *bolt.DB }

func (r catalog) Put(_ context.Context, product *platform.Product) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bucketIdxSlug)
		if owner := idx.Get([]byte(product.Slug)); owner != nil && !bytes.Equal(owner, []byte(product.ID)) {
			return store.ErrDuplicate
		}
		if err := putJSON(tx.Bucket(bucketProducts), product.ID, product); err != nil {
			return err
		}
		return idx.Put([]byte(product.Slug), []byte(product.ID))
	})
}

func (r catalog) GetBySlug(_ context.Context, slug string) (*platform.Product, error) {
	var product platform.Product
	err := r.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketIdxSlug).Get([]byte(slug))
		if id == nil {
			return store.ErrNotFound
		}
		return getJSON(tx.Bucket(bucketProducts), string(id), &product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r catalog) List(_ context.Context) ([]platform.Product, error) {
	out, err := listAll[platform.Product](r.db, bucketProducts, nil)
	if err != nil {
		return nil, err
	}
	sortByCreated(out, func(p platform.Product) (string, time.Time) { return p.ID, p.CreatedAt })
	return out, nil
}

type wishlists struct{ db *bolt.DB }

func (r wishlists) Get(_ context.Context, userID string) (*platform.Wishlist, error) {
	wishlist := platform.Wishlist{UserID: userID, ProductIDs: []string{}}
	err := r.db.View(func(tx *bolt.Tx) error {
		err := getJSON(tx.Bucket(bucketWishlists), userID, &wishlist)
		if err == store.ErrNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(wishlist.ProductIDs)
	return &wishlist, nil
}

func (r wishlists) Add(_ context.Context, userID, productID string) error {
	return r.mutate(userID, func(ids []string) []string {
		for _, id := range ids {
			if id == productID {
				return ids
			}
		}
		return append(ids, productID)
	})
}

func (r wishlists) Remove(_ context.Context, userID, productID string) error {
	return r.mutate(userID, func(ids []string) []string {
		out := ids[:0]
		for _, id := range ids {
			if id != productID {
				out = append(out, id)
			}
		}
		return out
	})
}

func (r wishlists) mutate(userID string, fn func([]string) []string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWishlists)
		wishlist := platform.Wishlist{UserID: userID, ProductIDs: []string{}}
		if err := getJSON(b, userID, &wishlist); err != nil && err != store.ErrNotFound {
			return err
		}
		wishlist.ProductIDs = fn(wishlist.ProductIDs)
		return putJSON(b, userID, &wishlist)
	})
}

// listAll scans a bucket, optionally filters, and returns records in the
// bucket's key order (IDs are UUIDs, so this is arbitrary); callers that
// promise creation order sort afterwards.
func listAll[T any](db *bolt.DB, bucket []byte, keep func(T) bool) ([]T, error) {
	var out []T
	err := db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			var record T
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			if keep == nil || keep(record) {
				out = append(out, record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sortByCreated orders a listing oldest-first with ID as tiebreaker.
func sortByCreated[T any](items []T, key func(T) (string, time.Time)) {
	sort.Slice(items, func(i, j int) bool {
		idI, tsI := key(items[i])
		idJ, tsJ := key(items[j])
		if !tsI.Equal(tsJ) {
			return tsI.Before(tsJ)
		}
		return idI < idJ
	})
}
