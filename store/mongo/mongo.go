// Package mongo provides the production store.Store backed by a MongoDB
// database. One client is created at process start and reused by every
// request; the driver manages its own connection pool.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/store"
)

const defaultDatabase = "versalles"

// Store implements store.Store on a MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Connect dials MongoDB, pings it, and ensures the unique indexes the
// repositories rely on. The caller owns the lifecycle: connect once at
// startup, Close on shutdown.
func Connect(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	s := &Store{client: client, db: client.Database(defaultDatabase)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "provider_uid", Value: 1}}, Options: unique},
		},
		"guilds":   {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		"products": {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		"threads":  {{Keys: bson.D{{Key: "forum_id", Value: 1}}}},
		"posts":    {{Keys: bson.D{{Key: "thread_id", Value: 1}}}},
	}
	for collection, models := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", collection, err)
		}
	}
	return nil
}

func (s *Store) Users() store.Users         { return users{s.db.Collection("users")} }
func (s *Store) Campaigns() store.Campaigns { return campaigns{s.db.Collection("campaigns")} }
func (s *Store) Forums() store.Forums {
	return forums{
		forums:  s.db.Collection("forums"),
		threads: s.db.Collection("threads"),
		posts:   s.db.Collection("posts"),
	}
}
func (s *Store) Guilds() store.Guilds       { return guilds{s.db.Collection("guilds")} }
func (s *Store) Workshop() store.Workshop   { return workshop{s.db.Collection("workshop")} }
func (s *Store) Catalog() store.Catalog     { return catalog{s.db.Collection("products")} }
func (s *Store) Wishlists() store.Wishlists { return wishlists{s.db.Collection("wishlists")} }

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mapErr translates driver errors into the store sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	default:
		return err
	}
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := c.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M) ([]T, error) {
	cursor, err := c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func deleteOne(ctx context.Context, c *mongo.Collection, id string) error {
	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

type users struct{ c *mongo.Collection }

func (r users) Create(ctx context.Context, user *platform.User) error {
	_, err := r.c.InsertOne(ctx, user)
	return mapErr(err)
}

func (r users) GetByID(ctx context.Context, id string) (*platform.User, error) {
	return findOne[platform.User](ctx, r.c, bson.M{"_id": id})
}

func (r users) GetByUsername(ctx context.Context, username string) (*platform.User, error) {
	return findOne[platform.User](ctx, r.c, bson.M{"username": username})
}

func (r users) GetByProviderUID(ctx context.Context, uid string) (*platform.User, error) {
	return findOne[platform.User](ctx, r.c, bson.M{"provider_uid": uid})
}

func (r users) Update(ctx context.Context, user *platform.User) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r users) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.c, id)
}

type campaigns struct{ c *mongo.Collection }

func (r campaigns) Create(ctx context.Context, campaign *platform.Campaign) error {
	_, err := r.c.InsertOne(ctx, campaign)
	return mapErr(err)
}

func (r campaigns) GetByID(ctx context.Context, id string) (*platform.Campaign, error) {
	return findOne[platform.Campaign](ctx, r.c, bson.M{"_id": id})
}

func (r campaigns) List(ctx context.Context) ([]platform.Campaign, error) {
	return findAll[platform.Campaign](ctx, r.c, bson.M{})
}

func (r campaigns) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.c, id)
}

type forums struct {
	forums  *mongo.Collection
	threads *mongo.Collection
	posts   *mongo.Collection
}

func (r forums) Put(ctx context.Context, forum *platform.Forum) error {
	_, err := r.forums.ReplaceOne(ctx, bson.M{"_id": forum.ID}, forum, options.Replace().SetUpsert(true))
	return mapErr(err)
}

func (r forums) GetByID(ctx context.Context, id string) (*platform.Forum, error) {
	return findOne[platform.Forum](ctx, r.forums, bson.M{"_id": id})
}

func (r forums) List(ctx context.Context) ([]platform.Forum, error) {
	cursor, err := r.forums.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	var out []platform.Forum
	if err := cursor.All(ctx, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r forums) CreateThread(ctx context.Context, thread *platform.ForumThread) error {
	if _, err := r.GetByID(ctx, thread.ForumID); err != nil {
		return err
	}
	_, err := r.threads.InsertOne(ctx, thread)
	return mapErr(err)
}

func (r forums) GetThread(ctx context.Context, id string) (*platform.ForumThread, error) {
	return findOne[platform.ForumThread](ctx, r.threads, bson.M{"_id": id})
}

func (r forums) ListThreads(ctx context.Context, forumID string) ([]platform.ForumThread, error) {
	return findAll[platform.ForumThread](ctx, r.threads, bson.M{"forum_id": forumID})
}

func (r forums) CreatePost(ctx context.Context, post *platform.ForumPost) error {
	if _, err := r.GetThread(ctx, post.ThreadID); err != nil {
		return err
	}
	_, err := r.posts.InsertOne(ctx, post)
	return mapErr(err)
}

func (r forums) ListPosts(ctx context.Context, threadID string) ([]platform.ForumPost, error) {
	return findAll[platform.ForumPost](ctx, r.posts, bson.M{"thread_id": threadID})
}

type guilds struct{ c *mongo.Collection }

func (r guilds) Create(ctx context.Context, guild *platform.Guild) error {
	_, err := r.c.InsertOne(ctx, guild)
	return mapErr(err)
}

func (r guilds) GetByID(ctx context.Context, id string) (*platform.Guild, error) {
	return findOne[platform.Guild](ctx, r.c, bson.M{"_id": id})
}

func (r guilds) List(ctx context.Context) ([]platform.Guild, error) {
	return findAll[platform.Guild](ctx, r.c, bson.M{})
}

func (r guilds) AddMember(ctx context.Context, guildID string, member platform.GuildMembership) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": guildID, "members.user_id": bson.M{"$ne": member.UserID}},
		bson.M{"$push": bson.M{"members": member}},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		// Either the guild is missing or the user is already a member.
		if _, err := r.GetByID(ctx, guildID); err != nil {
			return err
		}
		return store.ErrDuplicate
	}
	return nil
}

type workshop struct{ c *mongo.Collection }

func (r workshop) Create(ctx context.Context, item *platform.WorkshopItem) error {
	_, err := r.c.InsertOne(ctx, item)
	return mapErr(err)
}

func (r workshop) GetByID(ctx context.Context, id string) (*platform.WorkshopItem, error) {
	return findOne[platform.WorkshopItem](ctx, r.c, bson.M{"_id": id})
}

func (r workshop) List(ctx context.Context, status platform.WorkshopStatus) ([]platform.WorkshopItem, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return findAll[platform.WorkshopItem](ctx, r.c, filter)
}

type catalog struct{ c *mongo.Collection }

func (r catalog) Put(ctx context.Context, product *platform.Product) error {
	_, err := r.c.ReplaceOne(ctx, bson.M{"_id": product.ID}, product, options.Replace().SetUpsert(true))
	return mapErr(err)
}

func (r catalog) GetBySlug(ctx context.Context, slug string) (*platform.Product, error) {
	return findOne[platform.Product](ctx, r.c, bson.M{"slug": slug})
}

func (r catalog) List(ctx context.Context) ([]platform.Product, error) {
	return findAll[platform.Product](ctx, r.c, bson.M{})
}

type wishlists struct{ c *mongo.Collection }

func (r wishlists) Get(ctx context.Context, userID string) (*platform.Wishlist, error) {
	wishlist, err := findOne[platform.Wishlist](ctx, r.c, bson.M{"_id": userID})
	if errors.Is(err, store.ErrNotFound) {
		return &platform.Wishlist{UserID: userID, ProductIDs: []string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if wishlist.ProductIDs == nil {
		wishlist.ProductIDs = []string{}
	}
	return wishlist, nil
}

func (r wishlists) Add(ctx context.Context, userID, productID string) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"product_ids": productID}},
		options.Update().SetUpsert(true),
	)
	return mapErr(err)
}

func (r wishlists) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"product_ids": productID}},
	)
	return mapErr(err)
}
