// Package api exposes the Versalles platform over REST. Handlers sit
// behind a route guard that classifies every path and decides, from the
// session cookie alone, whether the request may proceed.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/versalles/versalles/identity"
	"github.com/versalles/versalles/session"
	"github.com/versalles/versalles/store"
)

// resolveTimeout bounds store and provider calls made on behalf of a
// single request.
const resolveTimeout = 5 * time.Second

// API holds the dependencies needed by the REST handlers.
type API struct {
	store    store.Store
	codec    *session.Codec
	provider identity.Provider
	verifier *identity.TokenVerifier
	routes   *RouteTable
	audit    *auditLogger
	limiter  *rateLimiter
	metrics  *metricsCollector
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithRateLimiter enables Redis-backed rate limiting on the
// authentication endpoints.
func WithRateLimiter(client *redis.Client) Option {
	return func(a *API) {
		a.limiter = newRateLimiter(client)
	}
}

// WithMetrics registers Prometheus counters for auth outcomes.
func WithMetrics(m *metricsCollector) Option {
	return func(a *API) {
		a.metrics = m
	}
}

// New creates a new API instance.
func New(st store.Store, codec *session.Codec, provider identity.Provider, verifier *identity.TokenVerifier, opts ...Option) *API {
	a := &API{
		store:    st,
		codec:    codec,
		provider: provider,
		verifier: verifier,
		routes:   DefaultRouteTable(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	if a.metrics == nil {
		a.metrics = newMetricsCollector(nil)
	}
	a.audit.metrics = a.metrics
	return a
}

// Router returns a chi.Router with all API routes mounted. The guard
// and resolver middleware run on every route; per-route access rules
// come from the route table, not from per-handler wiring.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/v1/openapi.yaml",
		Path:    "api/v1/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/v1/openapi.yaml",
		Path:    "api/v1/redoc",
	}, nil))

	r.Group(func(r chi.Router) {
		r.Use(a.Guard)
		r.Use(a.ResolveUser)
		r.Use(a.CSRFMiddleware)

		r.Post("/auth/login", a.Login)
		r.Post("/auth/session", a.MintSession)
		r.Delete("/auth/session", a.Logout)
		r.Get("/auth/session", a.SessionStatus)

		r.Post("/users", a.Register)
		r.Get("/users/me", a.GetCurrentUser)
		r.Patch("/users/me", a.UpdateProfile)
		r.Get("/users/{username}", a.GetUserByUsername)

		r.Get("/campaigns", a.ListCampaigns)
		r.Post("/campaigns", a.CreateCampaign)
		r.Get("/campaigns/{campaignID}", a.GetCampaign)
		r.Delete("/campaigns/{campaignID}", a.DeleteCampaign)

		r.Get("/forums", a.ListForums)
		r.Get("/forums/{forumID}/threads", a.ListThreads)
		r.Post("/forums/{forumID}/threads", a.CreateThread)
		r.Get("/threads/{threadID}", a.GetThread)
		r.Get("/threads/{threadID}/posts", a.ListPosts)
		r.Post("/threads/{threadID}/posts", a.CreatePost)

		r.Get("/guilds", a.ListGuilds)
		r.Post("/guilds", a.CreateGuild)
		r.Get("/guilds/{guildID}", a.GetGuild)
		r.Post("/guilds/{guildID}/members", a.JoinGuild)

		r.Get("/workshop", a.ListWorkshopItems)
		r.Post("/workshop", a.CreateWorkshopItem)
		r.Get("/workshop/{itemID}", a.GetWorkshopItem)

		r.Get("/products", a.ListProducts)
		r.Get("/products/{slug}", a.GetProduct)
		r.Get("/wishlist", a.GetWishlist)
		r.Put("/wishlist/{slug}", a.AddWishlistItem)
		r.Delete("/wishlist/{slug}", a.RemoveWishlistItem)
	})

	return r
}
