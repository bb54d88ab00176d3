package api

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/versalles/versalles/platform"
	"github.com/versalles/versalles/session"
)

// RouteClass determines what the guard demands of a request before its
// handler runs.
type RouteClass int

const (
	// RoutePublic routes are served regardless of session state.
	RoutePublic RouteClass = iota

	// RouteAuthOnly routes exist to establish a session. A request that
	// already carries one is turned away toward the application home.
	RouteAuthOnly

	// RouteProtected routes require a logged-in session.
	RouteProtected
)

// RouteTable classifies request paths by longest matching prefix. The
// root path matches exactly, never as a prefix, so an unlisted path
// falls back to the root's class only when it IS the root.
type RouteTable struct {
	exact    map[string]RouteClass
	prefixes []routePrefix
	fallback RouteClass
}

type routePrefix struct {
	prefix string
	class  RouteClass
}

// DefaultRouteTable mirrors the application's page structure. Unlisted
// paths are protected, so a new route ships gated until someone lists
// it here. Handlers still check ownership and roles; the table only
// gates session state.
func DefaultRouteTable() *RouteTable {
	t := NewRouteTable(RouteProtected)
	t.Exact("/", RoutePublic)
	t.Prefix("/auth/login", RouteAuthOnly)
	t.Prefix("/auth/session", RoutePublic)
	t.Prefix("/users", RoutePublic)
	t.Prefix("/users/me", RouteProtected)
	t.Prefix("/campaigns", RoutePublic)
	t.Prefix("/forums", RoutePublic)
	t.Prefix("/threads", RoutePublic)
	t.Prefix("/guilds", RoutePublic)
	t.Prefix("/workshop", RoutePublic)
	t.Prefix("/products", RoutePublic)
	t.Prefix("/wishlist", RouteProtected)
	return t
}

// NewRouteTable builds an empty table whose unmatched paths get class
// fallback.
func NewRouteTable(fallback RouteClass) *RouteTable {
	return &RouteTable{
		exact:    make(map[string]RouteClass),
		fallback: fallback,
	}
}

// Exact registers a class for one path, matched in full only.
func (t *RouteTable) Exact(path string, class RouteClass) {
	t.exact[path] = class
}

// Prefix registers a class for a path subtree. The prefix matches the
// path itself and any segment-aligned descendant.
func (t *RouteTable) Prefix(prefix string, class RouteClass) {
	t.prefixes = append(t.prefixes, routePrefix{prefix: prefix, class: class})
	// Longest prefix first so the first hit wins.
	sort.SliceStable(t.prefixes, func(i, j int) bool {
		return len(t.prefixes[i].prefix) > len(t.prefixes[j].prefix)
	})
}

// Classify returns the class of path. Exact entries beat prefixes;
// among prefixes the longest match wins.
func (t *RouteTable) Classify(path string) RouteClass {
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	if class, ok := t.exact[path]; ok {
		return class
	}
	for _, p := range t.prefixes {
		if path == p.prefix || strings.HasPrefix(path, p.prefix+"/") {
			return p.class
		}
	}
	return t.fallback
}

type contextKey int

const (
	sessionKey contextKey = iota
	userKey
)

// Guard decodes the session cookie and enforces the route table. It
// runs before user resolution: decisions here come from the cookie
// alone. A cookie that fails to decode is treated as absent and
// cleared, so one bad cookie does not follow the client around.
func (a *API) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok, present := a.codec.ReadCookie(r)
		if present && !ok {
			a.codec.ClearCookie(w)
			a.audit.logFailure(AuditSessionRejected, r, "undecodable cookie")
		}

		ctx := context.WithValue(r.Context(), sessionKey, payload)
		r = r.WithContext(ctx)

		switch a.routes.Classify(routePath(r)) {
		case RouteAuthOnly:
			if payload.Valid() {
				a.metrics.recordDenied("already_authenticated")
				writeJSON(w, http.StatusConflict, RedirectResponse{
					Error:    "already authenticated",
					Location: platform.DefaultHomePath,
				})
				return
			}
		case RouteProtected:
			if !payload.Valid() {
				a.metrics.recordDenied("login_required")
				writeJSON(w, http.StatusUnauthorized, RedirectResponse{
					Error:    "authentication required",
					Location: platform.DefaultLoginPath,
				})
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// routePath returns the path relative to the router's mount point, so
// the table stays valid wherever the API is mounted.
func routePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return rctx.RoutePath
	}
	return r.URL.Path
}

// sessionFromContext returns the payload the guard decoded for this
// request. The zero payload means no session.
func sessionFromContext(ctx context.Context) session.Payload {
	p, _ := ctx.Value(sessionKey).(session.Payload)
	return p
}
