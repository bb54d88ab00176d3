// Package session implements the encrypted cookie session for the
// Versalles platform. The cookie is the session: there is no server-side
// session store, so a session cannot be revoked individually without
// rotating the sealing secret.
package session

// Payload is the minimal identity state carried inside the session
// cookie. Keep it small; everything else is resolved from the user
// store per request.
type Payload struct {
	UserID   string `json:"userId,omitempty"`
	LoggedIn bool   `json:"isLoggedIn"`
}

// Valid reports whether the payload represents a logged-in session.
// A payload claiming LoggedIn without a UserID is treated as logged out.
func (p Payload) Valid() bool {
	return p.LoggedIn && p.UserID != ""
}
