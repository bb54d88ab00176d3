// Package identity talks to the external identity provider that owns
// credentials. The platform never sees passwords after the handshake:
// the provider authenticates, and this package hands back the provider
// account ID that links a local user to its credential record.
package identity

import (
	"context"
	"errors"
)

// Sentinel errors classify provider failures so handlers can map them
// to user-facing responses without inspecting provider payloads.
var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrInvalidEmail       = errors.New("identity: malformed email")
	ErrWeakPassword       = errors.New("identity: password too weak")
	ErrEmailInUse         = errors.New("identity: email already registered")
	ErrUnavailable        = errors.New("identity: provider unavailable")
)

// Account is the provider's view of a credential record.
type Account struct {
	UID     string
	Email   string
	IDToken string
}

// Provider authenticates and manages credential accounts. Implementations
// must classify failures with the package sentinels so callers can rely
// on errors.Is.
type Provider interface {
	// SignIn verifies an email/password pair and returns the account.
	SignIn(ctx context.Context, email, password string) (*Account, error)

	// SignUp creates a credential account for a new email/password pair.
	SignUp(ctx context.Context, email, password string) (*Account, error)

	// DeleteAccount removes a credential account. Used to unwind a
	// registration whose local half failed.
	DeleteAccount(ctx context.Context, uid string) error
}
