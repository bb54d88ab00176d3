package api

import "github.com/versalles/versalles/platform"

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RedirectResponse is returned when the guard turns a request away. The
// SPA uses Location to navigate.
type RedirectResponse struct {
	Error    string `json:"error"`
	Location string `json:"location"`
}

// ValidationErrorResponse carries per-field violations for a rejected
// form.
type ValidationErrorResponse struct {
	Error      string               `json:"error"`
	Violations []platform.Violation `json:"violations"`
}

// SessionResponse reports the caller's session state. User is nil when
// logged out.
type SessionResponse struct {
	LoggedIn bool           `json:"isLoggedIn"`
	User     *platform.User `json:"user,omitempty"`
}

// ListResponse is the envelope for paginated collections.
type ListResponse[T any] struct {
	Items []T            `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}
