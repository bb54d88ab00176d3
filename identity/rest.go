package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// RESTProvider implements Provider against the provider's HTTP API.
type RESTProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Provider = (*RESTProvider)(nil)

// NewRESTProvider builds a client for the identity service at baseURL.
// The http.Client carries its own timeout so a hung provider cannot pin
// request goroutines past the deadline.
func NewRESTProvider(baseURL, apiKey string) *RESTProvider {
	return &RESTProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
	Error   string `json:"error"`
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*Account, error) {
	return p.credentialCall(ctx, "/v1/accounts:signIn", email, password)
}

func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (*Account, error) {
	return p.credentialCall(ctx, "/v1/accounts:signUp", email, password)
}

func (p *RESTProvider) DeleteAccount(ctx context.Context, uid string) error {
	body, err := json.Marshal(map[string]string{"uid": uid})
	if err != nil {
		return err
	}
	resp, err := p.do(ctx, "/v1/accounts:delete", body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp)
	}
	return nil
}

func (p *RESTProvider) credentialCall(ctx context.Context, path, email, password string) (*Account, error) {
	body, err := json.Marshal(credentialRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	resp, err := p.do(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp)
	}
	var account accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if account.UID == "" {
		return nil, fmt.Errorf("%w: response missing uid", ErrUnavailable)
	}
	return &Account{UID: account.UID, Email: account.Email, IDToken: account.IDToken}, nil
}

func (p *RESTProvider) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	return p.client.Do(req)
}

// classifyStatus maps a non-200 provider response onto the package
// sentinels. The provider puts a machine code in the error field.
func classifyStatus(resp *http.Response) error {
	var payload accountResponse
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	switch payload.Error {
	case "INVALID_CREDENTIALS", "EMAIL_NOT_FOUND", "INVALID_PASSWORD":
		return ErrInvalidCredentials
	case "INVALID_EMAIL":
		return ErrInvalidEmail
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "EMAIL_EXISTS":
		return ErrEmailInUse
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrInvalidCredentials
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
}
