package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/awnumar/memguard"

	"github.com/versalles/versalles/internal/util"
)

const (
	// CookieName is the stable cookie contract. Client-side code must
	// never read or write this cookie directly.
	CookieName = "versalles-session"

	// MinSecretLen is the minimum length of the configured sealing
	// secret. Validated when the codec is constructed, not per call.
	MinSecretLen = 32
)

var (
	hkdfSalt = []byte("versalles-session")
	hkdfInfo = []byte("cookie-seal-v1")
)

// ErrSecretTooShort is returned by NewCodec for an undersized secret.
// It is a configuration error and must be fatal at process start.
var ErrSecretTooShort = fmt.Errorf("session secret must be at least %d bytes", MinSecretLen)

// Codec seals session payloads into tamper-evident cookie values and
// opens them again. Decode never fails outward: anything that is not an
// authentic, well-formed, logged-in payload degrades to logged out.
type Codec struct {
	key    *memguard.Enclave
	secure bool
}

// NewCodec derives the AES-256-GCM sealing key from secret via
// HKDF-SHA256 and keeps it in a memguard enclave. The raw secret is not
// retained. secure controls the cookie's Secure attribute and should be
// true everywhere except local development.
func NewCodec(secret []byte, secure bool) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}
	key, err := util.HKDF(secret, hkdfSalt, hkdfInfo)
	if err != nil {
		return nil, fmt.Errorf("deriving sealing key: %w", err)
	}
	return &Codec{
		key:    memguard.NewEnclave(key),
		secure: secure,
	}, nil
}

// Encode seals the payload into a base64url cookie value.
func (c *Codec) Encode(p Payload) (string, error) {
	if !p.Valid() {
		return "", errors.New("refusing to encode a payload that is not logged in")
	}
	plain, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serializing session payload: %w", err)
	}

	keyBuf, err := c.key.Open()
	if err != nil {
		return "", fmt.Errorf("opening sealing key enclave: %w", err)
	}
	defer keyBuf.Destroy()

	sealed, err := util.EncryptAES(plain, keyBuf.Bytes())
	if err != nil {
		return "", fmt.Errorf("sealing session payload: %w", err)
	}
	return util.Base64URLEncode(sealed), nil
}

// Decode opens a cookie value. It returns ok=false for any decoding,
// authentication, or deserialization failure, and for authentic payloads
// that violate the logged-in invariant. Route logic must treat ok=false
// as an anonymous request, never as an error.
func (c *Codec) Decode(value string) (Payload, bool) {
	if value == "" {
		return Payload{}, false
	}
	sealed, err := util.Base64URLDecode(value)
	if err != nil {
		return Payload{}, false
	}

	keyBuf, err := c.key.Open()
	if err != nil {
		return Payload{}, false
	}
	defer keyBuf.Destroy()

	plain, err := util.DecryptAES(sealed, keyBuf.Bytes())
	if err != nil {
		return Payload{}, false
	}

	var p Payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return Payload{}, false
	}
	if !p.Valid() {
		return Payload{}, false
	}
	return p, true
}

// ReadCookie decodes the session cookie from a request. present reports
// whether a session cookie was sent at all, so callers can clear a
// cookie that was present but failed to decode.
func (c *Codec) ReadCookie(r *http.Request) (p Payload, ok bool, present bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Payload{}, false, false
	}
	p, ok = c.Decode(cookie.Value)
	return p, ok, true
}

// WriteCookie seals the payload and sets the session cookie. No Max-Age
// is set: the cookie lives until logout or browser close.
func (c *Codec) WriteCookie(w http.ResponseWriter, p Payload) error {
	value, err := c.Encode(p)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie destroys the session on the current response.
func (c *Codec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
