package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/retailops/plano-ui/internal/errors"
)

// Browsers reject cookies whose serialized form exceeds 4096 bytes. An
// oversized profile is reported rather than silently truncated.
const maxCookieBytes = 4096

// CookieStore reads and writes the two session cookies: the opaque bearer
// token and the JSON-encoded user profile. Both always carry the same
// attributes and are always written or purged together.
type CookieStore struct {
	tokenName string
	userName  string
	maxAge    time.Duration
	domain    string
	secure    bool
	logger    *slog.Logger
}

// CookieStoreOptions groups dependencies for CookieStore.
type CookieStoreOptions struct {
	// TokenName is the token cookie name. Defaults to "token".
	TokenName string
	// UserName is the profile cookie name. Defaults to "user".
	UserName string
	// MaxAge is the lifetime of both cookies. Defaults to 24h.
	MaxAge time.Duration
	// Domain is optional; empty scopes the cookies to the request host.
	Domain string
	// Secure marks the cookies HTTPS-only. Disabled only in development.
	Secure bool
	// Logger is optional.
	Logger *slog.Logger
}

// NewCookieStore constructs a CookieStore.
func NewCookieStore(opts CookieStoreOptions) *CookieStore {
	tokenName := opts.TokenName
	if tokenName == "" {
		tokenName = "token"
	}
	userName := opts.UserName
	if userName == "" {
		userName = "user"
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("component", "cookie_store")
	} else {
		logger = slog.Default()
	}

	return &CookieStore{
		tokenName: tokenName,
		userName:  userName,
		maxAge:    maxAge,
		domain:    opts.Domain,
		secure:    opts.Secure,
		logger:    logger,
	}
}

// ReadToken returns the bearer token from the request, or "" when the cookie
// is absent or empty.
func (s *CookieStore) ReadToken(r *http.Request) string {
	c, err := r.Cookie(s.tokenName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ReadUser decodes the profile cookie. A missing cookie returns (nil, nil).
// A cookie that fails to decode is treated as absent and scheduled for
// deletion on the response, with the decode failure reported through the
// returned error.
func (s *CookieStore) ReadUser(w http.ResponseWriter, r *http.Request) (*User, error) {
	c, err := r.Cookie(s.userName)
	if err != nil {
		return nil, nil
	}

	var user User
	if err := json.Unmarshal([]byte(c.Value), &user); err != nil {
		s.delete(w, s.userName)
		return nil, apperrors.MalformedCookie(s.userName, err)
	}
	return &user, nil
}

// WriteSession writes both session cookies in one operation. The profile is
// serialized to JSON first; a profile too large for a cookie fails the write
// without touching either cookie.
func (s *CookieStore) WriteSession(w http.ResponseWriter, token string, user User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return apperrors.Persistence("encode user cookie", err)
	}
	if len(payload) > maxCookieBytes {
		return apperrors.Persistence("user cookie exceeds size limit", nil)
	}

	s.set(w, s.tokenName, token)
	s.set(w, s.userName, string(payload))
	return nil
}

// Purge expires both session cookies. Safe to call when neither exists.
func (s *CookieStore) Purge(w http.ResponseWriter) {
	s.delete(w, s.tokenName)
	s.delete(w, s.userName)
}

func (s *CookieStore) set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   int(s.maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieStore) delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
