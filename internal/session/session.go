// Package session implements the signed session cookie: issuing it on
// login, reading it back on each request, and clearing it on logout.
//
// The cookie carries a point-in-time snapshot of the user's public
// fields, not a live reference. Profile changes made after login are
// not reflected until the user signs in again; there is no server-side
// session table.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName is the session cookie name expected by the client
const DefaultCookieName = "userSession"

// Codec errors
var (
	ErrNoSecret     = errors.New("session secret is required")
	ErrInvalidToken = errors.New("invalid session token")
)

// UserSession is the public snapshot of a user embedded in the cookie.
// The password hash is never part of it.
type UserSession struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	LoginStatus string `json:"loginStatus"`
	LastLoginAt string `json:"lastLoginAt"`
}

// sessionClaims wraps the snapshot in signed JWT claims
type sessionClaims struct {
	User UserSession `json:"user"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session cookies
type Codec struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// CodecConfig holds configuration for the session cookie codec
type CodecConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	// Secure marks the cookie Secure; enabled outside local development.
	Secure bool
}

// NewCodec creates a session cookie codec
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Codec{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
	}, nil
}

// CookieName returns the configured session cookie name
func (c *Codec) CookieName() string {
	return c.cookieName
}

// Issue signs a snapshot and sets it as the session cookie on the response
func (c *Codec) Issue(w http.ResponseWriter, user UserSession) error {
	now := time.Now().UTC()
	claims := sessionClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read resolves the caller from the request's session cookie.
// A missing, expired, or tampered cookie yields (nil, nil): the request
// is anonymous, which is not an error condition.
func (c *Codec) Read(r *http.Request) (*UserSession, error) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	user, err := c.Decode(cookie.Value)
	if err != nil {
		return nil, nil
	}
	return user, nil
}

// Decode verifies a raw session token and returns the embedded snapshot
func (c *Codec) Decode(token string) (*UserSession, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims.User, nil
}

// Clear expires the session cookie on the response
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
