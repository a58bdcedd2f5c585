// Package cookies owns the Directus token pair cookies. The tokens are opaque
// bearer credentials minted by Directus; no signing or encryption is layered
// on top of the transport's own cookie flags.
package cookies

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taogaetz/ghost-posters/internal/domain"
)

const (
	AccessTokenCookie  = "directus_access_token"
	RefreshTokenCookie = "directus_refresh_token"
)

// Store reads and writes the token pair cookies for one request/response
// pair. Writes and clears always touch both cookies, so a request can never
// end with a half-set pair.
type Store struct {
	c          echo.Context
	refreshTTL time.Duration
}

func NewStore(c echo.Context, refreshTTL time.Duration) *Store {
	return &Store{c: c, refreshTTL: refreshTTL}
}

func (s *Store) Read() (access, refresh string) {
	if cookie, err := s.c.Cookie(AccessTokenCookie); err == nil {
		access = cookie.Value
	}
	if cookie, err := s.c.Cookie(RefreshTokenCookie); err == nil {
		refresh = cookie.Value
	}
	return access, refresh
}

// Write sets both cookies. The access cookie lives for the backend-reported
// expiry (milliseconds, floored to seconds); the refresh cookie lifetime is
// fixed regardless of what the backend reports.
func (s *Store) Write(tokens domain.Tokens) {
	s.c.SetCookie(s.cookie(AccessTokenCookie, tokens.AccessToken, int(tokens.Expires/1000)))
	s.c.SetCookie(s.cookie(RefreshTokenCookie, tokens.RefreshToken, int(s.refreshTTL.Seconds())))
}

// Clear deletes both cookies unconditionally.
func (s *Store) Clear() {
	s.c.SetCookie(s.cookie(AccessTokenCookie, "", -1))
	s.c.SetCookie(s.cookie(RefreshTokenCookie, "", -1))
}

func (s *Store) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	}
}
