package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/taogaetz/ghost-posters/internal/adapters/ghost"
	"github.com/taogaetz/ghost-posters/internal/domain"
	pkglog "github.com/taogaetz/ghost-posters/pkg/log"
)

const (
	// MemberKey holds the resolved *domain.Member (nil when logged out).
	MemberKey = "member"
	// AccessTokenKey holds the Directus access token for this request ("" when none).
	AccessTokenKey = "directus_access_token"

	ghostSSRCookie = "ghost-members-ssr"
	ghostSigCookie = "ghost-members-ssr.sig"
)

// IdentityMiddleware resolves the Ghost member from the session cookies and
// stores it in the request context. Resolution never fails the request; any
// resolver error degrades to the logged-out state.
type IdentityMiddleware struct {
	resolver ghost.Client
	logger   pkglog.Logger
}

func NewIdentityMiddleware(resolver ghost.Client, logger pkglog.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{resolver: resolver, logger: logger}
}

func (m *IdentityMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var ssr, sig string
		if cookie, err := c.Cookie(ghostSSRCookie); err == nil {
			ssr = cookie.Value
		}
		if cookie, err := c.Cookie(ghostSigCookie); err == nil {
			sig = cookie.Value
		}

		member, err := m.resolver.Member(c.Request().Context(), ssr, sig)
		if err != nil {
			m.logger.Warn().Str("trace_id", requestIDFromCtx(c)).Err(err).Msg("ghost member lookup failed")
			member = nil
		}
		c.Set(MemberKey, member)
		return next(c)
	}
}

// MemberFromCtx returns the resolved member, nil when unauthenticated.
func MemberFromCtx(c echo.Context) *domain.Member {
	member, _ := c.Get(MemberKey).(*domain.Member)
	return member
}

// AccessTokenFromCtx returns this request's Directus access token, "" when none.
func AccessTokenFromCtx(c echo.Context) string {
	token, _ := c.Get(AccessTokenKey).(string)
	return token
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
