package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taogaetz/ghost-posters/internal/adapters/http/cookies"
	"github.com/taogaetz/ghost-posters/internal/usecase"
	res "github.com/taogaetz/ghost-posters/pkg/http"
	pkglog "github.com/taogaetz/ghost-posters/pkg/log"
)

// SessionMiddleware runs the Directus handshake for authenticated members and
// applies the outcome to the token cookies in one place, so every exit path
// leaves either both cookies set or both cleared.
type SessionMiddleware struct {
	bridge     usecase.Service
	logger     pkglog.Logger
	refreshTTL time.Duration
}

func NewSessionMiddleware(bridge usecase.Service, logger pkglog.Logger, refreshTTL time.Duration) *SessionMiddleware {
	return &SessionMiddleware{bridge: bridge, logger: logger, refreshTTL: refreshTTL}
}

func (m *SessionMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		member := MemberFromCtx(c)
		store := cookies.NewStore(c, m.refreshTTL)
		access, refresh := store.Read()

		if member == nil {
			// Stale Directus cookies without a Ghost session get dropped.
			if access != "" || refresh != "" {
				store.Clear()
			}
			c.Set(AccessTokenKey, "")
			return next(c)
		}

		session, err := m.bridge.EnsureSession(c.Request().Context(), requestIDFromCtx(c), member, access, refresh)
		if err != nil {
			store.Clear()
			c.Set(AccessTokenKey, "")
			return res.ErrorJSON(c, http.StatusInternalServerError, "configuration_error", err.Error(), requestIDFromCtx(c), nil)
		}
		if session == nil {
			// No Directus session this request; the member identity stays set.
			store.Clear()
			c.Set(AccessTokenKey, "")
			return next(c)
		}

		if session.Minted != nil {
			store.Write(*session.Minted)
		}
		c.Set(AccessTokenKey, session.AccessToken)
		return next(c)
	}
}
