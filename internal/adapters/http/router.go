package http

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/taogaetz/ghost-posters/config"
	"github.com/taogaetz/ghost-posters/internal/adapters/http/handlers"
	internalhttp "github.com/taogaetz/ghost-posters/internal/adapters/http/internal"
	"github.com/taogaetz/ghost-posters/internal/adapters/http/middleware"
)

type Router struct {
	cfg      *config.Config
	identity *middleware.IdentityMiddleware
	session  *middleware.SessionMiddleware
	profile  *handlers.ProfileHandler
	threads  *handlers.ThreadHandler
}

func NewRouter(cfg *config.Config, identity *middleware.IdentityMiddleware, session *middleware.SessionMiddleware, profile *handlers.ProfileHandler, threads *handlers.ThreadHandler) *Router {
	return &Router{cfg: cfg, identity: identity, session: session, profile: profile, threads: threads}
}

func (r *Router) Setup(e *echo.Echo) {
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	internalhttp.Register(e.Group(""))

	// Every page runs the identity hook and the Directus handshake, in that
	// order; handlers only see the resolved member and this request's token.
	pages := e.Group("", r.identity.Handler, r.session.Handler)
	pages.GET("/v/", r.profile.Dashboard)
	pages.GET("/v/thread/:thread_id/", r.profile.Thread)
	pages.POST("/me", r.profile.UpdateMe)
	pages.POST("/post/thread", r.threads.Create)
}
