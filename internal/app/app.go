package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taogaetz/ghost-posters/config"
	"github.com/taogaetz/ghost-posters/internal/adapters/directus"
	"github.com/taogaetz/ghost-posters/internal/adapters/ghost"
	httpadapter "github.com/taogaetz/ghost-posters/internal/adapters/http"
	"github.com/taogaetz/ghost-posters/internal/adapters/http/handlers"
	"github.com/taogaetz/ghost-posters/internal/adapters/http/middleware"
	"github.com/taogaetz/ghost-posters/internal/usecase"
	pkglog "github.com/taogaetz/ghost-posters/pkg/log"
)

type App struct {
	cfg    *config.Config
	logger pkglog.Logger
	echo   *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppEnv)

	resolver := ghost.NewHTTPClient(cfg.GhostURL, cfg.GhostTimeout)
	clients := directus.NewFactory(cfg.DirectusURL, cfg.DirectusTimeout)
	bridge := usecase.NewBridgeService(cfg, logger, clients)

	identityMW := middleware.NewIdentityMiddleware(resolver, logger)
	sessionMW := middleware.NewSessionMiddleware(bridge, logger, cfg.RefreshCookieTTL)
	profileHandler := handlers.NewProfileHandler(clients, logger)
	threadHandler := handlers.NewThreadHandler(clients, logger)
	router := httpadapter.NewRouter(cfg, identityMW, sessionMW, profileHandler, threadHandler)

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: logger, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
