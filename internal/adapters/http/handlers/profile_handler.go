package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taogaetz/ghost-posters/internal/adapters/directus"
	"github.com/taogaetz/ghost-posters/internal/adapters/http/middleware"
	"github.com/taogaetz/ghost-posters/internal/domain"
	res "github.com/taogaetz/ghost-posters/pkg/http"
	pkglog "github.com/taogaetz/ghost-posters/pkg/log"
)

// userPayload is the member view handed to pages: the Ghost identity fields
// plus the Directus profile when a session exists.
type userPayload struct {
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Firstname string          `json:"firstname"`
	UUID      string          `json:"uuid"`
	Profile   *domain.Account `json:"profile"`
}

type ProfileHandler struct {
	clients directus.ClientFactory
	logger  pkglog.Logger
}

func NewProfileHandler(clients directus.ClientFactory, logger pkglog.Logger) *ProfileHandler {
	return &ProfileHandler{clients: clients, logger: logger}
}

// Dashboard serves the /v/ load: the member identity, with the Directus
// profile when a session token is available. Backend failures reduce the
// payload to a null profile, never a broken page.
func (h *ProfileHandler) Dashboard(c echo.Context) error {
	member := middleware.MemberFromCtx(c)
	if member == nil {
		return res.ErrorJSON(c, http.StatusForbidden, "forbidden", "you must be logged in to access this page", requestIDFromCtx(c), nil)
	}

	payload := h.userPayload(c, member)
	return c.JSON(http.StatusOK, map[string]any{"user": payload})
}

// Thread serves the /v/thread/:thread_id/ load.
func (h *ProfileHandler) Thread(c echo.Context) error {
	member := middleware.MemberFromCtx(c)
	if member == nil {
		return res.ErrorJSON(c, http.StatusForbidden, "forbidden", "you must be logged in to access this page", requestIDFromCtx(c), nil)
	}

	token := middleware.AccessTokenFromCtx(c)
	if token == "" {
		return c.JSON(http.StatusOK, map[string]any{"user": h.userPayload(c, member)})
	}

	thread, err := h.clients.Client(token).Thread(c.Request().Context(), c.Param("thread_id"))
	if err != nil {
		h.logger.Error().Str("trace_id", requestIDFromCtx(c)).Str("thread_id", c.Param("thread_id")).Err(err).Msg("thread fetch failed")
		return c.JSON(http.StatusOK, map[string]any{"thread": map[string]any{}})
	}
	return c.JSON(http.StatusOK, map[string]any{"thread": thread})
}

// UpdateMe applies a profile patch to the member's own Directus account.
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	member := middleware.MemberFromCtx(c)
	if member == nil {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthenticated", "no member session", requestIDFromCtx(c), nil)
	}

	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}

	client := h.clients.Client(middleware.AccessTokenFromCtx(c))
	account, err := client.Me(c.Request().Context())
	if err != nil {
		h.logger.Error().Str("trace_id", requestIDFromCtx(c)).Str("email", member.Email).Err(err).Msg("profile update failed")
		return res.ErrorJSON(c, http.StatusInternalServerError, "update_failed", "update failed", requestIDFromCtx(c), err.Error())
	}
	if account == nil {
		return res.ErrorJSON(c, http.StatusNotFound, "not_found", "directus user not found", requestIDFromCtx(c), nil)
	}

	updated, err := client.UpdateMe(c.Request().Context(), fields)
	if err != nil {
		h.logger.Error().Str("trace_id", requestIDFromCtx(c)).Str("email", member.Email).Err(err).Msg("profile update failed")
		return res.ErrorJSON(c, http.StatusInternalServerError, "update_failed", "update failed", requestIDFromCtx(c), err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "updated": updated})
}

// userPayload fetches the Directus profile for the member when this request
// carries an access token; the profile stays null otherwise.
func (h *ProfileHandler) userPayload(c echo.Context, member *domain.Member) userPayload {
	payload := userPayload{
		Email:     member.Email,
		Name:      member.Name,
		Firstname: member.Firstname,
		UUID:      member.UUID,
	}

	token := middleware.AccessTokenFromCtx(c)
	if token == "" {
		return payload
	}
	profile, err := h.clients.Client(token).Me(c.Request().Context())
	if err != nil {
		h.logger.Error().Str("trace_id", requestIDFromCtx(c)).Str("email", member.Email).Err(err).Msg("profile fetch failed")
		return payload
	}
	payload.Profile = profile
	return payload
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
