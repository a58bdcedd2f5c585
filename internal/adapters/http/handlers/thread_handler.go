package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taogaetz/ghost-posters/internal/adapters/directus"
	"github.com/taogaetz/ghost-posters/internal/adapters/http/middleware"
	"github.com/taogaetz/ghost-posters/internal/domain"
	res "github.com/taogaetz/ghost-posters/pkg/http"
	pkglog "github.com/taogaetz/ghost-posters/pkg/log"
)

type ThreadHandler struct {
	clients directus.ClientFactory
	logger  pkglog.Logger
}

func NewThreadHandler(clients directus.ClientFactory, logger pkglog.Logger) *ThreadHandler {
	return &ThreadHandler{clients: clients, logger: logger}
}

// Create handles the thread form action: upload the image first when one was
// supplied, then create the thread referencing it. A failed upload aborts the
// whole action; a thread must never point at an image that was not stored.
func (h *ThreadHandler) Create(c echo.Context) error {
	member := middleware.MemberFromCtx(c)
	if member == nil {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthenticated", "no member session", requestIDFromCtx(c), nil)
	}

	title := c.FormValue("title")
	client := h.clients.Client(middleware.AccessTokenFromCtx(c))

	var imageID string
	if file, err := c.FormFile("file"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return res.ErrorJSON(c, http.StatusMethodNotAllowed, "upload_failed", "error uploading file", requestIDFromCtx(c), err.Error())
		}
		defer src.Close()

		uploaded, err := client.UploadFile(c.Request().Context(), file.Filename, src)
		if err != nil {
			h.logger.Error().Str("trace_id", requestIDFromCtx(c)).Str("file", file.Filename).Err(err).Msg("file upload failed")
			return res.ErrorJSON(c, http.StatusMethodNotAllowed, "upload_failed", "error uploading file", requestIDFromCtx(c), err.Error())
		}
		imageID = uploaded.ID
	}

	thread, err := client.CreateThread(c.Request().Context(), domain.ThreadCreation{
		Title: title,
		Type:  "public",
		Image: imageID,
	})
	if err != nil {
		h.logger.Error().Str("trace_id", requestIDFromCtx(c)).Str("title", title).Err(err).Msg("thread creation failed")
		return res.ErrorJSON(c, http.StatusInternalServerError, "thread_creation_failed", "failed to create thread", requestIDFromCtx(c), err.Error())
	}

	if thread.ID != "" {
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/v/thread/%s/", thread.ID))
	}
	return c.Redirect(http.StatusSeeOther, "/v/")
}
