package notification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicore/hospital-api/internal/handler"
	"github.com/medicore/hospital-api/internal/middleware"
	notificationService "github.com/medicore/hospital-api/internal/service/notification"
)

type Handler struct {
	svc *notificationService.Service
}

func NewHandler(svc *notificationService.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stream", h.Stream)
}

// Stream pushes the caller's notifications as server-sent events until the
// client disconnects. The web client reconnects on its own after a drop.
func (h *Handler) Stream(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing user identity"))
		return
	}

	ch, err := h.svc.Subscribe(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, notificationService.ErrBrokerUnavailable) {
			c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("notifications are not available"))
			return
		}
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		msg, open := <-ch
		if !open {
			return false
		}
		c.SSEvent("notification", json.RawMessage(msg))
		return true
	})
}
