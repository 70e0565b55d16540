package overview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medicore/hospital-api/internal/handler"
	"github.com/medicore/hospital-api/internal/service/dashboard"
)

// Handler serves the public hospital overview. It sits behind the response
// cache, so the aggregation runs at most once per TTL.
type Handler struct {
	dashboardSvc *dashboard.Service
}

func NewHandler(dashboardSvc *dashboard.Service) *Handler {
	return &Handler{dashboardSvc: dashboardSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/hospital-overview", h.HospitalOverview)
}

func (h *Handler) HospitalOverview(c *gin.Context) {
	view, err := h.dashboardSvc.HospitalOverview(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(view))
}
