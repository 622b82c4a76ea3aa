package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/services"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetCounts returns the aggregate totals for the supervisor dashboard.
func (h *DashboardHandler) GetCounts(c *gin.Context) {
	counts, err := h.dashboardService.GetCounts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: counts})
}

// GetSemesters returns the fixed semester list clients build their
// filter dropdowns from.
func (h *DashboardHandler) GetSemesters(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Data: models.Semesters})
}
