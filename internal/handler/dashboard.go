package handler

import (
	"net/http"

	"invtrack/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats godoc
// @Summary      Inventory and sales overview
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardStatsResponse
// @Router       /api/v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
