package handler

import (
	"net/http"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Movements godoc
// @Summary      List stock movements
// @Description  Append-only ledger of every stock change, newest first.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Product UUID"
// @Param        type       query string false "in | out"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Page size (default 100)"
// @Success      200 {object} dto.MovementListResponse
// @Router       /api/v1/stock/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts godoc
// @Summary      List low-stock alerts
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        unread_only query bool   false "Only unread alerts"
// @Param        severity    query string false "low | critical | out_of_stock"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 50)"
// @Success      200 {object} dto.AlertListResponse
// @Router       /api/v1/stock/alerts [get]
func (h *StockHandler) Alerts(c *gin.Context) {
	var filter dto.AlertFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkAlertRead godoc
// @Summary      Dismiss a low-stock alert
// @Description  Idempotent: dismissing an already-read alert succeeds silently. Unknown ids return 404.
// @Tags         stock
// @Security     BearerAuth
// @Param        id path string true "Alert UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/stock/alerts/{id}/read [patch]
func (h *StockHandler) MarkAlertRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.MarkAlertRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
