package handler

import (
	"net/http"

	"invtrack/internal/apierror"
	"invtrack/internal/dto"
	"invtrack/internal/middleware"
	"invtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary      Place an order
// @Description  Mints the order number, snapshots prices, decrements stock and writes ledger movements in one transaction. Insufficient stock on any line rolls the whole order back.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Order lines"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError "insufficient stock"
// @Router       /api/v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), claims.Role, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List orders visible to the caller
// @Description  Admins see all orders, staff their assigned ones, customers their own.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        search    query string false "Order number substring"
// @Param        status    query string false "Status filter"
// @Param        customer  query string false "Customer UUID (admin/staff)"
// @Param        from_date query string false "YYYY-MM-DD inclusive"
// @Param        to_date   query string false "YYYY-MM-DD inclusive"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Page size (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /api/v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.List(c.Request.Context(), middleware.ActorID(c), claims.Role, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary      Order counts and revenue totals
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.OrderSummaryResponse
// @Router       /api/v1/orders/summary [get]
func (h *OrdersHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get an order
// @Description  Out-of-scope orders read as 404 so ids cannot be probed.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/orders/{id} [get]
func (h *OrdersHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.GetByID(c.Request.Context(), middleware.ActorID(c), claims.Role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Move an order through its status lifecycle
// @Description  pending→confirmed→shipped→delivered, cancellable before shipment. Cancelling restores stock.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "Order UUID"
// @Param        body body dto.UpdateOrderStatusRequest true "Target status"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError "invalid transition"
// @Router       /api/v1/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.UpdateStatus(c.Request.Context(), middleware.ActorID(c), claims.Role, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
