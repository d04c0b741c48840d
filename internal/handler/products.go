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

type ProductsHandler struct {
	svc   service.ProductService
	stock service.StockService
}

func NewProductsHandler(svc service.ProductService, stock service.StockService) *ProductsHandler {
	return &ProductsHandler{svc: svc, stock: stock}
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product data"
// @Success      201  {object} dto.ProductResponse
// @Failure      409  {object} apierror.APIError "duplicate SKU"
// @Router       /api/v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search      query string false "Name or SKU substring"
// @Param        category_id query string false "Category UUID"
// @Param        supplier_id query string false "Supplier UUID"
// @Param        low_stock   query bool   false "Only products at/below reorder level"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 20)"
// @Success      200 {object} dto.ProductListResponse
// @Router       /api/v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/products/{id} [get]
func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Product UUID"
// @Param        body body dto.UpdateProductRequest true "Product data"
// @Success      200  {object} dto.ProductResponse
// @Failure      409  {object} apierror.APIError "duplicate SKU"
// @Router       /api/v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.ActorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Soft-delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Set a product's stock to an absolute quantity
// @Description  Records the delta in the movement ledger and reconciles low-stock alerts.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Product UUID"
// @Param        body body dto.AdjustStockRequest true "New quantity and reason"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/v1/products/{id}/stock [patch]
func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.stock.Adjust(c.Request.Context(), middleware.ActorID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
