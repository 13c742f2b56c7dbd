package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// ProductManagementHandler handles the admin product CRUD endpoints.
type ProductManagementHandler struct {
	managementService *service.ProductManagementService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(managementService *service.ProductManagementService) *ProductManagementHandler {
	return &ProductManagementHandler{managementService: managementService}
}

// CreateProduct handles POST /v1/admin/products
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.managementService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.managementService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Product updated", product)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *ProductManagementHandler) DeleteProduct(c *gin.Context) {
	if err := h.managementService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Product deleted", nil)
}

func (h *ProductManagementHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrMissingFields):
		utils.Error(c, 400, "MISSING_FIELDS", "Name is required")
	case errors.Is(err, utils.ErrInvalidID):
		utils.Error(c, 400, "INVALID_ID", "Not a valid product id")
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrDuplicateSlug):
		utils.Error(c, 409, "DUPLICATE_SLUG", "A product with that slug already exists")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
