package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// ProductHandler handles the public catalog endpoints.
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts handles GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	query := h.catalog.ParseListQuery(service.ListParams{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
		Sort:     c.Query("sort"),
		Page:     c.Query("page"),
		PerPage:  c.Query("per_page"),
	})

	listing, err := h.catalog.ListProducts(c.Request.Context(), query)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list products")
		return
	}

	utils.Success(c, 200, "Products retrieved", listing)
}

// GetProduct handles GET /v1/products/:key where key is a slug or an id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	detail, err := h.catalog.GetProduct(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load product")
		return
	}

	utils.Success(c, 200, "Product retrieved", detail)
}

// GetHome handles GET /v1/home
func (h *ProductHandler) GetHome(c *gin.Context) {
	home, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load home sections")
		return
	}

	utils.Success(c, 200, "Home retrieved", home)
}
