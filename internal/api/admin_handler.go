package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/service"
)

// AdminHandler is the product management surface. Routes using it are
// mounted behind JWT + RequireAdmin.
type AdminHandler struct {
	productService *service.ProductService
}

// NewAdminHandler creates a new instance of AdminHandler
func NewAdminHandler(productService *service.ProductService) *AdminHandler {
	return &AdminHandler{productService: productService}
}

// ListProducts returns the full catalog --> GET /api/admin/products
func (h *AdminHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.SearchProducts(c.Request().Context(), "", "")
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, products)
}

// CreateProduct adds a catalog entry --> POST /api/admin/products
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var in service.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}

	product, err := h.productService.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct applies a partial update --> PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "invalid product ID"})
	}

	var patch service.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), id, patch)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a catalog entry --> DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "invalid product ID"})
	}

	product, err := h.productService.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"message": "Product deleted successfully",
		"product": product,
	})
}

// SetStock overwrites a product's stock --> PUT /api/admin/products/:id/stock
func (h *AdminHandler) SetStock(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "invalid product ID"})
	}

	var req struct {
		Stock int `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}

	if err := h.productService.SetStock(c.Request().Context(), id, req.Stock); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Stock updated"})
}
