package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts lists the catalog with optional filters --> /api/products?search=&category=
func (h *ProductHandler) ListProducts(c echo.Context) error {
	search := c.QueryParam("search")
	category := c.QueryParam("category")

	products, err := h.productService.SearchProducts(c.Request().Context(), search, category)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, products)
}

// GetProduct retrieves one product --> /api/products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "invalid product ID"})
	}

	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, product)
}

// GetCategories lists distinct categories --> /api/products/meta/categories
func (h *ProductHandler) GetCategories(c echo.Context) error {
	categories, err := h.productService.GetCategories(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, categories)
}
