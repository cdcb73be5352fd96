package api

import (
	"github.com/labstack/echo/v4"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new instance of CartHandler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartRequest struct {
	UserID    string `json:"userId"`
	ProductID int    `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

// Add puts a product into the cart --> POST /api/cart/add
func (h *CartHandler) Add(c echo.Context) error {
	var req cartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}
	if req.ProductID == 0 {
		return c.JSON(400, map[string]string{"error": "product ID is required"})
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.cartService.Add(c.Request().Context(), req.UserID, req.ProductID, quantity)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]interface{}{"message": "item added to cart", "cart": cart})
}

// List returns the cart joined against the catalog --> GET /api/cart?userId=
func (h *CartHandler) List(c echo.Context) error {
	items, err := h.cartService.List(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, items)
}

// Update sets a line quantity --> PUT /api/cart/update
func (h *CartHandler) Update(c echo.Context) error {
	var req cartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}
	if req.ProductID == 0 || req.Quantity == nil {
		return c.JSON(400, map[string]string{"error": "product ID and quantity are required"})
	}

	cart, err := h.cartService.UpdateQuantity(c.Request().Context(), req.UserID, req.ProductID, *req.Quantity)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]interface{}{"message": "cart updated", "cart": cart})
}

// Remove drops a line --> DELETE /api/cart/remove
func (h *CartHandler) Remove(c echo.Context) error {
	var req cartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}
	if req.ProductID == 0 {
		return c.JSON(400, map[string]string{"error": "product ID is required"})
	}

	cart := h.cartService.Remove(req.UserID, req.ProductID)

	return c.JSON(200, map[string]interface{}{"message": "item removed from cart", "cart": cart})
}

// Clear empties the cart --> DELETE /api/cart/clear
func (h *CartHandler) Clear(c echo.Context) error {
	var req cartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}

	h.cartService.Clear(req.UserID)

	return c.JSON(200, map[string]string{"message": "cart cleared"})
}
