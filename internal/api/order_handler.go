package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout converts the submitted items into a committed order --> POST /api/orders/checkout
func (h *OrderHandler) Checkout(c echo.Context) error {
	var req service.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}

	idempotentKey := c.Request().Header.Get("Idempotent-Key")

	order, err := h.orderService.Checkout(c.Request().Context(), req, idempotentKey)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, map[string]interface{}{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetUserOrders lists a user's orders, newest first --> GET /api/orders/user/:userId
func (h *OrderHandler) GetUserOrders(c echo.Context) error {
	orders, err := h.orderService.GetOrdersByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, orders)
}

// GetOrder retrieves one order --> GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "invalid order ID"})
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, order)
}

// GetOrders lists every order, newest first (admin) --> GET /api/orders
func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.orderService.GetOrders(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, orders)
}
