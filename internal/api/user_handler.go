package api

import (
	"github.com/labstack/echo/v4"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user --> POST /api/auth/signup
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}

	token, user, err := h.userService.Signup(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, map[string]interface{}{
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

// Login authenticates a user --> POST /api/auth/login
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "invalid request payload"})
	}

	token, user, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me returns the authenticated user --> GET /api/auth/me
func (h *UserHandler) Me(c echo.Context) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.JSON(401, map[string]string{"error": "no token provided"})
	}

	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, user)
}
