package api

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/service"
)

// JWT authenticates requests with a Bearer token signed by the user service.
func JWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.TokenClaims)
		},
	})
}

// RequireAdmin gates a route on the admin role. Must run after JWT.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := currentClaims(c)
		if !ok {
			return c.JSON(401, map[string]string{"error": "no token provided"})
		}
		if claims.Role != entity.RoleAdmin {
			return c.JSON(403, map[string]string{"error": "admin access required"})
		}
		return next(c)
	}
}

func currentClaims(c echo.Context) (*service.TokenClaims, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*service.TokenClaims)
	return claims, ok
}
