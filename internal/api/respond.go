package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/apperr"
)

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON maps a service error to its status code. Unclassified errors
// become a generic 500 so internals never cross the boundary.
func errorJSON(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if apperr.KindOf(err) == apperr.KindUnknown {
		message = "something went wrong"
	}
	return c.JSON(status, map[string]string{"error": message})
}
