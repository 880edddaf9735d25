// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdminMiddleware gates the back-office routes. Must run after
// VerifyAuthMiddleware.
func RequireAdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := c.Logger()

		user, err := GetAuthenticatedUser(c)
		if err != nil {
			logger.Error("Failed to get authenticated user:", err)
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired authentication token, please login again",
			}
		}

		if !user.IsAdmin {
			logger.Warnf("User %d attempted to access admin route", user.ID)
			return &echo.HTTPError{
				Code:    http.StatusForbidden,
				Message: "Administrator privileges are required",
			}
		}

		return next(c)
	}
}
