// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/events"
	"github.com/cike7635-ux/love-ludo-sub000/middlewares"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/labstack/echo/v4"
)

// HeartbeatHandler godoc
// @Summary      Report client liveness
// @Description  Acknowledges a periodic client ping and returns the account's
// @Description  entitlement status so the client can lock or unlock premium
// @Description  features without a separate call.
// @Tags         heartbeat
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} HeartbeatResponse "Heartbeat acknowledged"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/heartbeat [post]
func HeartbeatHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("User not found in context.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	now := time.Now()
	resp := HeartbeatResponse{
		AccountStatus: accountStatus(*user, now),
		Message:       "Heartbeat acknowledged",
	}

	if user.AccountExpiresAt != nil {
		expiresAt := user.AccountExpiresAt.Format(time.RFC3339)
		resp.AccountExpiresAt = &expiresAt
	}
	if user.IsPremium(now) {
		days := int(user.AccountExpiresAt.Sub(now).Hours() / 24)
		resp.DaysRemaining = &days
	}

	if err := db.Conn.Create(&models.Stats{Type: models.StatsTypeHeartbeat}).Error; err != nil {
		logger.Errorf("Failed to create heartbeat stat: %v", err)
	}

	go events.Emit(events.RouteHeartbeat, user.ID, nil, nil)

	return c.JSON(http.StatusOK, resp)
}

// accountStatus derives the entitlement bucket from the account expiry.
// Accounts that never redeemed a key have no expiry and stay FREE.
func accountStatus(user models.User, now time.Time) string {
	switch {
	case user.AccountExpiresAt == nil:
		return "FREE"
	case user.IsPremium(now):
		return "PREMIUM"
	default:
		return "EXPIRED"
	}
}
