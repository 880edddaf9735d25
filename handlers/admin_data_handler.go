// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/labstack/echo/v4"
)

func countStats(statsType models.StatsType, since time.Time) (int64, error) {
	var count int64
	err := db.Conn.Model(&models.Stats{}).
		Where("type = ? AND created_at >= ?", statsType, since).
		Count(&count).Error
	return count, err
}

// AdminDataHandler godoc
// @Summary      Get platform usage data
// @Description  Retrieves user totals, key totals by derived status and
// @Description  activity counters over the requested period.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        period_days  query  int  false  "Activity window in days (default 30, max 365)"
// @Success      200 {object} AdminDataResponse "Usage data"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      403 {object} echo.HTTPError    "Forbidden"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/admin/data [get]
func AdminDataHandler(c echo.Context) error {
	logger := c.Logger()
	now := time.Now()

	periodDays := 30
	if p := c.QueryParam("period_days"); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &periodDays); err != nil || periodDays < 1 {
			periodDays = 30
		}
	}
	if periodDays > 365 {
		periodDays = 365
	}
	since := now.AddDate(0, 0, -periodDays)

	var users UserTotals
	if err := db.Conn.Model(&models.User{}).Count(&users.Total).Error; err != nil {
		logger.Errorf("Failed to count users: %v", err)
		return echo.ErrInternalServerError
	}
	if err := db.Conn.Model(&models.User{}).
		Where("account_expires_at IS NOT NULL AND account_expires_at > ?", now).
		Count(&users.Premium).Error; err != nil {
		logger.Errorf("Failed to count premium users: %v", err)
		return echo.ErrInternalServerError
	}
	if err := db.Conn.Model(&models.User{}).
		Where("account_expires_at IS NOT NULL AND account_expires_at <= ?", now).
		Count(&users.Expired).Error; err != nil {
		logger.Errorf("Failed to count expired users: %v", err)
		return echo.ErrInternalServerError
	}

	var keys KeyTotals
	if err := db.Conn.Model(&models.AccessKey{}).Count(&keys.Total).Error; err != nil {
		logger.Errorf("Failed to count keys: %v", err)
		return echo.ErrInternalServerError
	}
	statusCounts := map[models.KeyStatus]*int64{
		models.KeyStatusUnused:   &keys.Unused,
		models.KeyStatusUsed:     &keys.Used,
		models.KeyStatusExpired:  &keys.Expired,
		models.KeyStatusDisabled: &keys.Disabled,
	}
	for status, target := range statusCounts {
		query, err := keyStatusFilter(db.Conn.Model(&models.AccessKey{}), string(status), now)
		if err != nil {
			logger.Errorf("Failed to build key status filter: %v", err)
			return echo.ErrInternalServerError
		}
		if err := query.Count(target).Error; err != nil {
			logger.Errorf("Failed to count %s keys: %v", status, err)
			return echo.ErrInternalServerError
		}
	}

	activity := ActivityTotals{PeriodDays: periodDays}
	activityCounts := map[models.StatsType]*int64{
		models.StatsTypeSignup:     &activity.Signups,
		models.StatsTypeRedemption: &activity.Redemptions,
		models.StatsTypeLogin:      &activity.Logins,
		models.StatsTypeHeartbeat:  &activity.Heartbeats,
	}
	for statsType, target := range activityCounts {
		count, err := countStats(statsType, since)
		if err != nil {
			logger.Errorf("Failed to count %s stats: %v", statsType, err)
			return echo.ErrInternalServerError
		}
		*target = count
	}

	return c.JSON(http.StatusOK, AdminDataResponse{
		Users:    users,
		Keys:     keys,
		Activity: activity,
		Message:  "Usage data retrieved successfully",
	})
}
