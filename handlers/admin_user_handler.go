// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/middlewares"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/labstack/echo/v4"
)

func userToDetails(user models.User, now time.Time) UserDetails {
	details := UserDetails{
		ID:            user.ID,
		Email:         user.Email,
		Nickname:      user.Nickname,
		IsAdmin:       user.IsAdmin,
		AccountStatus: accountStatus(user, now),
		AccessKeyID:   user.AccessKeyID,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
	}
	if user.AccountExpiresAt != nil {
		expiresAt := user.AccountExpiresAt.Format(time.RFC3339)
		details.AccountExpiresAt = &expiresAt
	}
	if user.LastLoginAt != nil {
		lastLogin := user.LastLoginAt.Format(time.RFC3339)
		details.LastLoginAt = &lastLogin
	}
	return details
}

// ListUsersHandler godoc
// @Summary      List users
// @Description  Retrieves a paginated list of user accounts, optionally
// @Description  filtered by email substring or entitlement status.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        email     query  string  false  "Filter by email substring"
// @Param        status    query  string  false  "Filter by account status: PREMIUM, EXPIRED or FREE"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        page_size query  int     false  "Page size (default 10, max 100)"
// @Success      200 {object} UserListResponse "Paginated list of users"
// @Failure      400 {object} echo.HTTPError   "Unknown status filter"
// @Failure      401 {object} echo.HTTPError   "Unauthorized"
// @Failure      403 {object} echo.HTTPError   "Forbidden"
// @Failure      500 {object} echo.HTTPError   "Internal server error"
// @Router       /v1/admin/users [get]
func ListUsersHandler(c echo.Context) error {
	logger := c.Logger()
	now := time.Now()

	query := db.Conn.Model(&models.User{})
	if email := c.QueryParam("email"); email != "" {
		query = query.Where("email LIKE ?", "%"+email+"%")
	}
	if status := c.QueryParam("status"); status != "" {
		switch strings.ToUpper(status) {
		case "PREMIUM":
			query = query.Where("account_expires_at IS NOT NULL AND account_expires_at > ?", now)
		case "EXPIRED":
			query = query.Where("account_expires_at IS NOT NULL AND account_expires_at <= ?", now)
		case "FREE":
			query = query.Where("account_expires_at IS NULL")
		default:
			logger.Errorf("Unknown account status filter: %s", status)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "status must be one of PREMIUM, EXPIRED, FREE",
			}
		}
	}

	page, pageSize := parsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Errorf("Failed to count users: %v", err)
		return echo.ErrInternalServerError
	}

	var users []models.User
	if err := query.Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error; err != nil {
		logger.Errorf("Failed to fetch users: %v", err)
		return echo.ErrInternalServerError
	}

	details := make([]UserDetails, 0, len(users))
	for _, user := range users {
		details = append(details, userToDetails(user, now))
	}

	return c.JSON(http.StatusOK, UserListResponse{
		Data:       details,
		Pagination: paginationDetails(page, pageSize, total),
		Message:    "Users retrieved successfully",
	})
}

// BatchUsersHandler godoc
// @Summary      Batch enable, disable or delete users
// @Description  Applies one action to a set of accounts inside a single
// @Description  transaction. Disabling expires the account immediately and
// @Description  revokes its sessions; enabling grants a far-future expiry.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        batchUsersRequest  body  BatchUsersRequest  true  "Batch action payload"
// @Success      200 {object} BatchUsersResponse "Batch action completed"
// @Failure      400 {object} echo.HTTPError     "Invalid action or empty ID list"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      403 {object} echo.HTTPError     "Forbidden"
// @Failure      404 {object} echo.HTTPError     "One or more users not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/admin/users/batch [post]
func BatchUsersHandler(c echo.Context) error {
	logger := c.Logger()

	admin, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("User not found in context.")
		return echo.ErrUnauthorized
	}

	var req BatchUsersRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid batch users request payload:", err)
		return echo.ErrBadRequest
	}

	if len(req.UserIDs) == 0 {
		logger.Error("User IDs are required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "user_ids field must not be empty",
		}
	}

	action := strings.ToLower(req.Action)
	if action != "enable" && action != "disable" && action != "delete" {
		logger.Errorf("Unknown batch action: %s", req.Action)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "action must be one of enable, disable, delete",
		}
	}

	for _, id := range req.UserIDs {
		if id == admin.ID {
			logger.Error("Admin attempted to batch-modify their own account.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "You cannot include your own account in a batch action",
			}
		}
	}

	userIDs := dedupeIDs(req.UserIDs)

	var users []models.User
	if err := db.Conn.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		logger.Errorf("Failed to fetch users: %v", err)
		return echo.ErrInternalServerError
	}
	if len(users) != len(userIDs) {
		logger.Errorf("Batch references missing users: requested %d, found %d", len(userIDs), len(users))
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "One or more users were not found, the batch was not applied",
		}
	}

	now := time.Now()
	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	for i := range users {
		var opErr error
		switch action {
		case "enable":
			// Manual enablement grants an effectively unlimited window.
			opErr = tx.Model(&users[i]).Update("account_expires_at", now.AddDate(100, 0, 0)).Error
		case "disable":
			opErr = tx.Model(&users[i]).Update("account_expires_at", now).Error
		case "delete":
			opErr = tx.Delete(&users[i]).Error
		}
		if opErr != nil {
			tx.Rollback()
			logger.Errorf("Batch action failed on user %d: %v", users[i].ID, opErr)
			return echo.ErrInternalServerError
		}

		if action == "disable" || action == "delete" {
			if err := tx.Unscoped().Where("user_id = ?", users[i].ID).Delete(&models.Session{}).Error; err != nil {
				tx.Rollback()
				logger.Errorf("Failed to revoke sessions for user %d: %v", users[i].ID, err)
				return echo.ErrInternalServerError
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Batch %s applied to %d users", action, len(users))
	return c.JSON(http.StatusOK, BatchUsersResponse{
		Affected: len(users),
		Message:  "Batch action completed successfully",
	})
}
