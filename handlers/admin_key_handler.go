// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/keygen"
	"github.com/cike7635-ux/love-ludo-sub000/middlewares"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func keyToDetails(key models.AccessKey, now time.Time) KeyDetails {
	details := KeyDetails{
		ID:            key.ID,
		Code:          key.Code,
		Prefix:        key.Prefix,
		Status:        string(key.Status(now)),
		IsActive:      key.IsActive,
		UsageCount:    key.UsageCount,
		UsageCap:      key.UsageCap,
		ValidityDays:  key.ValidityDays,
		ValidityHours: key.ValidityHours,
		Description:   key.Description,
		OwnerID:       key.OwnerID,
		CreatedAt:     key.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     key.UpdatedAt.Format(time.RFC3339),
	}
	if key.ExpiresAt != nil {
		expiresAt := key.ExpiresAt.Format(time.RFC3339)
		details.ExpiresAt = &expiresAt
	}
	if key.RedeemedAt != nil {
		redeemedAt := key.RedeemedAt.Format(time.RFC3339)
		details.RedeemedAt = &redeemedAt
	}
	return details
}

// keyStatusFilter translates a derived status into the WHERE clause that
// selects exactly the keys Status() would bucket there.
func keyStatusFilter(query *gorm.DB, status string, now time.Time) (*gorm.DB, error) {
	switch models.KeyStatus(strings.ToUpper(status)) {
	case models.KeyStatusDisabled:
		return query.Where("is_active = ?", false), nil
	case models.KeyStatusExpired:
		return query.Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now), nil
	case models.KeyStatusUsed:
		return query.Where("is_active = ? AND (expires_at IS NULL OR expires_at >= ?) AND usage_count > 0", true, now), nil
	case models.KeyStatusUnused:
		return query.Where("is_active = ? AND (expires_at IS NULL OR expires_at >= ?) AND usage_count = 0", true, now), nil
	default:
		return nil, fmt.Errorf("unknown key status: %s", status)
	}
}

// ListKeysHandler godoc
// @Summary      List access keys
// @Description  Retrieves a paginated list of access keys, optionally filtered
// @Description  by derived status, prefix or exact code.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        status    query   string  false  "Filter by derived status: UNUSED, USED, EXPIRED or DISABLED"
// @Param        prefix    query   string  false  "Filter by key prefix"
// @Param        code      query   string  false  "Filter by exact key code"
// @Param        page      query   int     false  "Page number (default 1)"
// @Param        page_size query   int     false  "Page size (default 10, max 100)"
// @Success      200 {object} KeyListResponse   "Paginated list of keys"
// @Failure      400 {object} echo.HTTPError    "Unknown status filter"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      403 {object} echo.HTTPError    "Forbidden"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/admin/keys [get]
func ListKeysHandler(c echo.Context) error {
	logger := c.Logger()
	now := time.Now()

	query := db.Conn.Model(&models.AccessKey{})
	if status := c.QueryParam("status"); status != "" {
		filtered, err := keyStatusFilter(query, status, now)
		if err != nil {
			logger.Error("Invalid status filter: ", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "status must be one of UNUSED, USED, EXPIRED, DISABLED",
			}
		}
		query = filtered
	}
	if prefix := c.QueryParam("prefix"); prefix != "" {
		query = query.Where("prefix = ?", strings.ToUpper(prefix))
	}
	if code := c.QueryParam("code"); code != "" {
		query = query.Where("code = ?", code)
	}

	page, pageSize := parsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Errorf("Failed to count keys: %v", err)
		return echo.ErrInternalServerError
	}

	var keys []models.AccessKey
	if err := query.Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&keys).Error; err != nil {
		logger.Errorf("Failed to fetch keys: %v", err)
		return echo.ErrInternalServerError
	}

	details := make([]KeyDetails, 0, len(keys))
	for _, key := range keys {
		details = append(details, keyToDetails(key, now))
	}

	return c.JSON(http.StatusOK, KeyListResponse{
		Data:       details,
		Pagination: paginationDetails(page, pageSize, total),
		Message:    "Keys retrieved successfully",
	})
}

// GenerateKeysHandler godoc
// @Summary      Generate access keys
// @Description  Generates a batch of access keys sharing one prefix, validity
// @Description  window, usage cap and expiry.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        generateKeysRequest  body  GenerateKeysRequest  true  "Key generation parameters"
// @Success      201 {object} GenerateKeysResponse "Keys generated"
// @Failure      400 {object} echo.HTTPError       "Invalid generation parameters"
// @Failure      401 {object} echo.HTTPError       "Unauthorized"
// @Failure      403 {object} echo.HTTPError       "Forbidden"
// @Failure      409 {object} echo.HTTPError       "Key code collision"
// @Failure      500 {object} echo.HTTPError       "Internal server error"
// @Router       /v1/admin/keys/generate [post]
func GenerateKeysHandler(c echo.Context) error {
	logger := c.Logger()

	admin, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("User not found in context.")
		return echo.ErrUnauthorized
	}

	var req GenerateKeysRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid generate keys request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Count == 0 {
		req.Count = 1
	}

	params := keygen.Params{
		Prefix:       strings.ToUpper(strings.TrimSpace(req.Prefix)),
		DurationDays: req.DurationDays,
		UsageCap:     req.UsageCap,
		Count:        req.Count,
		Description:  req.Description,
		ExpiryDays:   req.ExpiryDays,
	}
	if err := params.Validate(); err != nil {
		logger.Error("Invalid key generation parameters: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	now := time.Now()
	var expiresAt *time.Time
	if params.ExpiryDays != nil {
		expiry := now.AddDate(0, 0, int(*params.ExpiryDays))
		expiresAt = &expiry
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	// 8 random chars over a 32-char alphabet make collisions vanishingly
	// rare; a couple of retries covers the pathological case.
	const collisionRetries = 3

	keys := make([]models.AccessKey, 0, params.Count)
	for i := 0; i < params.Count; i++ {
		key := models.AccessKey{
			Prefix:        params.Prefix,
			IsActive:      true,
			UsageCap:      params.UsageCap,
			ExpiresAt:     expiresAt,
			ValidityDays:  params.DurationDays,
			ValidityHours: keygen.ValidityHours(params.DurationDays),
			Description:   params.Description,
		}

		for attempt := 0; attempt < collisionRetries; attempt++ {
			code, err := keygen.NewCode(params.Prefix, params.DurationDays)
			if err != nil {
				tx.Rollback()
				logger.Errorf("Failed to generate key code: %v", err)
				return echo.ErrInternalServerError
			}
			var taken int64
			if err := tx.Model(&models.AccessKey{}).Where("code = ?", code).Count(&taken).Error; err != nil {
				tx.Rollback()
				logger.Errorf("Failed to check key code uniqueness: %v", err)
				return echo.ErrInternalServerError
			}
			if taken == 0 {
				key.Code = code
				break
			}
			logger.Warnf("Key code collision on attempt %d, regenerating", attempt+1)
		}
		if key.Code == "" {
			tx.Rollback()
			logger.Error("Key code collisions exhausted retries.")
			return &echo.HTTPError{
				Code:    http.StatusConflict,
				Message: "Generated key codes kept colliding, please retry",
			}
		}

		if err := tx.Create(&key).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				logger.Error("Key code collided with a concurrent insert.")
				return &echo.HTTPError{
					Code:    http.StatusConflict,
					Message: "Generated key code collided, please retry",
				}
			}
			logger.Errorf("Failed to create key: %v", err)
			return echo.ErrInternalServerError
		}

		if err := RecordKeyHistory(tx, key.ID, models.KeyActionGenerated, nil, &admin.ID, params.Description); err != nil {
			tx.Rollback()
			logger.Errorf("Failed to record key history: %v", err)
			return echo.ErrInternalServerError
		}
		keys = append(keys, key)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	details := make([]KeyDetails, 0, len(keys))
	for _, key := range keys {
		details = append(details, keyToDetails(key, now))
	}

	logger.Infof("Generated %d keys with prefix %s", len(keys), params.Prefix)
	return c.JSON(http.StatusCreated, GenerateKeysResponse{
		Data:    details,
		Count:   len(details),
		Message: "Keys generated successfully",
	})
}

func loadKeyParam(c echo.Context) (models.AccessKey, error) {
	keyIDStr := c.Param("key_id")
	if keyIDStr == "" {
		return models.AccessKey{}, &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Key ID is required",
		}
	}

	var keyID uint
	if _, err := fmt.Sscanf(keyIDStr, "%d", &keyID); err != nil {
		return models.AccessKey{}, &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid key ID format",
		}
	}

	key := models.AccessKey{}
	if err := db.Conn.First(&key, keyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AccessKey{}, &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Access key not found",
			}
		}
		return models.AccessKey{}, echo.ErrInternalServerError
	}
	return key, nil
}

func setKeyActive(c echo.Context, active bool) error {
	logger := c.Logger()

	admin, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("User not found in context.")
		return echo.ErrUnauthorized
	}

	key, err := loadKeyParam(c)
	if err != nil {
		return err
	}

	action := models.KeyActionDisabled
	if active {
		action = models.KeyActionEnabled
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	if err := tx.Model(&key).Update("is_active", active).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to update key: %v", err)
		return echo.ErrInternalServerError
	}

	if err := RecordKeyHistory(tx, key.ID, action, nil, &admin.ID, nil); err != nil {
		tx.Rollback()
		logger.Errorf("Failed to record key history: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Key %d set active=%t", key.ID, active)
	return c.JSON(http.StatusOK, GenericResponse{
		Message: fmt.Sprintf("Key %s successfully", string(action)),
	})
}

// EnableKeyHandler godoc
// @Summary      Enable an access key
// @Description  Re-activates a disabled key. Expiry and usage cap checks still
// @Description  apply after re-activation.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        key_id  path  int  true  "Key record ID"
// @Success      200 {object} GenericResponse "Key enabled"
// @Failure      401 {object} echo.HTTPError  "Unauthorized"
// @Failure      403 {object} echo.HTTPError  "Forbidden"
// @Failure      404 {object} echo.HTTPError  "Key not found"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/admin/keys/{key_id}/enable [put]
func EnableKeyHandler(c echo.Context) error {
	return setKeyActive(c, true)
}

// DisableKeyHandler godoc
// @Summary      Disable an access key
// @Description  Deactivates a key so it can no longer be redeemed.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        key_id  path  int  true  "Key record ID"
// @Success      200 {object} GenericResponse "Key disabled"
// @Failure      401 {object} echo.HTTPError  "Unauthorized"
// @Failure      403 {object} echo.HTTPError  "Forbidden"
// @Failure      404 {object} echo.HTTPError  "Key not found"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/admin/keys/{key_id}/disable [put]
func DisableKeyHandler(c echo.Context) error {
	return setKeyActive(c, false)
}

// DeleteKeyHandler godoc
// @Summary      Delete an access key
// @Description  Permanently removes a key. Accounts created from it keep
// @Description  their entitlement; only the key record is removed.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        key_id  path  int  true  "Key record ID"
// @Success      204 "Key deleted"
// @Failure      401 {object} echo.HTTPError  "Unauthorized"
// @Failure      403 {object} echo.HTTPError  "Forbidden"
// @Failure      404 {object} echo.HTTPError  "Key not found"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/admin/keys/{key_id} [delete]
func DeleteKeyHandler(c echo.Context) error {
	logger := c.Logger()

	admin, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("User not found in context.")
		return echo.ErrUnauthorized
	}

	key, err := loadKeyParam(c)
	if err != nil {
		return err
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	if err := RecordKeyHistory(tx, key.ID, models.KeyActionDeleted, nil, &admin.ID, nil); err != nil {
		tx.Rollback()
		logger.Errorf("Failed to record key history: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Delete(&key).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to delete key: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Key %d deleted", key.ID)
	return c.NoContent(http.StatusNoContent)
}

// RotateKeyHandler godoc
// @Summary      Rotate an access key
// @Description  Disables a key and generates a replacement with the same
// @Description  parameters, linking the two in the audit trail.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        key_id  path  int  true  "Key record ID"
// @Success      201 {object} GenerateKeysResponse "Replacement key generated"
// @Failure      401 {object} echo.HTTPError  "Unauthorized"
// @Failure      403 {object} echo.HTTPError  "Forbidden"
// @Failure      404 {object} echo.HTTPError  "Key not found"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/admin/keys/{key_id}/rotate [post]
func RotateKeyHandler(c echo.Context) error {
	logger := c.Logger()

	admin, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("User not found in context.")
		return echo.ErrUnauthorized
	}

	key, err := loadKeyParam(c)
	if err != nil {
		return err
	}

	code, err := keygen.NewCode(key.Prefix, key.ValidityDays)
	if err != nil {
		logger.Errorf("Failed to generate replacement code: %v", err)
		return echo.ErrInternalServerError
	}

	replacement := models.AccessKey{
		Code:          code,
		Prefix:        key.Prefix,
		IsActive:      true,
		UsageCap:      key.UsageCap,
		ExpiresAt:     key.ExpiresAt,
		ValidityDays:  key.ValidityDays,
		ValidityHours: key.ValidityHours,
		Description:   key.Description,
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	if err := tx.Model(&key).Update("is_active", false).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to disable rotated key: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Create(&replacement).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to create replacement key: %v", err)
		return echo.ErrInternalServerError
	}

	note := fmt.Sprintf("rotated from key %d", key.ID)
	if err := RecordKeyRotation(tx, key.ID, replacement.ID, &admin.ID, &note); err != nil {
		tx.Rollback()
		logger.Errorf("Failed to record key rotation: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Key %d rotated to key %d", key.ID, replacement.ID)
	return c.JSON(http.StatusCreated, GenerateKeysResponse{
		Data:    []KeyDetails{keyToDetails(replacement, time.Now())},
		Count:   1,
		Message: "Key rotated successfully",
	})
}

// dedupeIDs drops repeated IDs so a duplicate in a batch request is not
// mistaken for a missing record and does not apply an action twice.
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}

// BatchKeysHandler godoc
// @Summary      Batch enable, disable or delete keys
// @Description  Applies one action to a set of keys inside a single
// @Description  transaction. A failure on any key aborts the whole batch.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        batchKeysRequest  body  BatchKeysRequest  true  "Batch action payload"
// @Success      200 {object} BatchKeysResponse "Batch action completed"
// @Failure      400 {object} echo.HTTPError    "Invalid action or empty ID list"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      403 {object} echo.HTTPError    "Forbidden"
// @Failure      404 {object} echo.HTTPError    "One or more keys not found"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/admin/keys/batch [post]
func BatchKeysHandler(c echo.Context) error {
	logger := c.Logger()

	admin, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("User not found in context.")
		return echo.ErrUnauthorized
	}

	var req BatchKeysRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid batch keys request payload:", err)
		return echo.ErrBadRequest
	}

	if len(req.KeyIDs) == 0 {
		logger.Error("Key IDs are required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "key_ids field must not be empty",
		}
	}

	var action models.KeyAction
	switch strings.ToLower(req.Action) {
	case "enable":
		action = models.KeyActionEnabled
	case "disable":
		action = models.KeyActionDisabled
	case "delete":
		action = models.KeyActionDeleted
	default:
		logger.Errorf("Unknown batch action: %s", req.Action)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "action must be one of enable, disable, delete",
		}
	}

	keyIDs := dedupeIDs(req.KeyIDs)

	var keys []models.AccessKey
	if err := db.Conn.Where("id IN ?", keyIDs).Find(&keys).Error; err != nil {
		logger.Errorf("Failed to fetch keys: %v", err)
		return echo.ErrInternalServerError
	}
	if len(keys) != len(keyIDs) {
		logger.Errorf("Batch references missing keys: requested %d, found %d", len(keyIDs), len(keys))
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "One or more keys were not found, the batch was not applied",
		}
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	for i := range keys {
		var opErr error
		switch action {
		case models.KeyActionEnabled:
			opErr = tx.Model(&keys[i]).Update("is_active", true).Error
		case models.KeyActionDisabled:
			opErr = tx.Model(&keys[i]).Update("is_active", false).Error
		case models.KeyActionDeleted:
			opErr = tx.Delete(&keys[i]).Error
		}
		if opErr != nil {
			tx.Rollback()
			logger.Errorf("Batch action failed on key %d: %v", keys[i].ID, opErr)
			return echo.ErrInternalServerError
		}

		if err := RecordKeyHistory(tx, keys[i].ID, action, nil, &admin.ID, req.Note); err != nil {
			tx.Rollback()
			logger.Errorf("Failed to record key history: %v", err)
			return echo.ErrInternalServerError
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	now := time.Now()
	details := make([]KeyDetails, 0, len(keys))
	if action != models.KeyActionDeleted {
		for _, key := range keys {
			details = append(details, keyToDetails(key, now))
		}
	}

	logger.Infof("Batch %s applied to %d keys", req.Action, len(keys))
	return c.JSON(http.StatusOK, BatchKeysResponse{
		Data:     details,
		Affected: len(keys),
		Message:  "Batch action completed successfully",
	})
}

// KeyHistoryHandler godoc
// @Summary      Get a key's audit trail
// @Description  Retrieves the append-only history of a key, newest first.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        key_id    path   int  true   "Key record ID"
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        page_size query  int  false  "Page size (default 10, max 100)"
// @Success      200 {object} KeyHistoryListResponse "Paginated audit trail"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      403 {object} echo.HTTPError "Forbidden"
// @Failure      404 {object} echo.HTTPError "Key not found"
// @Failure      500 {object} echo.HTTPError "Internal server error"
// @Router       /v1/admin/keys/{key_id}/history [get]
func KeyHistoryHandler(c echo.Context) error {
	logger := c.Logger()

	key, err := loadKeyParam(c)
	if err != nil {
		return err
	}

	page, pageSize := parsePagination(c)

	var total int64
	if err := db.Conn.Model(&models.KeyUsageHistory{}).Where("access_key_id = ?", key.ID).Count(&total).Error; err != nil {
		logger.Errorf("Failed to count key history: %v", err)
		return echo.ErrInternalServerError
	}

	var rows []models.KeyUsageHistory
	if err := db.Conn.Where("access_key_id = ?", key.ID).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error; err != nil {
		logger.Errorf("Failed to fetch key history: %v", err)
		return echo.ErrInternalServerError
	}

	details := make([]KeyHistoryDetails, 0, len(rows))
	for _, row := range rows {
		details = append(details, KeyHistoryDetails{
			EID:       row.EID.String(),
			Action:    string(row.Action),
			UserID:    row.UserID,
			AdminID:   row.AdminID,
			Note:      row.Note,
			PrevKeyID: row.PrevKeyID,
			NextKeyID: row.NextKeyID,
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, KeyHistoryListResponse{
		Data:       details,
		Pagination: paginationDetails(page, pageSize, total),
		Message:    "Key history retrieved successfully",
	})
}
