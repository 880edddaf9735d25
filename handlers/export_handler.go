// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/labstack/echo/v4"
)

// utf8BOM prefixes CSV exports so spreadsheet tools detect the encoding.
const utf8BOM = "\xEF\xBB\xBF"

// exportColumns is the full, ordered set of columns an export may request.
var exportColumns = []string{
	"id", "code", "prefix", "status", "is_active", "usage_count",
	"usage_cap", "expires_at", "validity_days", "description",
	"owner_id", "redeemed_at", "created_at",
}

func parseExportColumns(raw string) ([]string, error) {
	if raw == "" {
		return exportColumns, nil
	}

	allowed := make(map[string]bool, len(exportColumns))
	for _, col := range exportColumns {
		allowed[col] = true
	}

	var columns []string
	for _, col := range strings.Split(raw, ",") {
		col = strings.TrimSpace(strings.ToLower(col))
		if col == "" {
			continue
		}
		if !allowed[col] {
			return nil, fmt.Errorf("unknown export column: %s", col)
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return exportColumns, nil
	}
	return columns, nil
}

func exportCell(key models.AccessKey, column string, now time.Time) string {
	switch column {
	case "id":
		return strconv.FormatUint(uint64(key.ID), 10)
	case "code":
		return key.Code
	case "prefix":
		return key.Prefix
	case "status":
		return string(key.Status(now))
	case "is_active":
		return strconv.FormatBool(key.IsActive)
	case "usage_count":
		return strconv.FormatUint(uint64(key.UsageCount), 10)
	case "usage_cap":
		if key.UsageCap == nil {
			return ""
		}
		return strconv.FormatUint(uint64(*key.UsageCap), 10)
	case "expires_at":
		if key.ExpiresAt == nil {
			return ""
		}
		return key.ExpiresAt.Format(time.RFC3339)
	case "validity_days":
		return strconv.FormatFloat(key.ValidityDays, 'f', -1, 64)
	case "description":
		if key.Description == nil {
			return ""
		}
		return *key.Description
	case "owner_id":
		if key.OwnerID == nil {
			return ""
		}
		return strconv.FormatUint(uint64(*key.OwnerID), 10)
	case "redeemed_at":
		if key.RedeemedAt == nil {
			return ""
		}
		return key.RedeemedAt.Format(time.RFC3339)
	case "created_at":
		return key.CreatedAt.Format(time.RFC3339)
	default:
		return ""
	}
}

// buildKeyCSV renders keys as UTF-8 CSV with a BOM and a header row.
func buildKeyCSV(keys []models.AccessKey, columns []string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	writer := csv.NewWriter(&buf)
	if err := writer.Write(columns); err != nil {
		return nil, err
	}

	row := make([]string, len(columns))
	for _, key := range keys {
		for i, column := range columns {
			row[i] = exportCell(key, column, now)
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportKeysHandler godoc
// @Summary      Export access keys
// @Description  Exports keys as CSV or JSON, optionally restricted to a column
// @Description  subset and filtered like the list endpoint.
// @Tags         admin
// @Produce      text/csv
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        format   query  string  false  "Export format: csv (default) or json"
// @Param        columns  query  string  false  "Comma-separated column subset"
// @Param        status   query  string  false  "Filter by derived status"
// @Param        prefix   query  string  false  "Filter by key prefix"
// @Success      200 "Exported keys"
// @Failure      400 {object} echo.HTTPError "Unknown format, column or status"
// @Failure      401 {object} echo.HTTPError "Unauthorized"
// @Failure      403 {object} echo.HTTPError "Forbidden"
// @Failure      500 {object} echo.HTTPError "Internal server error"
// @Router       /v1/admin/keys/export [get]
func ExportKeysHandler(c echo.Context) error {
	logger := c.Logger()
	now := time.Now()

	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		logger.Errorf("Unknown export format: %s", format)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "format must be csv or json",
		}
	}

	columns, err := parseExportColumns(c.QueryParam("columns"))
	if err != nil {
		logger.Error("Invalid export columns: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

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

	var keys []models.AccessKey
	if err := query.Order("created_at DESC, id DESC").Find(&keys).Error; err != nil {
		logger.Errorf("Failed to fetch keys for export: %v", err)
		return echo.ErrInternalServerError
	}

	if format == "json" {
		details := make([]KeyDetails, 0, len(keys))
		for _, key := range keys {
			details = append(details, keyToDetails(key, now))
		}
		return c.JSON(http.StatusOK, details)
	}

	data, err := buildKeyCSV(keys, columns, now)
	if err != nil {
		logger.Errorf("Failed to build CSV export: %v", err)
		return echo.ErrInternalServerError
	}

	filename := fmt.Sprintf("keys-%s.csv", now.Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
