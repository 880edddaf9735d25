// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// parsePagination reads ?page and ?page_size query params, falling back to
// page 1 with 10 items and clamping the page size at 100.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 10
	if p := c.QueryParam("page"); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &page); err != nil || page < 1 {
			page = 1
		}
	}
	if ps := c.QueryParam("page_size"); ps != "" {
		if _, err := fmt.Sscanf(ps, "%d", &pageSize); err != nil || pageSize < 1 {
			pageSize = 10
		}
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func paginationDetails(page, pageSize int, total int64) PaginationDetails {
	return PaginationDetails{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
