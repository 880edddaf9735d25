// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/labstack/echo/v4"
)

func postBatchUsers(t *testing.T, admin models.User, payload string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/users/batch", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", admin)

	if err := BatchUsersHandler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestBatchUsersDuplicateIDs(t *testing.T) {
	setOfflineEnv(t)
	openHandlerDB(t)

	admin := models.User{Email: "admin@example.com", Password: "hash", IsAdmin: true}
	if err := db.Conn.Create(&admin).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}

	users := []models.User{
		{Email: "one@example.com", Password: "hash"},
		{Email: "two@example.com", Password: "hash"},
	}
	if err := db.Conn.Create(&users).Error; err != nil {
		t.Fatalf("Failed to create users: %v", err)
	}

	// A repeated ID must not read as a missing user or act twice.
	payload := fmt.Sprintf(`{"action":"disable","user_ids":[%d,%d,%d]}`, users[0].ID, users[0].ID, users[1].ID)
	rec := postBatchUsers(t, admin, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for a batch with duplicate IDs, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp BatchUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal batch response: %v", err)
	}
	if resp.Affected != 2 {
		t.Errorf("Expected 2 affected users, got %d", resp.Affected)
	}

	now := time.Now()
	for _, user := range users {
		var stored models.User
		if err := db.Conn.First(&stored, user.ID).Error; err != nil {
			t.Fatalf("Failed to reload user %d: %v", user.ID, err)
		}
		if stored.AccountExpiresAt == nil || stored.AccountExpiresAt.After(now) {
			t.Errorf("User %d should be expired after a batch disable", user.ID)
		}
	}
}

func TestBatchUsersRejectsSelf(t *testing.T) {
	setOfflineEnv(t)
	openHandlerDB(t)

	admin := models.User{Email: "admin@example.com", Password: "hash", IsAdmin: true}
	if err := db.Conn.Create(&admin).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}

	payload := fmt.Sprintf(`{"action":"disable","user_ids":[%d]}`, admin.ID)
	rec := postBatchUsers(t, admin, payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 when an admin batches their own account, got %d: %s", rec.Code, rec.Body.String())
	}
}
