// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openHandlerDB points the package connection at a fresh in-memory
// database for the duration of a test.
func openHandlerDB(t *testing.T) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A second pool connection would see its own empty in-memory database.
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to access database pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.Conn = conn
}

func setOfflineEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PWNED_PASSWORDS_ENABLED", "false")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("MOCK_EMAIL_NOTIFICATIONS", "true")
}

func postSignup(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup-with-key", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := SignupWithKeyHandler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSignupWithKeyConsumesCap(t *testing.T) {
	setOfflineEnv(t)
	openHandlerDB(t)

	usageCap := uint(1)
	key := models.AccessKey{
		Code:         "XY-7D-A2B3C4D5",
		Prefix:       "XY",
		IsActive:     true,
		UsageCap:     &usageCap,
		ValidityDays: 7,
	}
	if err := db.Conn.Create(&key).Error; err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	rec := postSignup(t, `{"email":"first@example.com","password":"MySecretPassword@123","key_code":"XY-7D-A2B3C4D5"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for first redemption, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal signup response: %v", err)
	}
	if resp.SessionToken == "" {
		t.Error("Signup should return a session token")
	}

	var stored models.AccessKey
	if err := db.Conn.First(&stored, key.ID).Error; err != nil {
		t.Fatalf("Failed to reload key: %v", err)
	}
	if stored.UsageCount != 1 {
		t.Errorf("Redemption should increment usage by exactly 1, got %d", stored.UsageCount)
	}
	if stored.OwnerID == nil || stored.RedeemedAt == nil {
		t.Error("First redemption should stamp owner and redeemed_at")
	}

	var historyRows int64
	if err := db.Conn.Model(&models.KeyUsageHistory{}).
		Where("access_key_id = ? AND action = ?", key.ID, models.KeyActionRedeemed).
		Count(&historyRows).Error; err != nil {
		t.Fatalf("Failed to count history rows: %v", err)
	}
	if historyRows != 1 {
		t.Errorf("Expected one REDEEMED history row, got %d", historyRows)
	}

	rec = postSignup(t, `{"email":"second@example.com","password":"MySecretPassword@123","key_code":"XY-7D-A2B3C4D5"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 once the cap is consumed, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "exhausted") {
		t.Errorf("Expected cap-exhausted message, got %s", rec.Body.String())
	}

	if err := db.Conn.First(&stored, key.ID).Error; err != nil {
		t.Fatalf("Failed to reload key: %v", err)
	}
	if stored.UsageCount != 1 {
		t.Errorf("Counter must stay at the cap after a rejected redemption, got %d", stored.UsageCount)
	}

	var secondUser int64
	if err := db.Conn.Model(&models.User{}).Where("email = ?", "second@example.com").Count(&secondUser).Error; err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if secondUser != 0 {
		t.Error("Rejected redemption must not create an account")
	}
}

func TestSignupWithDisabledKey(t *testing.T) {
	setOfflineEnv(t)
	openHandlerDB(t)

	key := models.AccessKey{
		Code:         "XY-7D-E6F7G8H9",
		Prefix:       "XY",
		IsActive:     false,
		ValidityDays: 7,
	}
	if err := db.Conn.Create(&key).Error; err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	rec := postSignup(t, `{"email":"user@example.com","password":"MySecretPassword@123","key_code":"XY-7D-E6F7G8H9"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for a disabled key, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "inactive") {
		t.Errorf("Expected inactive-key message, got %s", rec.Body.String())
	}

	var stored models.AccessKey
	if err := db.Conn.First(&stored, key.ID).Error; err != nil {
		t.Fatalf("Failed to reload key: %v", err)
	}
	if stored.UsageCount != 0 {
		t.Errorf("Disabled key counter should stay at 0, got %d", stored.UsageCount)
	}
}
