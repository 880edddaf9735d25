package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/commons"
	"github.com/cike7635-ux/love-ludo-sub000/crypto"
	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/events"
	"github.com/cike7635-ux/love-ludo-sub000/models"
	"github.com/cike7635-ux/love-ludo-sub000/notifications"
	"github.com/cike7635-ux/love-ludo-sub000/passwordcheck"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// sessionMarkerFragment is how much of the session token goes into the
// per-user login marker.
const sessionMarkerFragment = 8

func generateSessionToken(c echo.Context, user models.User) (string, models.Session, error) {
	logger := c.Logger()

	sessionToken, err := crypto.GenerateRandomString("st_", 32, "hex")
	if err != nil {
		logger.Errorf("Failed to generate session token: %v", err)
		return "", models.Session{}, err
	}

	sessionExp := time.Now().Add(30 * 24 * time.Hour)
	sessionLastUsed := time.Now()
	session := models.Session{
		UserID:     user.ID,
		Token:      sessionToken,
		LastUsedAt: &sessionLastUsed,
		ExpiresAt:  &sessionExp,
	}

	if err := db.Conn.Create(&session).Error; err != nil {
		logger.Errorf("Failed to create session: %v", err)
		return "", models.Session{}, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://loveludo.app",
		"iat": time.Now().Unix(),
		"sub": user.Email,
		"aud": "https://api.loveludo.app",
		"jti": sessionToken,
		"sid": session.ID,
		"uid": user.ID,
		"exp": session.ExpiresAt.Unix(),
	})

	tokenString, err := token.SignedString([]byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key")))
	if err != nil {
		logger.Errorf("Failed to sign token: %v", err)
		return "", models.Session{}, err
	}

	return tokenString, session, nil
}

// SignupWithKeyHandler godoc
// @Summary      Register a new user with an access key
// @Description  Redeems an access key and creates the account it licenses.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signupWithKeyRequest  body  SignupWithKeyRequest  true  "Signup request payload"
// @Success      201 {object} AuthResponse 	 "Signup successful"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      403 {object} echo.HTTPError     "Key inactive, exhausted or expired"
// @Failure      404 {object} echo.HTTPError     "Key not found"
// @Failure      409 {object} echo.HTTPError     "Duplicate user"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/signup-with-key [post]
func SignupWithKeyHandler(c echo.Context) error {
	logger := c.Logger()

	var req SignupWithKeyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid signup request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Email == "" {
		logger.Error("Email is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email field is required",
		}
	}

	if req.Password == "" {
		logger.Error("Password is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "password field is required",
		}
	}

	if req.KeyCode == "" {
		logger.Error("Key code is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "key_code field is required",
		}
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.Password); err != nil {
		logger.Error("Password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	key := models.AccessKey{}
	if err := db.Conn.Where("code = ?", req.KeyCode).First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Access key not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Access key not found, please check the code and try again",
			}
		}
		logger.Errorf("Failed to look up access key: %v", err)
		return echo.ErrInternalServerError
	}

	now := time.Now()
	if err := key.Redeemable(now); err != nil {
		logger.Error("Access key not redeemable: ", err)
		switch {
		case errors.Is(err, models.ErrKeyInactive):
			return &echo.HTTPError{
				Code:    http.StatusForbidden,
				Message: "This access key is inactive",
			}
		case errors.Is(err, models.ErrKeyExhausted):
			return &echo.HTTPError{
				Code:    http.StatusForbidden,
				Message: "This access key's usage cap is exhausted",
			}
		case errors.Is(err, models.ErrKeyExpired):
			return &echo.HTTPError{
				Code:    http.StatusForbidden,
				Message: "This access key has expired",
			}
		default:
			return echo.ErrInternalServerError
		}
	}

	count := db.Conn.Where("email = ?", req.Email).First(&models.User{}).RowsAffected
	if count > 0 {
		logger.Error("This email is already registered.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "This email is already registered, please try another one.",
		}
	}

	newCrypto := crypto.NewCrypto()
	hash, err := newCrypto.HashPassword(req.Password)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	accountExpiry := key.AccountExpiry(now)
	firstRedemption := key.UsageCount == 0

	user := models.User{
		Email:            req.Email,
		Password:         hash,
		Nickname:         req.Nickname,
		AccountExpiresAt: &accountExpiry,
		AccessKeyID:      &key.ID,
	}

	tx := db.Conn.Begin()
	if tx.Error != nil {
		logger.Errorf("Transaction begin failed: %v", tx.Error)
		return echo.ErrInternalServerError
	}

	if err := models.IncrementUsage(tx, key.ID); err != nil {
		tx.Rollback()
		if errors.Is(err, models.ErrKeyExhausted) {
			logger.Error("Access key usage cap exhausted during redemption.")
			return &echo.HTTPError{
				Code:    http.StatusForbidden,
				Message: "This access key's usage cap is exhausted",
			}
		}
		logger.Errorf("Failed to increment key usage: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to create user: %v", err)
		return echo.ErrInternalServerError
	}

	if firstRedemption {
		if err := tx.Model(&key).Updates(map[string]any{
			"owner_id":    user.ID,
			"redeemed_at": now,
		}).Error; err != nil {
			tx.Rollback()
			logger.Errorf("Failed to stamp key owner: %v", err)
			return echo.ErrInternalServerError
		}
	}

	if err := RecordKeyHistory(tx, key.ID, models.KeyActionRedeemed, &user.ID, nil, nil); err != nil {
		tx.Rollback()
		logger.Errorf("Failed to record key history: %v", err)
		return echo.ErrInternalServerError
	}

	stats := []models.Stats{
		{Type: models.StatsTypeSignup, KeyPrefix: &key.Prefix},
		{Type: models.StatsTypeRedemption, KeyPrefix: &key.Prefix},
	}
	if err := tx.Create(&stats).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to create stats: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Transaction commit failed: %v", err)
		return echo.ErrInternalServerError
	}

	sessionToken, _, err := generateSessionToken(c, user)
	if err != nil {
		logger.Errorf("Failed to generate session token after signup: %v", err)
		return echo.ErrInternalServerError
	}

	go events.Emit(events.RouteSignup, user.ID, &key.Prefix, nil)
	go events.Emit(events.RouteRedeemed, user.ID, &key.Prefix, &key.Code)

	vars := map[string]any{
		"base_url":   commons.GetEnv("BASE_URL", "https://api.loveludo.app"),
		"expires_at": accountExpiry.Format(time.RFC3339),
	}
	if req.Nickname != nil && *req.Nickname != "" {
		vars["name"] = *req.Nickname
	}

	go notifications.DispatchNotification(notifications.Email, notifications.SMTP, notifications.NotificationData{
		To:        req.Email,
		ToName:    req.Nickname,
		Subject:   "Welcome to Love Ludo!",
		Template:  "welcome",
		Variables: vars,
	})

	logger.Infof("User signed up successfully with key %d", key.ID)
	return c.JSON(http.StatusCreated, AuthResponse{
		SessionToken: sessionToken,
		Message:      "Signup successful",
	})
}

// LoginHandler godoc
// @Summary      Login a user
// @Description  Authenticates a user and returns a token. The newest login
// @Description  supersedes any session held on another device.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body  LoginRequest  true  "Login request payload"
// @Success      200 {object} AuthResponse 	 "Login successful"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/login [post]
func LoginHandler(c echo.Context) error {
	logger := c.Logger()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid login request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Email == "" {
		logger.Error("Email is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email field is required",
		}
	}

	if req.Password == "" {
		logger.Error("Password is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "password field is required",
		}
	}

	newCrypto := crypto.NewCrypto()
	user := models.User{}

	if err := db.Conn.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("User not found.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Credentials are incorrect, please check your email and password",
			}
		}

		logger.Errorf("Failed to find user: %v", err)
		return echo.ErrInternalServerError
	}

	if err := newCrypto.VerifyPassword(req.Password, user.Password); err != nil {
		logger.Error("Password verification failed.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Credentials are incorrect, please check your email and password",
		}
	}

	sessionToken, session, err := generateSessionToken(c, user)
	if err != nil {
		logger.Errorf("Failed to generate session token after login: %v", err)
		return echo.ErrInternalServerError
	}

	// The login marker supersedes every session issued before this one;
	// older devices are signed out on their next request.
	now := time.Now()
	marker := fmt.Sprintf("%d:%s", user.ID, session.Token[len(session.Token)-sessionMarkerFragment:])
	if err := db.Conn.Model(&user).Updates(map[string]any{
		"last_login_at":      now,
		"last_login_session": marker,
	}).Error; err != nil {
		logger.Errorf("Failed to update login marker: %v", err)
		return echo.ErrInternalServerError
	}

	if err := db.Conn.Create(&models.Stats{Type: models.StatsTypeLogin}).Error; err != nil {
		logger.Errorf("Failed to create login stat: %v", err)
	}

	go events.Emit(events.RouteLogin, user.ID, nil, nil)

	return c.JSON(http.StatusOK, AuthResponse{
		SessionToken: sessionToken,
		Message:      "Login successful",
	})
}

// LogoutHandler godoc
// @Summary      Logout a user
// @Description  Logs out a user and invalidates the session.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      204 "Logout successful"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/logout [post]
func LogoutHandler(c echo.Context) error {
	logger := c.Logger()

	session, ok := c.Get("session").(models.Session)
	if !ok {
		logger.Error("Session not found in context.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired session token, please login again",
		}
	}

	if err := db.Conn.Unscoped().Delete(&session).Error; err != nil {
		logger.Errorf("Failed to delete session: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("User logged out successfully")
	return c.NoContent(http.StatusNoContent)
}
