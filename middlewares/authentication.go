package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cike7635-ux/love-ludo-sub000/commons"
	"github.com/cike7635-ux/love-ludo-sub000/db"
	"github.com/cike7635-ux/love-ludo-sub000/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SupersedeTolerance absorbs clock and processing skew between the moment
// a token is issued and the moment last_login_at lands in the database.
// A stored login newer than the token by more than this window means the
// session was superseded by a login elsewhere.
const SupersedeTolerance = 3 * time.Second

// SessionSuperseded reports whether a session issued at issuedAt has been
// superseded by a later login. Differences within the tolerance window are
// not flagged.
func SessionSuperseded(issuedAt time.Time, lastLoginAt *time.Time) bool {
	if lastLoginAt == nil {
		return false
	}
	return lastLoginAt.Sub(issuedAt) > SupersedeTolerance
}

// VerifyAuthMiddleware authenticates the bearer session token, then enforces
// the single-active-session policy: if the account logged in elsewhere after
// this token was issued, the session row is removed and the request rejected.
func VerifyAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := c.Logger()

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.Error("Authorization header missing or invalid.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Bearer token is required",
			}
		}
		sessionToken := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(sessionToken, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key")), nil
		})
		if err != nil || !token.Valid {
			logger.Error("JWT failed to parse or is invalid: ", err)
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired session token, please login again",
			}
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			logger.Error("Failed to parse JWT claims.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired session token, please login again",
			}
		}

		sessionID := claims["sid"]
		userID := claims["uid"]
		tokenID := claims["jti"]

		session := models.Session{}
		err = db.Conn.Where("id = ? AND user_id = ? AND token = ?", sessionID, userID, tokenID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || session.ExpiresAt == nil || session.ExpiresAt.Before(time.Now()) {
			logger.Error("Session not found or expired.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired session token, please login again",
			}
		}

		user := models.User{}
		if err := db.Conn.Where("id = ?", session.UserID).First(&user).Error; err != nil {
			logger.Error("Session user not found: ", err)
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired session token, please login again",
			}
		}

		issuedAt, err := token.Claims.GetIssuedAt()
		if err != nil || issuedAt == nil {
			logger.Error("Session token has no issued-at claim.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired session token, please login again",
			}
		}

		if SessionSuperseded(issuedAt.Time, user.LastLoginAt) {
			logger.Warnf("Session %d superseded by a newer login for user %d", session.ID, user.ID)
			if err := db.Conn.Unscoped().Delete(&session).Error; err != nil {
				logger.Error("Failed to delete superseded session: ", err)
			}
			return &echo.HTTPError{
				Code: http.StatusUnauthorized,
				Message: map[string]any{
					"error":        "Session superseded by a newer login on another device",
					"email":        user.Email,
					"new_login_at": user.LastLoginAt.Format(time.RFC3339),
				},
			}
		}

		now := time.Now()
		session.LastUsedAt = &now

		if err := db.Conn.Save(&session).Error; err != nil {
			logger.Error("Failed to update session LastUsedAt: ", err)
		}

		c.Set("session", session)
		c.Set("user", user)
		return next(c)
	}
}

func GetAuthenticatedUser(c echo.Context) (*models.User, error) {
	if user, ok := c.Get("user").(models.User); ok {
		return &user, nil
	}

	if session, ok := c.Get("session").(models.Session); ok {
		var user models.User
		err := db.Conn.Where("id = ?", session.UserID).First(&user).Error
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	return nil, errors.New("no authenticated user found")
}
