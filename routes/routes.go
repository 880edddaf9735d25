// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"github.com/cike7635-ux/love-ludo-sub000/commons"
	"github.com/cike7635-ux/love-ludo-sub000/handlers"
	"github.com/cike7635-ux/love-ludo-sub000/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	commons.Logger.Debug("Registering v1 routes")
	api_v1 := e.Group("/v1")
	api_v1.POST("/auth/signup-with-key", handlers.SignupWithKeyHandler)
	api_v1.POST("/auth/login", handlers.LoginHandler)
	api_v1.POST("/auth/logout", handlers.LogoutHandler, middlewares.VerifyAuthMiddleware)
	api_v1.POST("/heartbeat", handlers.HeartbeatHandler, middlewares.VerifyAuthMiddleware)

	admin := api_v1.Group("/admin", middlewares.VerifyAuthMiddleware, middlewares.RequireAdminMiddleware)
	admin.GET("/keys", handlers.ListKeysHandler)
	admin.POST("/keys/generate", handlers.GenerateKeysHandler)
	admin.POST("/keys/batch", handlers.BatchKeysHandler)
	admin.GET("/keys/export", handlers.ExportKeysHandler)
	admin.PUT("/keys/:key_id/enable", handlers.EnableKeyHandler)
	admin.PUT("/keys/:key_id/disable", handlers.DisableKeyHandler)
	admin.POST("/keys/:key_id/rotate", handlers.RotateKeyHandler)
	admin.GET("/keys/:key_id/history", handlers.KeyHistoryHandler)
	admin.DELETE("/keys/:key_id", handlers.DeleteKeyHandler)
	admin.GET("/users", handlers.ListUsersHandler)
	admin.POST("/users/batch", handlers.BatchUsersHandler)
	admin.GET("/data", handlers.AdminDataHandler)
	commons.Logger.Info("v1 routes registered successfully")
}
