package router

import (
	"github.com/labstack/echo/v4"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/handlers"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/middleware"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

// SetupEmailRoutes registers the send endpoints. The API key check is attached
// per route so unmatched paths still answer 404 instead of 401.
func SetupEmailRoutes(e *echo.Echo, emailHandler *handlers.EmailHandler, apiKey string) {
	keyAuth := middleware.APIKey(apiKey)

	e.POST("/send-email", emailHandler.SendEmail, keyAuth)        // Generic email
	e.POST("/send-:template", emailHandler.SendTemplate, keyAuth) // /send-<template>-email
}

func SetupPasswordResetRoutes(e *echo.Echo, resetHandler *handlers.PasswordResetHandler, apiKey string) {
	keyAuth := middleware.APIKey(apiKey)

	e.POST("/forgot-password", resetHandler.ForgotPassword, keyAuth)       // Issue token and mail the link
	e.GET("/reset-password/validate", resetHandler.ValidateToken, keyAuth) // Check a link before showing the form
	e.POST("/reset-password", resetHandler.ResetPassword, keyAuth)         // Consume token, store new password
	e.POST("/verify-password", resetHandler.VerifyPassword, keyAuth)       // Compare against the stored hash
}

func SetupAdminRoutes(e *echo.Echo, adminHandler *handlers.AdminHandler, tokens service.JWTGenerator) {
	admin := e.Group("/admin", middleware.AdminJWT(tokens))

	admin.GET("/reset-tokens/stats", adminHandler.ResetTokenStats)
	admin.POST("/reset-tokens/sweep", adminHandler.SweepResetTokens)
}
