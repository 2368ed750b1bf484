package mocks

import (
	"time"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/config"
)

const TestAPIKey = "test-api-key"

func CreateTestConfig() *config.Config {
	return &config.Config{
		Port:        "3000",
		Env:         "test",
		LogLevel:    "debug",
		APIKey:      TestAPIKey,
		JWTSecret:   "test-jwt-secret-for-admin-tests",
		AppName:     "Home HNI",
		FrontendURL: "https://homehni.com",
		TokenStore:  config.TokenStoreMemory,
		SMTP: config.SmtpConfig{
			Host: "smtp.example.com",
			Port: 587,
			From: "noreply@homehni.com",
		},
		Security: config.SecurityConfig{
			PasswordResetTokenExpiry: 15 * time.Minute,
			ResetTokenSweepInterval:  time.Minute,
			BcryptCost:               4,
		},
	}
}
