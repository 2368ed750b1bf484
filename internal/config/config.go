package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

var (
	ErrMissingAPIKey       = errors.New("API_KEY is required")
	ErrInvalidTokenStore   = errors.New("TOKEN_STORE must be 'memory' or 'redis'")
	ErrMissingRedisAddress = errors.New("REDIS_ADDRESS is required when TOKEN_STORE=redis")
)

type RedisSettings struct {
	Address  string
	Password string
	DB       int
}

type SecurityConfig struct {
	PasswordResetTokenExpiry time.Duration `mapstructure:"PASSWORD_RESET_TOKEN_EXPIRY"` // e.g., "15m"
	ResetTokenSweepInterval  time.Duration `mapstructure:"RESET_TOKEN_SWEEP_INTERVAL"`
	BcryptCost               int           `mapstructure:"BCRYPT_COST"`
}

type SmtpConfig struct {
	Host     string `mapstructure:"SMTP_HOST"`
	Port     int    `mapstructure:"SMTP_PORT"`
	User     string `mapstructure:"SMTP_USER"`
	Password string `mapstructure:"SMTP_PASSWORD"`
	From     string `mapstructure:"SMTP_FROM"`
	FromName string `mapstructure:"SMTP_FROM_NAME"`
	NOTLS    bool   `mapstructure:"SMTP_NOTLS"`
}

type Config struct {
	// Server port
	Port     string
	Env      string
	LogLevel string
	// Shared secret expected in the x-api-key header
	APIKey    string
	JWTSecret string
	// Branding and links rendered into emails
	AppName     string
	FrontendURL string
	// Fallback recipient for admin copies when the request carries none
	AdminEmail string
	// memory or redis
	TokenStore    string
	RedisSettings RedisSettings
	// Empty keeps accounts in memory
	DatabaseDSN string
	SMTP        SmtpConfig
	Security    SecurityConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_NAME", "Home HNI")
	v.SetDefault("FRONTEND_URL", "https://homehni.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("PASSWORD_RESET_TOKEN_EXPIRY", "15m")
	v.SetDefault("RESET_TOKEN_SWEEP_INTERVAL", "1m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("TOKEN_STORE", TokenStoreMemory)
	v.SetDefault("REDIS_DB", 0)
}

func newFlagSet(v *viper.Viper) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet("scs-mail-server", pflag.ContinueOnError)
	fs.StringP("port", "p", "", "HTTP listen port")
	fs.StringP("env", "e", "", "Environment (development, production)")
	fs.StringP("log-level", "l", "", "Logging level (debug, info, warn, error)")
	fs.String("token-store", "", "Reset token store (memory, redis)")

	bindings := map[string]string{
		"APP_PORT":    "port",
		"APP_ENV":     "env",
		"LOG_LEVEL":   "log-level",
		"TOKEN_STORE": "token-store",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return fs, nil
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// the environment and finally command line flags in args.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	// Load configuration
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	fs, err := newFlagSet(v)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	smtpUser := v.GetString("SMTP_USER")
	from := v.GetString("SMTP_FROM")
	if from == "" {
		from = smtpUser
	}

	cfg := &Config{
		Port:        v.GetString("APP_PORT"),
		Env:         v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		APIKey:      v.GetString("API_KEY"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		AppName:     v.GetString("APP_NAME"),
		FrontendURL: strings.TrimSuffix(v.GetString("FRONTEND_URL"), "/"),
		AdminEmail:  v.GetString("ADMIN_EMAIL"),
		TokenStore:  strings.ToLower(v.GetString("TOKEN_STORE")),
		RedisSettings: RedisSettings{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		SMTP: SmtpConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     smtpUser,
			Password: v.GetString("SMTP_PASSWORD"),
			From:     from,
			FromName: v.GetString("SMTP_FROM_NAME"),
			NOTLS:    v.GetBool("SMTP_NOTLS"),
		},
		Security: SecurityConfig{
			PasswordResetTokenExpiry: v.GetDuration("PASSWORD_RESET_TOKEN_EXPIRY"),
			ResetTokenSweepInterval:  v.GetDuration("RESET_TOKEN_SWEEP_INTERVAL"),
			BcryptCost:               v.GetInt("BCRYPT_COST"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is empty, admin endpoints will reject every token")
	}
	return cfg, nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.TokenStore {
	case TokenStoreMemory:
	case TokenStoreRedis:
		if c.RedisSettings.Address == "" {
			return ErrMissingRedisAddress
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidTokenStore, c.TokenStore)
	}
	if c.Security.PasswordResetTokenExpiry <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TOKEN_EXPIRY must be positive, got %s", c.Security.PasswordResetTokenExpiry)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}
