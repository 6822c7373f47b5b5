// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"descripto_backend/internal/feature/auth/usecase"
	"descripto_backend/internal/platform/db"
	"descripto_backend/internal/platform/externalapi/google"
	"descripto_backend/internal/platform/mongo"
	"descripto_backend/internal/platform/redis"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StorePostgres = db.DriverPostgres
	StoreSQLite   = db.DriverSQLite
	StoreMongo    = "mongo"
)

// Config is the full application configuration.
type Config struct {
	Port               string   `env:"PORT" envDefault:"8080"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string   `env:"LOG_FORMAT" envDefault:"json"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"sqlite"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	JWT      JWTConfig
	Password PasswordConfig
	Google   GoogleConfig
	Gemini   GeminiConfig

	DB    db.Config
	Redis redis.Config
	Mongo mongo.Config
}

// JWTConfig configures token signing.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" envDefault:"168h"`
}

// PasswordConfig configures the password policy.
type PasswordConfig struct {
	MinLength          int  `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`
	RequireUppercase   bool `env:"REQUIRE_UPPERCASE" envDefault:"true"`
	RequireNumber      bool `env:"REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecialChar bool `env:"REQUIRE_SPECIAL_CHAR" envDefault:"true"`
}

// GoogleConfig configures Google Sign-In.
type GoogleConfig struct {
	ClientID string        `env:"GOOGLE_CLIENT_ID"`
	CertsURL string        `env:"GOOGLE_CERTS_URL" envDefault:"https://www.googleapis.com/oauth2/v1/certs"`
	Timeout  time.Duration `env:"GOOGLE_CERTS_TIMEOUT" envDefault:"10s"`
}

// GeminiConfig configures the description generator.
type GeminiConfig struct {
	APIKey     string        `env:"GOOGLE_API_KEY"`
	Model      string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-lite"`
	Timeout    time.Duration `env:"GEMINI_TIMEOUT" envDefault:"30s"`
	DailyLimit int           `env:"DESCRIPTION_DAILY_LIMIT" envDefault:"200"`
	// BaseURL overrides the Gemini API endpoint, e.g. for a proxy.
	BaseURL string `env:"GEMINI_BASE_URL"`
}

// Load reads the given dotenv files (default ".env"), ignoring missing ones,
// and parses the environment into a Config. Real environment variables win
// over dotenv values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StorePostgres, StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Password.MinLength < 1 {
		return fmt.Errorf("MIN_PASSWORD_LENGTH must be positive, got %d", c.Password.MinLength)
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

// PasswordPolicy builds the password policy from configuration.
func (c *Config) PasswordPolicy() usecase.PasswordPolicy {
	return usecase.PasswordPolicy{
		MinLength:          c.Password.MinLength,
		RequireUppercase:   c.Password.RequireUppercase,
		RequireDigit:       c.Password.RequireNumber,
		RequireSpecialChar: c.Password.RequireSpecialChar,
	}
}

// GoogleVerifier returns the settings for Google ID token verification.
func (c *Config) GoogleVerifier() google.Config {
	return google.Config{
		ClientID: c.Google.ClientID,
		CertsURL: c.Google.CertsURL,
		Timeout:  c.Google.Timeout,
	}
}
