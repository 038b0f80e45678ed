// Package config loads process-wide settings from the environment.
package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

// MinSecretLength is the minimum accepted JWT signing secret length in bytes.
const MinSecretLength = 32

var (
	ErrSecretMissing  = errors.New("JWT_SECRET is required")
	ErrSecretTooShort = fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
	ErrSecretWeak     = errors.New("JWT_SECRET is a known example value")
	ErrLoginPath      = errors.New("LOGIN_PATH must be an absolute path outside /admin")
)

// knownWeakSecrets are example values that have shipped in docs and .env samples.
var knownWeakSecrets = []string{
	"change-me-to-a-long-random-secret-value",
	"your-secret-key-change-in-production-please",
	"00000000000000000000000000000000",
}

type Config struct {
	Env                string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8431"`
	JWTSecret          string        `env:"JWT_SECRET"`
	LoginPath          string        `env:"LOGIN_PATH" envDefault:"/login"`
	UploadDir          string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadMaxBytes     int64         `env:"UPLOAD_MAX_BYTES" envDefault:"20971520"`
	PublicUploadPrefix string        `env:"PUBLIC_UPLOAD_PREFIX" envDefault:"/uploads"`
	CORSOrigins        []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	NotifyTo           string        `env:"NOTIFY_TO" envDefault:"office@example.com"`
	SnowflakeNode      int64         `env:"SNOWFLAKE_NODE" envDefault:"1"`

	Database database.Config
	Log      utilities.Config
}

// IsProduction reports whether cookies must be marked Secure.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load parses environment variables and validates the signing secret.
// There is no fallback secret: a missing or weak value is a startup error.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
		if cfg.Log.Dev {
			cfg.Log.Level = "debug"
		}
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 5
	}
	if err := ValidateSecret(cfg.JWTSecret); err != nil {
		return nil, err
	}
	if err := ValidateLoginPath(cfg.LoginPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateSecret rejects empty, short, and known example secrets.
func ValidateSecret(secret string) error {
	if secret == "" {
		return ErrSecretMissing
	}
	if len(secret) < MinSecretLength {
		return ErrSecretTooShort
	}
	for _, weak := range knownWeakSecrets {
		if secret == weak {
			return ErrSecretWeak
		}
	}
	return nil
}

// ValidateLoginPath rejects login paths the admin route guard would
// redirect back to themselves.
func ValidateLoginPath(p string) error {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return ErrLoginPath
	}
	clean := strings.ToLower(path.Clean(p))
	if clean == "/admin" || strings.HasPrefix(clean, "/admin/") {
		return ErrLoginPath
	}
	return nil
}
