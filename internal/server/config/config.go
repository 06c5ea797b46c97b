// Package config загружает конфигурацию сервера из переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/taskapi/internal/server/token"
)

// EnvPrefix префикс всех переменных окружения сервера
const EnvPrefix = "TASKAPI_"

// MaxJWTExpirationMS наибольшее время жизни токена, представимое в time.Duration
const MaxJWTExpirationMS = math.MaxInt64 / int64(time.Millisecond)

// Config holds the server settings.
type Config struct {
	Addr            string        `env:"ADDR"              envDefault:":8080"`
	DBPath          string        `env:"DB_PATH"           envDefault:"taskapi.db"`
	JWTSecret       string        `env:"JWT_SECRET,required,unset"`
	JWTExpirationMS int64         `env:"JWT_EXPIRATION_MS" envDefault:"86400000"`
	BcryptCost      int           `env:"BCRYPT_COST"       envDefault:"10"`
	LogLevel        slog.Level    `env:"LOG_LEVEL"         envDefault:"info"`
	AuthRateLimit   int           `env:"AUTH_RATE_LIMIT"   envDefault:"20"`
	AuthRateWindow  time.Duration `env:"AUTH_RATE_WINDOW"  envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"  envDefault:"10s"`
}

// Load читает конфигурацию из окружения процесса
func Load() (*Config, error) {
	return load(env.Options{Prefix: EnvPrefix})
}

// LoadFrom читает конфигурацию из переданного набора переменных (без префикса процесса)
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, при которых сервер не должен стартовать
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < token.MinSecretLength {
		errs = append(errs, fmt.Errorf("%sJWT_SECRET must be at least %d bytes", EnvPrefix, token.MinSecretLength))
	}
	if c.JWTExpirationMS <= 0 {
		errs = append(errs, fmt.Errorf("%sJWT_EXPIRATION_MS must be positive", EnvPrefix))
	} else if c.JWTExpirationMS > MaxJWTExpirationMS {
		errs = append(errs, fmt.Errorf("%sJWT_EXPIRATION_MS must not exceed %d", EnvPrefix, MaxJWTExpirationMS))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("%sBCRYPT_COST must be between %d and %d", EnvPrefix, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("%sAUTH_RATE_LIMIT must be positive", EnvPrefix))
	}
	if c.AuthRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("%sAUTH_RATE_WINDOW must be positive", EnvPrefix))
	}

	return errors.Join(errs...)
}

// TokenLifetime время жизни токена
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.JWTExpirationMS) * time.Millisecond
}
