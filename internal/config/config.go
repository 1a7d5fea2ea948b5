// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL    string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"720h"`
	Port           string        `envconfig:"PORT" default:"50051"`
	WebPort        string        `envconfig:"WEB_PORT" default:"8080"`
	MigrationsPath string        `envconfig:"MIGRATIONS_PATH" default:"db/migrations/001_init.sql"`

	// login attempts per second and burst, per client address
	LoginRate  float64 `envconfig:"LOGIN_RATE" default:"5"`
	LoginBurst int     `envconfig:"LOGIN_BURST" default:"10"`

	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	ServiceName string   `envconfig:"SERVICE_NAME" default:"appointment-booking-api"`

	OTelEnabled       bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint      string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	OTelSamplingRatio float64 `envconfig:"OTEL_SAMPLING_RATIO" default:"1"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	// envconfig treats a key set to "" as present
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if err := port("PORT", c.Port); err != nil {
		return err
	}
	if err := port("WEB_PORT", c.WebPort); err != nil {
		return err
	}
	if c.Port == c.WebPort {
		return fmt.Errorf("PORT and WEB_PORT must differ (both %s)", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive (got %s)", c.TokenTTL)
	}
	if c.LoginRate <= 0 || c.LoginBurst < 1 {
		return fmt.Errorf("LOGIN_RATE and LOGIN_BURST must be positive")
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be within [0,1] (got %v)", c.OTelSamplingRatio)
	}
	return nil
}

func port(key, v string) error {
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%s must be a valid TCP port (got %q)", key, v)
	}
	return nil
}
