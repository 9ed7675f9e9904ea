package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32    `mapstructure:"DB_MIN_CONNS"`
	AuthServiceURL   string   `mapstructure:"AUTH_SERVICE_URL"`
	AuthTimeoutMS    int      `mapstructure:"AUTH_TIMEOUT_MS"`
	AuthDevSecret    string   `mapstructure:"AUTH_DEV_SECRET"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	RequestTimeoutMS int      `mapstructure:"REQUEST_TIMEOUT_MS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("AUTH_TIMEOUT_MS", 5000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT_MS", 30000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_SERVICE_URL")
	v.BindEnv("AUTH_TIMEOUT_MS")
	v.BindEnv("AUTH_DEV_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REQUEST_TIMEOUT_MS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AuthTimeout returns the bound on each outbound identity-service call.
func (c *Config) AuthTimeout() time.Duration {
	return time.Duration(c.AuthTimeoutMS) * time.Millisecond
}

// RequestTimeout returns the per-request handler deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate checks that the configuration is safe to run. Outside development
// an external identity service must be configured; the built-in dev issuer
// is never a production authority.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthServiceURL == "" {
		return fmt.Errorf(
			"AUTH_SERVICE_URL must be set when ENV is %q. "+
				"Refusing to start without an identity service to verify credentials against", c.Env)
	}
	if c.IsDev() && c.AuthServiceURL == "" && c.AuthDevSecret == "" {
		return fmt.Errorf("AUTH_DEV_SECRET is required to run the built-in development issuer")
	}
	if c.AuthTimeoutMS <= 0 {
		return fmt.Errorf("AUTH_TIMEOUT_MS must be positive, got %d", c.AuthTimeoutMS)
	}
	return nil
}
