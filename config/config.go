package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName  string `env:"BRIDGE_APP_NAME" envDefault:"ghost-posters"`
	AppEnv   string `env:"BRIDGE_APP_ENV" envDefault:"local"`
	HTTPHost string `env:"BRIDGE_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort string `env:"BRIDGE_HTTP_PORT" envDefault:"8080"`

	GhostURL     string        `env:"GHOST_URL"`
	GhostTimeout time.Duration `env:"GHOST_HTTP_TIMEOUT" envDefault:"10s"`

	DirectusURL             string        `env:"DIRECTUS_URL"`
	DirectusAdminToken      string        `env:"DIRECTUS_ADMIN_TOKEN"`
	DirectusRoleID          string        `env:"DIRECTUS_USER_ROLE_ID"`
	DirectusDefaultPassword string        `env:"DIRECTUS_DEFAULT_USER_PASSWORD"`
	DirectusTimeout         time.Duration `env:"DIRECTUS_HTTP_TIMEOUT" envDefault:"10s"`

	RefreshCookieTTL time.Duration `env:"BRIDGE_REFRESH_COOKIE_TTL" envDefault:"168h"`

	// ProbeSession verifies an existing access token cookie with a users/me
	// call before trusting it. Off by default: the cookie is trusted until a
	// downstream call rejects it.
	ProbeSession bool `env:"BRIDGE_PROBE_SESSION" envDefault:"false"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_URL is required")
	}
	if c.DirectusURL == "" {
		return fmt.Errorf("DIRECTUS_URL is required")
	}
	if c.DirectusAdminToken == "" {
		return fmt.Errorf("DIRECTUS_ADMIN_TOKEN is required")
	}
	// Role id and default password are validated lazily: they only matter
	// the first time an unknown member has to be provisioned.
	return nil
}
