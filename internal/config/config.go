package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Garage"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"garage"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		// Secret signs and verifies API tokens. Leaving it empty disables
		// authentication, which is only sensible for local development.
		Secret        string        `envconfig:"AUTH_SECRET"`
		AdminUser     string        `envconfig:"AUTH_ADMIN_USER" default:"admin"`
		AdminPassword string        `envconfig:"AUTH_ADMIN_PASSWORD"`
		TokenTTL      time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
	}

	Redis struct {
		// Addr empty means no cache.
		Addr     string        `envconfig:"REDIS_ADDR"`
		Password string        `envconfig:"REDIS_PASSWORD"`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		TTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	}

	Sales struct {
		// RestockOnDelete controls whether deleting a sale returns its
		// product quantities to stock.
		RestockOnDelete bool `envconfig:"SALES_RESTOCK_ON_DELETE" default:"true"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
