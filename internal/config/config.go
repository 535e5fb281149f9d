package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the full runtime configuration. Values come from an optional YAML
// file with environment variables taking precedence, so deployments can ship a
// checked-in config.yaml and override secrets per environment.
type Config struct {
	Env  string `yaml:"env"`
	Port string `yaml:"port"`

	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Admin    Admin    `yaml:"admin"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Database struct {
	URL                string `yaml:"url"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMin int    `yaml:"conn_max_lifetime_minutes"`
}

type Auth struct {
	SessionTTLHours int `yaml:"session_ttl_hours"`
	ResetTTLMinutes int `yaml:"reset_ttl_minutes"`

	// ExposeResetToken returns the password-reset token in the API response
	// instead of delivering it out of band. Demo-only; ignored outside
	// development.
	ExposeResetToken bool `yaml:"expose_reset_token"`
}

// Admin holds the bootstrap admin credentials used by the seeder when no
// admin user exists yet.
type Admin struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func defaults() *Config {
	return &Config{
		Env:  "development",
		Port: "5050",
		Database: Database{
			MaxOpenConns:       20,
			MaxIdleConns:       20,
			ConnMaxLifetimeMin: 30,
		},
		Auth: Auth{
			SessionTTLHours: 24 * 7,
			ResetTTLMinutes: 60,
		},
		Admin: Admin{
			Name:  "Admin User",
			Email: "admin@cybershield.com",
		},
	}
}

// Load reads the YAML file at path (skipped if path is empty or the file does
// not exist), then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.Admin.Email = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

func (c *Config) ResetTTL() time.Duration {
	return time.Duration(c.Auth.ResetTTLMinutes) * time.Minute
}

func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.Database.ConnMaxLifetimeMin) * time.Minute
}

// ResetTokenExposed reports whether reset tokens may be returned in API
// responses. Never true in production regardless of config.
func (c *Config) ResetTokenExposed() bool {
	return c.Auth.ExposeResetToken && !c.IsProduction()
}
