// Package config loads server and data settings from a YAML file, .env and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DataConfig points at the route and venue tables and the venue photos.
type DataConfig struct {
	Routes string `yaml:"routes" validate:"required"`
	Venues string `yaml:"venues" validate:"required"`
	Images string `yaml:"images"`
}

// ServerConfig contains web server settings.
type ServerConfig struct {
	Port        int           `yaml:"port" validate:"gt=0,lt=65536"`
	SessionTTL  time.Duration `yaml:"session_ttl" validate:"gte=0"`
	CORSOrigins []string      `yaml:"cors_origins"`
	RateLimit   float64       `yaml:"rate_limit" validate:"gte=0"`
	RateBurst   int           `yaml:"rate_burst" validate:"gte=0"`

	// TrustProxy keys rate limits on X-Forwarded-For. Only enable it
	// behind a proxy that sets the header.
	TrustProxy bool `yaml:"trust_proxy"`
}

// Config is the root configuration.
type Config struct {
	DevMode bool         `yaml:"dev_mode"`
	Data    DataConfig   `yaml:"data" validate:"required"`
	Server  ServerConfig `yaml:"server" validate:"required"`
}

// Default returns the built-in settings, matching the file names the route
// and venue exports ship with.
func Default() Config {
	return Config{
		Data: DataConfig{
			Routes: "OptimalRoutes.csv",
			Venues: "IG_neighbours.csv",
			Images: "images",
		},
		Server: ServerConfig{
			Port:       8080,
			SessionTTL: 24 * time.Hour,
			RateLimit:  5,
			RateBurst:  30,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is empty and byd.yaml is absent, the file is skipped), then .env and
// BYD_* environment variables. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = "byd.yaml"
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", file, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
	default:
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("BYD_ROUTES"); v != "" {
		cfg.Data.Routes = v
	}
	if v := os.Getenv("BYD_VENUES"); v != "" {
		cfg.Data.Venues = v
	}
	if v := os.Getenv("BYD_IMAGES"); v != "" {
		cfg.Data.Images = v
	}
	if v := os.Getenv("BYD_DEV_MODE"); v != "" {
		cfg.DevMode = v == "true" || v == "1"
	}
	if v := os.Getenv("BYD_TRUST_PROXY"); v != "" {
		cfg.Server.TrustProxy = v == "true" || v == "1"
	}
	if v := os.Getenv("BYD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BYD_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("BYD_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BYD_SESSION_TTL: %w", err)
		}
		cfg.Server.SessionTTL = ttl
	}
	if v := os.Getenv("BYD_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
	return nil
}
