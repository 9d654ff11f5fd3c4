package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var validate = validator.New()

type AppConfig struct {
	// AccuWeatherAPIKey is read once at startup. It is not required: without
	// it the provider rejects every request.
	AccuWeatherAPIKey  string `envconfig:"ACCUWEATHER_API_KEY"`
	AccuWeatherBaseURL string `envconfig:"ACCUWEATHER_BASE_URL" default:"https://dataservice.accuweather.com" validate:"required,url"`

	IconURLTemplate string `envconfig:"ICON_URL_TEMPLATE" default:"https://developer.accuweather.com/sites/default/files/{icon}-s.png" validate:"required,contains={icon}"`

	// HTTPTimeout bounds each outbound provider call (0 = no timeout).
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	Port string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	// Visitor session retention.
	SessionMaxAge        time.Duration `envconfig:"SESSION_MAX_AGE" default:"30m"`
	SessionMaxCount      int           `envconfig:"SESSION_MAX_COUNT" default:"1000" validate:"gte=0"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

// Load reads configuration from a .env file (if any) and the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.HTTPTimeout < 0 || cfg.SessionMaxAge < 0 || cfg.SessionSweepInterval < 0 {
		return nil, fmt.Errorf("invalid config: durations must not be negative")
	}

	if cfg.AccuWeatherAPIKey == "" {
		log.Printf("WARN: ACCUWEATHER_API_KEY is not set; provider requests will be rejected")
	}

	return cfg, nil
}
