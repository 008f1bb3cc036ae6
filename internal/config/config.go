package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5000"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Matching
	MatchThreshold  float64 `envconfig:"MATCH_THRESHOLD" default:"0.6"`
	MaxFacesPerUser int     `envconfig:"MAX_FACES_PER_USER" default:"5"`

	// ScanTimeout bounds the full-population scan of one authentication
	// attempt. Zero disables the budget.
	ScanTimeout time.Duration `envconfig:"SCAN_TIMEOUT" default:"10s"`

	// Storage
	FaceImagesDir string `envconfig:"FACE_IMAGES_DIR" default:"face_images"`

	// Security
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer    string        `envconfig:"JWT_ISSUER" default:"visage"`
	JWTExpiresIn time.Duration `envconfig:"JWT_EXPIRES_IN" default:"1h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 1 {
		return nil, fmt.Errorf("MATCH_THRESHOLD must be in [0,1], got %v", cfg.MatchThreshold)
	}
	if cfg.MaxFacesPerUser < 1 {
		return nil, fmt.Errorf("MAX_FACES_PER_USER must be >= 1, got %d", cfg.MaxFacesPerUser)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
