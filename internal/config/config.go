// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/jobsense/internal/db"
	"github.com/jonathan/jobsense/internal/matching"
)

// Config holds everything the service needs at startup.
type Config struct {
	Port                int
	DatabaseURL         string
	EmbeddingServiceURL string
	EmbeddingDim        int
	SimilarityThreshold float64
	EmbedRetryAttempts  int
	UseBrowser          bool
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                8080,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		EmbeddingServiceURL: os.Getenv("EMBEDDING_SERVICE_URL"),
		EmbeddingDim:        db.DefaultEmbeddingDim,
		SimilarityThreshold: matching.DefaultSimilarityThreshold,
		EmbedRetryAttempts:  1,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("EMBEDDING_DIM"); v != "" {
		dim, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid EMBEDDING_DIM %q: %w", v, err)
		}
		cfg.EmbeddingDim = dim
	}
	if v := os.Getenv("SIMILARITY_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIMILARITY_THRESHOLD %q: %w", v, err)
		}
		cfg.SimilarityThreshold = threshold
	}
	if v := os.Getenv("EMBED_RETRY_ATTEMPTS"); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid EMBED_RETRY_ATTEMPTS %q: %w", v, err)
		}
		cfg.EmbedRetryAttempts = attempts
	}
	if v := os.Getenv("USE_BROWSER"); v != "" {
		useBrowser, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid USE_BROWSER %q: %w", v, err)
		}
		cfg.UseBrowser = useBrowser
	}

	return cfg, nil
}

// Validate checks that required settings are present and sane.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.EmbeddingServiceURL == "" {
		return fmt.Errorf("EMBEDDING_SERVICE_URL is required")
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be between -1 and 1, got %f", c.SimilarityThreshold)
	}
	if c.EmbedRetryAttempts < 1 {
		return fmt.Errorf("EMBED_RETRY_ATTEMPTS must be at least 1, got %d", c.EmbedRetryAttempts)
	}
	return nil
}
