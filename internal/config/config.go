package config

import (
	"os"
	"strconv"

	"onlinefdr/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Screening ScreeningConfig
	Export    ExportConfig
}

// DatabaseConfig holds database connection settings. An empty URL means
// runs are kept in memory only.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	APIPort string
	UIPort  string
}

// ScreeningConfig holds the default spending parameters applied when a
// request leaves them unset.
type ScreeningConfig struct {
	W0    float64
	Alpha float64
}

// ExportConfig holds file export settings
type ExportConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			APIPort: envOr("API_PORT", "8080"),
			UIPort:  envOr("UI_PORT", "8090"),
		},
		Screening: ScreeningConfig{
			W0:    0.005,
			Alpha: 0.05,
		},
		Export: ExportConfig{
			Dir: envOr("EXPORT_DIR", "exports"),
		},
	}

	if raw := os.Getenv("SCREENING_W0"); raw != "" {
		w0, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrap(err, "invalid SCREENING_W0")
		}
		config.Screening.W0 = w0
	}
	if raw := os.Getenv("SCREENING_ALPHA"); raw != "" {
		alpha, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrap(err, "invalid SCREENING_ALPHA")
		}
		config.Screening.Alpha = alpha
	}

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validate(c *Config) error {
	if c.Screening.Alpha <= 0 || c.Screening.Alpha >= 1 {
		return errors.ConfigInvalid("SCREENING_ALPHA must lie in (0, 1)")
	}
	if c.Screening.W0 <= 0 || c.Screening.W0 >= c.Screening.Alpha {
		return errors.ConfigInvalid("SCREENING_W0 must lie in (0, alpha)")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
