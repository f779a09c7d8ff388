package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "PMC"

// envConfig mirrors the settings that may come from PMC_* variables.
type envConfig struct {
	ServerBaseURL  string        `envconfig:"SERVER_URL"`
	StorePath      string        `envconfig:"STORE_PATH"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE"`
	RetryAttempts  *uint64       `envconfig:"RETRY_ATTEMPTS"`
	RateLimit      float64       `envconfig:"RATE_LIMIT"`
	RateBurst      int           `envconfig:"RATE_BURST"`
	OnlineInterval time.Duration `envconfig:"ONLINE_INTERVAL"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
	LogFormat      string        `envconfig:"LOG_FORMAT"`
}

// parseEnv loads dotenv (if it exists) into the process environment and
// overlays cfg with any PMC_* variables that are set. Variables already
// present in the environment win over the file.
func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	var ec envConfig
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	setString(&cfg.ServerBaseURL, ec.ServerBaseURL)
	setString(&cfg.StorePath, ec.StorePath)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.LogFormat, ec.LogFormat)
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.SearchDebounce > 0 {
		cfg.SearchDebounce = ec.SearchDebounce
	}
	if ec.RetryAttempts != nil {
		cfg.RetryAttempts = *ec.RetryAttempts
	}
	if ec.RateLimit > 0 {
		cfg.RateLimit = ec.RateLimit
	}
	if ec.RateBurst > 0 {
		cfg.RateBurst = ec.RateBurst
	}
	if ec.OnlineInterval > 0 {
		cfg.OnlineCheckInterval = ec.OnlineInterval
	}
	return nil
}
