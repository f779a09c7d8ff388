package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/pmconsole/internal/flagx"
	"github.com/dmitrijs2005/pmconsole/internal/timex"
)

// jsonConfig is used only for unmarshalling. Pointer and zero-valued fields
// that are absent from the file leave the current Config untouched.
type jsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	StorePath           string         `json:"store_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	RetryAttempts       *uint64        `json:"retry_attempts"`
	RateLimit           float64        `json:"rate_limit"`
	RateBurst           int            `json:"rate_burst"`
	SearchDebounce      timex.Duration `json:"search_debounce"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJSON overlays cfg with the file given via -c or -config. Without
// either flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.RateLimit > 0 {
		cfg.RateLimit = jc.RateLimit
	}
	if jc.RateBurst > 0 {
		cfg.RateBurst = jc.RateBurst
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
