package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the console.
//
// Fields:
//   - ServerBaseURL: base URL of the REST API, including the version prefix.
//   - StorePath: SQLite file that keeps the persisted session token.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - RetryAttempts: extra attempts for idempotent GET requests.
//   - RateLimit / RateBurst: client-side outbound request budget (req/s).
//   - SearchDebounce: quiescence window before a search query is applied.
//   - OnlineCheckInterval: how often the console probes server reachability.
//   - LogLevel / LogFormat: see logging.New.
type Config struct {
	ServerBaseURL       string
	StorePath           string
	RequestTimeout      time.Duration
	RetryAttempts       uint64
	RateLimit           float64
	RateBurst           int
	SearchDebounce      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080/api/v1"
	c.StorePath = "pmconsole.db"
	c.RequestTimeout = 10 * time.Second
	c.RetryAttempts = 2
	c.RateLimit = 10
	c.RateBurst = 5
	c.SearchDebounce = 300 * time.Millisecond
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file named by -c/-config, then PMC_*
// environment variables (a .env file in the working directory is read first),
// then command-line flags. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
