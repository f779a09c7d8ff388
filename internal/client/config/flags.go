package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/pmconsole/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the REST API
//	-d string   path of the local SQLite store
//	-i int      online check interval in seconds
//	-l string   log level
//
// Only these flags are looked at; everything else in args is ignored so the
// JSON layer can own -c/-config.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-i", "-l"})

	fs := flag.NewFlagSet("pmconsole", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "path of the local SQLite store")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	if *interval <= 0 {
		return fmt.Errorf("flags: online check interval must be positive, got %d", *interval)
	}
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
