// Package config loads runtime configuration for the pmconsole client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. PMC_* environment variables; a .env file in the working directory is
//     loaded first but never overrides variables that are already set.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the REST API (e.g. http://localhost:8080/api/v1)
//	-d string   path of the local SQLite store
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations accept strings like "300ms" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8080/api/v1",
//	  "store_path": "pmconsole.db",
//	  "request_timeout": "10s",
//	  "retry_attempts": 2,
//	  "rate_limit": 10,
//	  "rate_burst": 5,
//	  "search_debounce": "300ms",
//	  "online_check_interval": "5s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// # Environment
//
//	PMC_SERVER_URL, PMC_STORE_PATH, PMC_REQUEST_TIMEOUT, PMC_RETRY_ATTEMPTS,
//	PMC_SEARCH_DEBOUNCE, PMC_RATE_LIMIT, PMC_RATE_BURST, PMC_ONLINE_INTERVAL,
//	PMC_LOG_LEVEL, PMC_LOG_FORMAT
//
// PMC_RETRY_ATTEMPTS=0 disables retries; the other numeric variables only
// apply when positive.
package config
