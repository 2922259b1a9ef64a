package config

import "time"

// Config holds runtime settings for the TaskKeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API, including the /api prefix.
//   - SessionDSN: SQLite DSN of the local session store.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string
	SessionDSN     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.SessionDSN = "session.db"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
