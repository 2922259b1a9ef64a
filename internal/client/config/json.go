package config

import (
	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the DTO the config file is decoded into, JSON or YAML by
// extension. Absent keys leave the current Config value untouched.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url" yaml:"server_url"`
	SessionDSN     *string         `json:"session_dsn" yaml:"session_dsn"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// parseJson overlays Config with values loaded from the file named by
// -c or -config. Panics on read or decode errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	if err := flagx.DecodeConfigFile(jsonConfigFile, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.SessionDSN != nil {
		cfg.SessionDSN = *jc.SessionDSN
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
