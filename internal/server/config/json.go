package config

import (
	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration, read from JSON
// or, for .yaml/.yml files, YAML. Durations use timex.Duration so they may be
// written as "24h" or as integer nanoseconds. Fields left out of the file keep
// their current value.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDSN                 *string         `json:"database_dsn" yaml:"database_dsn"`
	StorageBackend              *string         `json:"storage_backend" yaml:"storage_backend"`
	SecretKey                   *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RedisAddr                   *string         `json:"redis_addr" yaml:"redis_addr"`
	CacheTTL                    *timex.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	PasswordHasher              *string         `json:"password_hasher" yaml:"password_hasher"`
	AllowedOrigins              *string         `json:"allowed_origins" yaml:"allowed_origins"`
	LogFormat                   *string         `json:"log_format" yaml:"log_format"`
	RequestTimeout              *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseJson overlays config with the file named by -c / -config.
// Nothing happens when no file is given; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}
	if err := flagx.DecodeConfigFile(jsonConfigFile, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.AllowedOrigins, c.AllowedOrigins)
	setString(&config.LogFormat, c.LogFormat)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.CacheTTL != nil {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
