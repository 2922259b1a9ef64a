package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-m", "-s", "-t", "-r", "-x", "-h", "-o", "-l", "-w"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-m string   storage backend: postgres | memory
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r string   Redis address for the task cache (empty disables it)
//	-x int      task cache TTL, seconds
//	-h string   password hasher: bcrypt | argon2id
//	-o string   allowed CORS origins, comma separated
//	-l string   log format: json | text | zap
//	-w int      request timeout, seconds
//
// Integer durations are converted to time.Duration only when the flag is set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "m", config.StorageBackend, "storage backend (postgres|memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for task cache")
	cacheTTL := fs.Int("x", int(config.CacheTTL.Seconds()), "task cache TTL (in seconds)")
	fs.StringVar(&config.PasswordHasher, "h", config.PasswordHasher, "password hasher (bcrypt|argon2id)")
	fs.StringVar(&config.AllowedOrigins, "o", config.AllowedOrigins, "allowed CORS origins")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json|text|zap)")
	requestTimeout := fs.Int("w", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only flags given on the command line replace durations; the integer
	// defaults would truncate sub-unit values from the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "x":
			config.CacheTTL = time.Duration(*cacheTTL) * time.Second
		case "w":
			config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		}
	})
}
