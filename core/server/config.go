package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables authentication.
	ApiKey string `mapstructure:"api_key" default:""`
	// CacheTTLSeconds is how long the inventory summary is cached.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`
}

// DefaultCacheTTL is used when CacheTTLSeconds is negative.
const DefaultCacheTTL = 30 * time.Second

// CacheTTL returns the summary cache lifetime. Zero disables caching.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds < 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Address returns the listen address for Port.
func (c Config) Address() string {
	return ":" + c.Port
}
