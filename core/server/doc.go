// Package server holds the HTTP server configuration for the read-only inventory API.
//
// The Config struct defines the HTTP port, the API key and the lifetime of the cached
// inventory summary. It is embedded by core/config and consumed by the serve command.
package server
