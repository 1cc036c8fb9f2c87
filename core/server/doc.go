// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key protecting the
// verification endpoints.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings.
package server
