// Package config loads and validates hutch configuration from files,
// environment variables, and command line flags.
//
// Order of precedence (highest to lowest): flags > env > config files >
// defaults. Environment variables use the HUTCH_ prefix with dots
// replaced by underscores, e.g. HUTCH_SERVER_PORT.
package config
