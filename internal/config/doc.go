// Package config loads, defaults, and validates the TOML configuration for
// the caption studio: directories, backend connection, default generation
// and export selections, the default caption style, and logging.
package config
