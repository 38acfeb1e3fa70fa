// Package config loads, validates, and normalizes chartsync configuration.
//
// Configuration comes from a TOML file (default ~/.config/chartsync/config.toml
// with a chartsync.toml project fallback), optionally overridden by variables
// from the environment or a .env file in the working directory. Every tunable
// the pipeline consumes is enumerated here; components receive an immutable
// *Config at construction and never read ambient state.
package config
