// Package config loads, normalizes, and validates aqmsnotify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the AQMSNOTIFY_DATA_DIR
// environment fallback. Notification actions live under [notify.<name>] tables
// and are exposed through Config.Actions in the sorted order the runner
// consults them.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
