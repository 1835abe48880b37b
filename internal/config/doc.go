// Package config loads, normalizes, and validates Stockroom configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and core packages need: the record store backend selection, the remote
// snapshot endpoint and credential, currency rates for catalog builds, and
// the submission packaging limits.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical backend names, and clear validation errors.
package config
