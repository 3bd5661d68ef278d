// Package config loads, normalizes, and validates creatorpay configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CREATORPAY_MODEL, optionally seeded from a .env file. Custom compensation
// models declared under [[models]] are validated against the preset catalog
// so a bad definition fails at load time rather than mid-report.
package config
