// Package config loads and validates the application configuration.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. Struct tag defaults
//  2. An optional config.yaml file
//  3. STOCKPULSE_* environment variables
//
// Load returns a fully validated *Config; callers never read environment
// variables directly.
package config
