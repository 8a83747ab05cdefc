// Package config holds all configuration for tourcrawl.
//
// Configuration comes from three layers, lowest priority first:
//  1. Built-in defaults (NewConfig)
//  2. The optional .tourcrawl YAML file with per-site overrides
//  3. CLI flags parsed by the cmd package
//
// The Config struct is populated once at startup and passed through the
// application by dependency injection; there is no global configuration
// state.
package config
