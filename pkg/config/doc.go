// Package config loads typed configuration structs from environment variables
// with optional .env file support.
//
// Each configuration type is parsed once per process and cached, so every
// consumer observes the same values. Parsing uses `env` struct tags from
// github.com/caarlos0/env; a .env file in the working directory is loaded
// before the first parse when present.
//
//	var cfg gateway.Config
//	config.MustLoad(&cfg)
package config
