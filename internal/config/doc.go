// Package config loads and validates the pipeline configuration.
//
// The effective config is built by merging defaults <- config file <-
// environment <- CLI overrides. Config files may be YAML or TOML, selected
// by extension. Validation runs at load time; a [*ValidationError] aborts
// before any analyzer or model call is made.
package config
