// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Every field is optional: a missing file or an omitted field falls back to
// the defaults, so the command line modes run without any configuration.
package config
