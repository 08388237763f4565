package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

const (
	DefaultPort        = 16181
	DefaultLogLevel    = "info"
	DefaultBackend     = "file"
	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "transport-catalogue:"
	DefaultCacheSize   = 1024
)

// Config is the global application configuration
var Config = Defaults()

// DefaultPaths are searched in order when no explicit path is given
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// Defaults returns the configuration used when config.yml is absent
func Defaults() AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return cfg
}

// LoadAppConfig loads and validates config.yml from the first readable path.
// If none of the paths exists the defaults are used.
func LoadAppConfig(paths ...string) error {
	cfg, err := Load(paths...)
	if err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Load reads the first existing file of paths (DefaultPaths when empty).
func Load(paths ...string) (AppConfig, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return AppConfig{}, err
	}
	return Parse(data)
}

// Parse decodes, validates and completes a YAML configuration.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	if cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = DefaultRedisPrefix
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
}
