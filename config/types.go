package config

// ServerConfig contains HTTP query server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// LogConfig selects the minimum log level
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// RedisConfig contains redis connection settings for the snapshot store
type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix"`
}

// StorageConfig selects where snapshots are kept
type StorageConfig struct {
	Backend string      `yaml:"backend" validate:"omitempty,oneof=file redis"`
	Redis   RedisConfig `yaml:"redis"`
}

// CacheConfig bounds the answer cache
type CacheConfig struct {
	Size int `yaml:"size" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
}
