package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    AppConfig
		wantErr bool
	}{
		{
			name: "full",
			yaml: `
server:
  port: 8080
log:
  level: debug
storage:
  backend: redis
  redis:
    addr: redis:6379
    password: secret
    db: 2
    prefix: "tc:"
cache:
  size: 64
`,
			want: AppConfig{
				Server:  ServerConfig{Port: 8080},
				Log:     LogConfig{Level: "debug"},
				Storage: StorageConfig{Backend: "redis", Redis: RedisConfig{Addr: "redis:6379", Password: "secret", DB: 2, Prefix: "tc:"}},
				Cache:   CacheConfig{Size: 64},
			},
		},
		{
			name: "defaults fill the gaps",
			yaml: "log:\n  level: warn\n",
			want: func() AppConfig {
				cfg := Defaults()
				cfg.Log.Level = "warn"
				return cfg
			}(),
		},
		{name: "bad level", yaml: "log:\n  level: loud\n", wantErr: true},
		{name: "bad backend", yaml: "storage:\n  backend: s3\n", wantErr: true},
		{name: "bad port", yaml: "server:\n  port: 70000\n", wantErr: true},
		{name: "bad redis addr", yaml: "storage:\n  redis:\n    addr: nowhere\n", wantErr: true},
		{name: "not yaml", yaml: "server: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected an error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Server.Port != DefaultPort || cfg.Storage.Backend != "file" || cfg.Cache.Size != DefaultCacheSize {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadAppConfig_FirstExistingPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Config = Defaults() })

	if err := LoadAppConfig(filepath.Join(dir, "missing.yml"), path); err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if Config.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", Config.Server.Port)
	}
}
