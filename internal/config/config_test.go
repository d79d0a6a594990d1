package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty base url",
			mutate:  func(cfg *Config) { cfg.Assets.BaseURL = "" },
			wantErr: "base URL",
		},
		{
			name:    "base url without host",
			mutate:  func(cfg *Config) { cfg.Assets.BaseURL = "http://" },
			wantErr: "base URL",
		},
		{
			name:    "zero timeout",
			mutate:  func(cfg *Config) { cfg.Assets.Timeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "negative workers",
			mutate:  func(cfg *Config) { cfg.Assets.MaxWorkers = -1 },
			wantErr: "max workers",
		},
		{
			name:    "unknown manifest",
			mutate:  func(cfg *Config) { cfg.Assets.Manifest = "xml" },
			wantErr: "manifest",
		},
		{
			name:    "unknown fetch mode",
			mutate:  func(cfg *Config) { cfg.Assets.FetchMode = "full" },
			wantErr: "fetch mode",
		},
		{
			name:    "unknown image policy",
			mutate:  func(cfg *Config) { cfg.Assets.ImagePolicy = "lenient" },
			wantErr: "image policy",
		},
		{
			name:    "zero max images",
			mutate:  func(cfg *Config) { cfg.Assets.MaxImages = 0 },
			wantErr: "max images",
		},
		{
			name:    "unknown session backend",
			mutate:  func(cfg *Config) { cfg.Session.Backend = "cookie" },
			wantErr: "session backend",
		},
		{
			name: "redis without host",
			mutate: func(cfg *Config) {
				cfg.Session.Backend = SessionBackendRedis
				cfg.Redis.Host = ""
			},
			wantErr: "redis host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 14, cfg.Assets.MaxImages)
	assert.Equal(t, ManifestAuto, cfg.Assets.Manifest)
	assert.Equal(t, ImagePolicyStrict, cfg.Assets.ImagePolicy)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
assets:
  base_url: "http://assets.test/products"
  image_policy: TOLERANT
  max_workers: 3
session:
  backend: redis
redis:
  host: cache.internal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CATALOG_ASSETS_MAX_WORKERS", "5")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://assets.test/products", cfg.Assets.BaseURL)
	assert.Equal(t, ImagePolicyTolerant, cfg.Assets.ImagePolicy)
	assert.Equal(t, 5, cfg.Assets.MaxWorkers)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileMissingExplicitPath(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
