package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"showcase/catalog/internal/domain"

	"github.com/spf13/viper"
)

const (
	ManifestAuto  = "auto"
	ManifestIndex = "index"
	ManifestText  = "text"

	ImagePolicyStrict   = "strict"
	ImagePolicyTolerant = "tolerant"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// AppConfig holds settings of the command line job
type AppConfig struct {
	LogLevel    string `mapstructure:"log_level"`
	Output      string `mapstructure:"output"`     // "-" writes to stdout
	ProductID   string `mapstructure:"product_id"` // Fetch a single product instead of the catalog
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// AssetsConfig describes the static asset tree and how it is fetched
type AssetsConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	Timeout              int      `mapstructure:"timeout"` // seconds
	UserAgent            string   `mapstructure:"user_agent"`
	MaxWorkers           int      `mapstructure:"max_workers"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"` // 0 disables throttling
	Proxies              []string `mapstructure:"proxies"`

	Manifest         string `mapstructure:"manifest"` // auto, index or text
	FetchMode        string `mapstructure:"fetch_mode"`
	ImagePolicy      string `mapstructure:"image_policy"`
	MaxImages        int    `mapstructure:"max_images"`
	MaxProducts      int    `mapstructure:"max_products"`
	PlaceholderImage string `mapstructure:"placeholder_image"`
	ExcerptLength    int    `mapstructure:"excerpt_length"`
}

// SessionConfig controls the per-session catalog snapshot
type SessionConfig struct {
	ID         string `mapstructure:"id"` // Random when empty
	Backend    string `mapstructure:"backend"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	MaxEntries int    `mapstructure:"max_entries"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	Database  int    `mapstructure:"database"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Load loads configuration from config.yaml (optional) with environment variable overrides.
// CATALOG_CONFIG points to an explicit file.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CATALOG_CONFIG"))
}

// LoadFile loads configuration from path, or from ./config.yaml when path is empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Assets.Manifest = strings.ToLower(config.Assets.Manifest)
	config.Assets.FetchMode = strings.ToLower(config.Assets.FetchMode)
	config.Assets.ImagePolicy = strings.ToLower(config.Assets.ImagePolicy)
	config.Session.Backend = strings.ToLower(config.Session.Backend)

	return &config, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("decode default config: %v", err))
	}
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.output", "-")
	v.SetDefault("app.product_id", "")
	v.SetDefault("app.metrics_addr", "")

	v.SetDefault("assets.base_url", "http://localhost:8000/products")
	v.SetDefault("assets.timeout", 10)
	v.SetDefault("assets.user_agent", "catalog-browser/1.0")
	v.SetDefault("assets.max_workers", 8)
	v.SetDefault("assets.max_requests_per_second", 0)
	v.SetDefault("assets.proxies", []string{})
	v.SetDefault("assets.manifest", ManifestAuto)
	v.SetDefault("assets.fetch_mode", domain.FetchModeDetail.String())
	v.SetDefault("assets.image_policy", ImagePolicyStrict)
	v.SetDefault("assets.max_images", 14)
	v.SetDefault("assets.max_products", 500)
	v.SetDefault("assets.placeholder_image", "https://via.placeholder.com/800x600?text=No+Image")
	v.SetDefault("assets.excerpt_length", 160)

	v.SetDefault("session.id", "")
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl_minutes", 30)
	v.SetDefault("session.max_entries", 128)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.key_prefix", "catalog:session:")
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Assets.BaseURL == "" {
		return fmt.Errorf("assets base URL cannot be empty")
	}
	parsedURL, err := url.Parse(c.Assets.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid assets base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("assets base URL must include a host")
	}
	if c.Assets.Timeout <= 0 {
		return fmt.Errorf("assets timeout must be positive")
	}
	if c.Assets.MaxWorkers <= 0 {
		return fmt.Errorf("max workers must be positive")
	}
	if c.Assets.MaxRequestsPerSecond < 0 {
		return fmt.Errorf("max requests per second cannot be negative")
	}
	switch c.Assets.Manifest {
	case ManifestAuto, ManifestIndex, ManifestText:
	default:
		return fmt.Errorf("manifest must be auto, index or text")
	}
	if !domain.FetchMode(c.Assets.FetchMode).Valid() {
		return fmt.Errorf("fetch mode must be detail or summary")
	}
	if c.Assets.ImagePolicy != ImagePolicyStrict && c.Assets.ImagePolicy != ImagePolicyTolerant {
		return fmt.Errorf("image policy must be strict or tolerant")
	}
	if c.Assets.MaxImages <= 0 {
		return fmt.Errorf("max images must be positive")
	}
	if c.Assets.MaxProducts <= 0 {
		return fmt.Errorf("max products must be positive")
	}
	if c.Assets.PlaceholderImage == "" {
		return fmt.Errorf("placeholder image cannot be empty")
	}
	if c.Session.Backend != SessionBackendMemory && c.Session.Backend != SessionBackendRedis {
		return fmt.Errorf("session backend must be memory or redis")
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Session.Backend == SessionBackendMemory && c.Session.MaxEntries <= 0 {
		return fmt.Errorf("session max entries must be positive")
	}
	if c.Session.Backend == SessionBackendRedis && c.Redis.Host == "" {
		return fmt.Errorf("redis host cannot be empty")
	}
	return nil
}
