// Package config loads the outliner configuration: defaults, then an optional YAML
// file, then OUTLINER_* environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/outliner/pkg/domain"
)

// Environment variables overriding the file.
const (
	EnvEvaluatorURL = "OUTLINER_EVALUATOR_URL"
	EnvListenAddr   = "OUTLINER_LISTEN_ADDR"
	EnvRedisAddr    = "OUTLINER_REDIS_ADDR"
	EnvRedisDB      = "OUTLINER_REDIS_DB"
	EnvLogLevel     = "OUTLINER_LOG_LEVEL"
	EnvHistoryPath  = "OUTLINER_HISTORY_PATH"
	EnvExportKey    = "OUTLINER_EXPORT_KEY"
)

// Config is the complete configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level" mapstructure:"log_level"`
	Evaluator EvaluatorConfig `yaml:"evaluator" mapstructure:"evaluator"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	History   HistoryConfig   `yaml:"history" mapstructure:"history"`
	Map       MapConfig       `yaml:"map" mapstructure:"map"`
	Exports   ExportsConfig   `yaml:"exports" mapstructure:"exports"`
}

// EvaluatorConfig locates the evaluation server.
type EvaluatorConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Root is the highlight key of the feature expressions are evaluated under,
	// e.g. "/area/openstreetmap.org/way/42".
	Root string `yaml:"root" mapstructure:"root"`
}

// ServerConfig configures the HTTP server of the serve command.
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	BlobPrefix      string        `yaml:"blob_prefix" mapstructure:"blob_prefix"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// RedisConfig enables the shared export store when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// HistoryConfig locates the shell history database. An empty path keeps history
// in memory.
type HistoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// MapConfig configures map layers.
type MapConfig struct {
	// Styles is an optional YAML file overriding the named styles.
	Styles  string `yaml:"styles" mapstructure:"styles"`
	TileURL string `yaml:"tile_url" mapstructure:"tile_url"`
}

// ExportsConfig protects exported data at rest.
type ExportsConfig struct {
	// EncryptionKey is a base64 encoded 32 byte AES key. Exports are stored in the
	// clear when it is empty.
	EncryptionKey string `yaml:"encryption_key" mapstructure:"encryption_key"`
	// FallbackKeys decrypt exports sealed with retired keys.
	FallbackKeys []string `yaml:"fallback_keys" mapstructure:"fallback_keys"`
	// Redact lists patterns of JSON keys whose values are masked before storing.
	Redact []string `yaml:"redact" mapstructure:"redact"`
}

// Keys decodes the encryption keys. The active key is nil when none is set.
func (e ExportsConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if e.EncryptionKey == "" {
		return nil, nil, nil
	}
	if active, err = base64.StdEncoding.DecodeString(e.EncryptionKey); err != nil {
		return nil, nil, fmt.Errorf("invalid exports.encryption_key: %w", err)
	}
	for i, k := range e.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid exports.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Evaluator: EvaluatorConfig{
			URL:     "http://localhost:8001",
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			BlobPrefix:      "/blobs/",
			ShutdownTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Prefix: "outliner:",
			TTL:    time.Hour,
		},
		Map: MapConfig{
			TileURL: "/tiles/query/{z}/{x}/{y}.mvt",
		},
	}
}

// Load reads the file at path, which may be empty, over the defaults and applies
// the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML over the defaults, without consulting the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func applyEnv(cfg *Config) error {
	set := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	set(EnvEvaluatorURL, &cfg.Evaluator.URL)
	set(EnvListenAddr, &cfg.Server.Addr)
	set(EnvRedisAddr, &cfg.Redis.Addr)
	set(EnvLogLevel, &cfg.LogLevel)
	set(EnvHistoryPath, &cfg.History.Path)
	set(EnvExportKey, &cfg.Exports.EncryptionKey)
	if v, ok := os.LookupEnv(EnvRedisDB); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRedisDB, err)
		}
		cfg.Redis.DB = db
	}
	return nil
}

// Validate checks values that would otherwise fail later.
func (c Config) Validate() error {
	if c.Evaluator.Timeout < 0 {
		return fmt.Errorf("evaluator.timeout must not be negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if _, err := c.RootFeature(); err != nil {
		return err
	}
	if _, _, err := c.Exports.Keys(); err != nil {
		return err
	}
	return nil
}

// RootFeature parses Evaluator.Root, returning nil when unset.
func (c Config) RootFeature() (*domain.FeatureID, error) {
	if c.Evaluator.Root == "" {
		return nil, nil
	}
	id, err := domain.ParseHighlightKey(c.Evaluator.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid evaluator.root: %w", err)
	}
	return &id, nil
}
