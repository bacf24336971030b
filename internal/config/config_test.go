package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner/pkg/domain"
)

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
evaluator:
  url: http://b6:8001
  timeout: 5s
  root: /area/openstreetmap.org/way/42
redis:
  addr: localhost:6379
  db: "2"
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://b6:8001", cfg.Evaluator.URL)
	assert.Equal(t, 5*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "outliner:", cfg.Redis.Prefix, "unset fields keep defaults")
	assert.Equal(t, ":8080", cfg.Server.Addr)

	root, err := cfg.RootFeature()
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureID{Type: domain.FeatureTypeArea, Namespace: "openstreetmap.org/way", Value: 42}, *root)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown key":      "evaluator:\n  uri: x\n",
		"bad duration":     "evaluator:\n  timeout: soon\n",
		"negative timeout": "evaluator:\n  timeout: -1s\n",
		"bad root":         "evaluator:\n  root: /road/ns/1\n",
		"bad yaml":         "[unclosed",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outliner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: :9000\nhistory:\n  path: /tmp/h.db\n"), 0o600))
	t.Setenv(EnvListenAddr, ":9100")
	t.Setenv(EnvRedisDB, "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "/tmp/h.db", cfg.History.Path)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	t.Setenv(EnvRedisDB, "two")
	_, err = Load("")
	assert.ErrorContains(t, err, EnvRedisDB)
}

func TestExportsConfig_Keys(t *testing.T) {
	key := strings.Repeat("k", 32)
	cfg, err := Parse([]byte(`
exports:
  encryption_key: ` + base64.StdEncoding.EncodeToString([]byte(key)) + `
  fallback_keys: [` + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("o", 32))) + `]
  redact: ["email$"]
`))
	require.NoError(t, err)

	active, fallback, err := cfg.Exports.Keys()
	require.NoError(t, err)
	assert.Equal(t, []byte(key), active)
	assert.Len(t, fallback, 1)
	assert.Equal(t, []string{"email$"}, cfg.Exports.Redact)

	_, err = Parse([]byte("exports:\n  encryption_key: '%%%'\n"))
	assert.ErrorContains(t, err, "exports.encryption_key")
}
