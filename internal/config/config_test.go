package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 27017, cfg.MongoPort)
	assert.Equal(t, "dev_", cfg.CollectionPrefix)
	assert.Equal(t, 1024, cfg.GenerationMaxTokens)
	assert.InDelta(t, 1.2, cfg.GenerationTemperature, 0.0001)
	assert.Equal(t, 10, cfg.GenerationRateLimit)
	assert.Equal(t, 60*time.Second, cfg.GenerationRateWindow)
	assert.Equal(t, 10*time.Second, cfg.StreamKeepAlive)
	assert.True(t, cfg.Debug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("ALLOW_ORIGIN", "http://a.example,http://b.example")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("COLLECTION_PREFIX", "")
	t.Setenv("DEBUG", "false")
	t.Setenv("GENERATION_RATE_WINDOW", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "", cfg.CollectionPrefix)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 2*time.Minute, cfg.GenerationRateWindow)
}

func TestGetCollectionPrefix(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"prod", ""},
		{"test", "test_"},
		{"dev", "dev_"},
		{"staging", "dev_"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, getCollectionPrefix(tt.env))
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{
		Environment:          "prod",
		StoreDriver:          "sqlite",
		GenerationMaxTokens:  0,
		GenerationRateLimit:  0,
		GenerationRateWindow: time.Minute,
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "STORE_DRIVER")
	assert.Contains(t, msg, "GENERATION_MAX_TOKENS")
	assert.Contains(t, msg, "GENERATION_RATE_LIMIT")
	assert.Contains(t, msg, "API_KEY")
}

func TestValidate_MongoSettings(t *testing.T) {
	cfg := &Config{
		Environment:           "dev",
		StoreDriver:           StoreMongo,
		MongoPort:             70000,
		GenerationMaxTokens:   1,
		GenerationTemperature: 1,
		GenerationRateLimit:   1,
		GenerationRateWindow:  time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_HOST")
	assert.Contains(t, err.Error(), "MONGO_PORT")
	assert.Contains(t, err.Error(), "MONGO_DB")
}

func TestSetupLogFile_PrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"assistant-2020-01-01T00-00-00.log", "assistant-2020-01-02T00-00-00.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "assistant-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NotContains(t, files, filepath.Join(dir, "assistant-2020-01-01T00-00-00.log"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(&Config{Environment: "prod"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"k":"v"`)
}
