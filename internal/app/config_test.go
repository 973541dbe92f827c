package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("requires a scenario path", func(t *testing.T) {
		_, err := NewConfig(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ScenarioPath")
	})

	t.Run("rejects negative worker counts", func(t *testing.T) {
		_, err := NewConfig(Config{ScenarioPath: "main.hcl", WorkerCount: -1})
		require.Error(t, err)
	})

	t.Run("accepts a minimal configuration", func(t *testing.T) {
		cfg, err := NewConfig(Config{ScenarioPath: "main.hcl"})
		require.NoError(t, err)
		assert.Equal(t, "main.hcl", cfg.ScenarioPath)
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("json format emits structured records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("info", "json", &buf)
		logger.Info("hello", "key", "value")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"key":"value"`)
	})

	t.Run("level filters records below the threshold", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("warn", "text", &buf)
		logger.Info("quiet")
		logger.Warn("loud")
		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})
}
