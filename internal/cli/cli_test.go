package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional path with defaults", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse([]string{"scenario/main.hcl"}, out)
		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, "scenario/main.hcl", cfg.ScenarioPath)
		assert.Equal(t, "modules", cfg.ModulesPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 10, cfg.WorkerCount)
		assert.Equal(t, int64(0), cfg.Seed)
	})

	t.Run("flags override defaults", func(t *testing.T) {
		out := &bytes.Buffer{}
		args := []string{
			"--scenario", "demo.hcl",
			"--log-format", "text",
			"--log-level", "debug",
			"--workers", "3",
			"--seed", "42",
		}
		cfg, shouldExit, err := Parse(args, out)
		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, "demo.hcl", cfg.ScenarioPath)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 3, cfg.WorkerCount)
		assert.Equal(t, int64(42), cfg.Seed)
	})

	t.Run("scenario flag wins over positional argument", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{"-s", "short.hcl", "ignored.hcl"}, out)
		require.NoError(t, err)
		assert.Equal(t, "short.hcl", cfg.ScenarioPath)
	})

	t.Run("invalid log level is an exit error", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"--log-level", "loud", "main.hcl"}, out)
		require.Error(t, err)
		exitErr, ok := err.(*ExitError)
		require.True(t, ok)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "invalid log-level")
	})

	t.Run("invalid log format is an exit error", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"--log-format", "xml", "main.hcl"}, out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log-format")
	})

	t.Run("no path prints usage and exits cleanly", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse([]string{}, out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})
}
