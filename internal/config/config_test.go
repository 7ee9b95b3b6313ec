package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10000, cfg.TaskCapacity)
	assert.True(t, cfg.AuthRequired)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("A2A_PORT", "9090")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_ExplicitOverrideWinsOverEnv(t *testing.T) {
	t.Setenv("A2A_PORT", "9090")
	cfg, err := Load(WithPort(7070))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_RateLimitFromEnv(t *testing.T) {
	t.Setenv("A2A_RATE_LIMIT", "25.5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25.5, cfg.RateLimit)
}

func TestExpandPath_ExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	expanded := ExpandPath("~/a2a/config.yaml")
	assert.Contains(t, expanded, home)
}

func TestExpandPath_LeavesAbsoluteUnchanged(t *testing.T) {
	assert.Equal(t, "/etc/a2a/config.yaml", ExpandPath("/etc/a2a/config.yaml"))
}
