package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/us_accidents_state_month.csv", cfg.AccidentsSource)
	assert.Equal(t, "data/us_states.geojson", cfg.StatesSource)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.LoadTimeout)
	assert.Equal(t, "CA", cfg.DefaultState)
	assert.False(t, cfg.Watch)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("ACCIDENTS_CSV", "https://example.com/accidents.csv")
	t.Setenv("STATES_GEOJSON", "/srv/data/states.geojson")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LOAD_TIMEOUT", "1m")
	t.Setenv("DEFAULT_STATE", "tx")
	t.Setenv("WATCH", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/accidents.csv", cfg.AccidentsSource)
	assert.Equal(t, "/srv/data/states.geojson", cfg.StatesSource)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Minute, cfg.LoadTimeout)
	assert.Equal(t, "TX", cfg.DefaultState, "state code is uppercased")
	assert.True(t, cfg.Watch)
}

func TestLoad_InvalidDurations(t *testing.T) {
	t.Run("unparseable", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
	})

	t.Run("non-positive", func(t *testing.T) {
		t.Setenv("LOAD_TIMEOUT", "-5s")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOAD_TIMEOUT")
	})
}
