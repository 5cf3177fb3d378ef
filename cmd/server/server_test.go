package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/lightsout/model"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, log.InfoLevel, s.LogLevel)
	assert.Equal(t, model.Config{Rows: 5, Cols: 5, StartLitProbability: .25}, s.Config)
}

func TestLoadSettingsFromEnv(t *testing.T) {
	s, err := loadSettings(env(map[string]string{
		"PORT":             "9000",
		"LIGHTS_ROWS":      "3",
		"LIGHTS_COLS":      "7",
		"LIGHTS_CHANCE":    "0.5",
		"LIGHTS_SEED":      "12",
		"LIGHTS_LOG_LEVEL": "debug",
		"LIGHTS_LAYOUTS":   "layouts.txt",
	}))
	require.NoError(t, err)
	assert.Equal(t, "9000", s.Port)
	assert.Equal(t, "layouts.txt", s.Layouts)
	assert.Equal(t, log.DebugLevel, s.LogLevel)
	assert.Equal(t, model.Config{Rows: 3, Cols: 7, StartLitProbability: .5, Seed: 12}, s.Config)
}

func TestLoadSettingsRejects(t *testing.T) {
	for key, value := range map[string]string{
		"LIGHTS_ROWS":      "many",
		"LIGHTS_COLS":      "0",
		"LIGHTS_CHANCE":    "2",
		"LIGHTS_LOG_LEVEL": "loud",
	} {
		_, err := loadSettings(env(map[string]string{key: value}))
		assert.Error(t, err, key)
	}
}

func TestHealth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layouts.txt")
	require.NoError(t, os.WriteFile(path, []byte("# one\nO\n\n# two\n.O\n"), 0o644))

	settings, err := loadSettings(env(map[string]string{"LIGHTS_LAYOUTS": path}))
	require.NoError(t, err)
	s, err := newServer(settings)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest("GET", URI_HEALTH, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok 5x5, 2 layouts\n", w.Body.String())
}

func TestNewServerBadLayouts(t *testing.T) {
	_, err := newServer(Settings{Layouts: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}
