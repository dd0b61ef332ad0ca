package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("friday")
	assert.NoError(t, err)

	assert.Equal(t, "friday", cfg.Application.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.True(t, cfg.Server.Watch)
	assert.False(t, cfg.Server.ReadOnly)
	assert.Equal(t, "INR", cfg.Ledger.Currency)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))

	content := "SERVER_PORT=9090\nLOG_LEVEL=debug\nLEDGER_PATH=~/books/main.friday\nLEDGER_CURRENCY=EUR\n"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "friday.env"), []byte(content), 0o644))

	chdir(t, dir)

	cfg, err := Load("friday")
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "~/books/main.friday", cfg.Ledger.Path)
	assert.Equal(t, "EUR", cfg.Ledger.Currency)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "friday.env"), []byte("LOG_LEVEL=verbose\n"), 0o644))

	chdir(t, dir)

	_, err := Load("friday")
	assert.Error(t, err)
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	assert.NoError(t, os.Chdir(dir))
}
