package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmoore/hostaudit/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "audit", cfg.Prefix)
	assert.Equal(t, ".", cfg.Output)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 60*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "auto", cfg.Color)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hostaudit.yaml")
	content := `prefix: inventory
output: /var/audits
command_timeout: 2m
configs:
  - /etc/nginx/nginx.conf
  - /etc/my.cnf
color: never
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "inventory", cfg.Prefix)
	assert.Equal(t, "/var/audits", cfg.Output)
	assert.Equal(t, 2*time.Minute, cfg.CommandTimeout)
	assert.Equal(t, []string{"/etc/nginx/nginx.conf", "/etc/my.cnf"}, cfg.Configs)
	assert.Equal(t, "never", cfg.Color)

	// Unset keys keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadInvalidColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hostaudit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: sometimes\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: x\n"), 0644))

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = Find(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
