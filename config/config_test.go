package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/adguardvpn-desktop/common"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, common.DefaultCLIBin, cfg.AdGuardBin)
	assert.True(t, cfg.ShowNotifications)
	assert.Equal(t, common.StatusInterval, cfg.StatusInterval)
	assert.False(t, cfg.UseAskPass)
	assert.True(t, cfg.RememberSudoPassword)
}

func TestLoadFrom_MissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, common.DefaultCLIBin, cfg.AdGuardBin)
	assert.Equal(t, path, cfg.Path())
	assert.FileExists(t, path)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	cfg.AdGuardBin = "/opt/adguard/adguardvpn-cli"
	cfg.StatusInterval = 3 * time.Second
	cfg.UseAskPass = true
	require.NoError(t, cfg.Save())

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/adguard/adguardvpn-cli", reloaded.AdGuardBin)
	assert.Equal(t, 3*time.Second, reloaded.StatusInterval)
	assert.True(t, reloaded.UseAskPass)
}

func TestLoadFrom_InvalidValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "adguard_bin: \"  \"\nstatus_interval: 10ms\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, common.DefaultCLIBin, cfg.AdGuardBin)
	assert.Equal(t, common.StatusInterval, cfg.StatusInterval)
}

func TestLoadFrom_UnknownFieldRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfigLoad))
}

func TestDatabasePath_Explicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database = "/tmp/custom.db"

	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", path)
}
