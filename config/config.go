// Package config provides configuration management for the AdGuard VPN controller.
// It handles loading, saving, and validating application settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/adguardvpn-desktop/common"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// AdGuardBin is the adguardvpn-cli executable, a name in PATH or an absolute path.
	AdGuardBin string `yaml:"adguard_bin"`
	// ShowNotifications enables desktop notifications for connection events.
	ShowNotifications bool `yaml:"show_notifications"`
	// StatusInterval is how often the tray and TUI poll the connection status.
	StatusInterval time.Duration `yaml:"status_interval"`
	// UseAskPass exports SUDO_ASKPASS so TUN-mode connects can prompt for sudo.
	UseAskPass bool `yaml:"use_askpass"`
	// RememberSudoPassword stores the sudo password in the keyring after the first prompt.
	RememberSudoPassword bool `yaml:"remember_sudo_password"`
	// Database is the SQLite file holding favorites and connection history.
	Database string `yaml:"database,omitempty"`

	path string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AdGuardBin:           common.DefaultCLIBin,
		ShowNotifications:    true,
		StatusInterval:       common.StatusInterval,
		UseAskPass:           false,
		RememberSudoPassword: true,
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path.
// If the file doesn't exist, it creates one with default values.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	cfg := DefaultConfig()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: error parsing %s: %v", common.ErrConfigLoad, path, err)
	}
	cfg.path = path
	cfg.validate()

	return cfg, nil
}

// validate replaces invalid values with their defaults.
func (c *Config) validate() {
	c.AdGuardBin = strings.TrimSpace(c.AdGuardBin)
	if c.AdGuardBin == "" {
		c.AdGuardBin = common.DefaultCLIBin
	}
	if c.StatusInterval < common.MinStatusInterval {
		c.StatusInterval = common.StatusInterval
	}
}

// Path returns the file this configuration is persisted to.
func (c *Config) Path() string {
	return c.path
}

// DatabasePath returns the configured database file or the default one
// under the data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database != "" {
		return c.Database, nil
	}
	dataDir, err := common.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, common.DatabaseFileName), nil
}

// Save saves the configuration to its file.
func (c *Config) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("%w: error creating config directory: %v", common.ErrConfigSave, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: error serializing configuration: %v", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	return nil
}

// DefaultPath returns ~/.config/adguardvpn-desktop/config.yaml.
func DefaultPath() (string, error) {
	configDir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, common.ConfigFileName), nil
}
