// Package common provides shared constants, types, and utilities
// used across the AdGuard VPN desktop controller.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "io.github.yllada.AdGuardVPNDesktop"
	// AppName is the display name of the application.
	AppName = "AdGuard VPN"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "adguardvpn-desktop"
)

// File names used by the application.
const (
	ConfigFileName      = "config.yaml"
	DatabaseFileName    = "adguardvpn.db"
	CredentialsFileName = ".credentials"
	LogFileName         = "adguardvpn-desktop.log"
)

// DefaultCLIBin is the adguardvpn-cli executable looked up in PATH when
// nothing else is configured.
const DefaultCLIBin = "adguardvpn-cli"

// Default timeouts and intervals.
const (
	// StatusInterval is how often the status poller refreshes the connection status.
	StatusInterval = 10 * time.Second
	// MinStatusInterval guards against configs that would hammer the CLI.
	MinStatusInterval = 1 * time.Second
	// CommandTimeout bounds read-only CLI calls issued from the command line.
	CommandTimeout = 30 * time.Second
)

// Event signal names.
const (
	// SignalStatusChanged carries a full connection status snapshot.
	SignalStatusChanged = "status-changed"
)

// D-Bus names used for notifications and the status signal.
const (
	DBusInterface  = "io.github.yllada.AdGuardVPNDesktop"
	DBusObjectPath = "/io/github/yllada/AdGuardVPNDesktop"
)

// TrayIconSize is the size of the system tray icon.
const TrayIconSize = 22
