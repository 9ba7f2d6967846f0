// Package common provides shared constants, types, utilities, and interfaces
// used throughout the AdGuard VPN desktop controller.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: Application-wide names, file names, intervals and signal names
//   - Errors: Sentinel errors for consistent error handling across packages
//   - Interfaces: Small abstractions shared by the front-ends (notifier)
//   - Logger: Leveled logging with optional rotated file output
//   - Utils: Directory helpers and string normalization
//
// # Usage
//
//	import "github.com/yllada/adguardvpn-desktop/common"
//
//	common.LogInfo("Connecting to %s", city)
//
//	if errors.Is(err, common.ErrCLINotFound) {
//	    // Ask the user to install adguardvpn-cli or set its path
//	}
package common
