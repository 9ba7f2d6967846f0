// Package adguard wraps the adguardvpn-cli executable.
//
// Every operation runs the CLI once, strips ANSI escapes from its output and
// parses the human-readable text into typed values:
//
//   - status:            Status (connected city and VPN mode)
//   - license:           Account (nil when nobody is logged in)
//   - list-locations:    []Location, parsed as a fixed-width table
//   - site-exclusions:   ExclusionMode and the exclusion list
//   - connect/disconnect
//
// The status reported by `status` names only a city, so Cli keeps the last
// location catalog around to resolve it into a full Location.
//
// Status changes are reported through SetOnStatusChange. Connect reports an
// interim status with Connecting set before the CLI starts, and both Connect
// and Disconnect report the refreshed status once the CLI returns.
package adguard
