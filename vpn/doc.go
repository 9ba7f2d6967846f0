// Package vpn holds the session store of the AdGuard VPN desktop controller.
//
// Store is the single owner of the client-side session: binary path and
// version, account, connection status, location catalog, favorites and the
// site exclusion mode. Front ends (CLI, TUI, tray) read it through accessors,
// Snapshot and Watch, and change it only through its operations.
//
// # Gateway and events
//
// Every operation is backed by a Gateway call. The store updates its fields
// from the response and never holds its lock across a Gateway call, so
// status pushes delivered by the EventSource are applied while a call is in
// flight, in the order they are received.
//
// # Connection lock
//
// Connect and Disconnect share one local in-flight flag. While it is set,
// further Connect, Disconnect and ToggleConnection calls return immediately
// without error, so at most one connect or disconnect reaches the Gateway
// at a time. The displayed connecting indicator follows incoming statuses
// except while the flag is set, and is cleared when the call resolves.
//
// # Initialization
//
// Init loads the binary, version, account, status and exclusion mode one
// after another. Initialized reports true once Init has run, whether or not
// every step succeeded. The first time an account appears, the location
// catalog and favorites are reloaded in the background.
package vpn
