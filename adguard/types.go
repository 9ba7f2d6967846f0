package adguard

import (
	"fmt"
	"strings"
	"time"

	"github.com/yllada/adguardvpn-desktop/common"
)

// VPN modes reported by `adguardvpn-cli status`.
const (
	ModeTUN   = "tun"
	ModeSOCKS = "socks"
)

// Subscription types as printed by `adguardvpn-cli license`.
const (
	SubscriptionFree    = "FREE"
	SubscriptionPremium = "PREMIUM"
)

// ExclusionMode governs how the exclusion list is interpreted.
// In general mode exclusions bypass the tunnel; in selective mode only
// exclusions go through it.
type ExclusionMode string

const (
	ExclusionModeGeneral   ExclusionMode = "general"
	ExclusionModeSelective ExclusionMode = "selective"
)

// ParseExclusionMode accepts the mode in any case.
func ParseExclusionMode(s string) (ExclusionMode, error) {
	switch mode := ExclusionMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ExclusionModeGeneral, ExclusionModeSelective:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrInvalidExclusionMode, s)
	}
}

// Subscription describes the license attached to the account.
type Subscription struct {
	Type       string    `json:"type"`
	ValidUntil time.Time `json:"validUntil"`
	MaxDevices uint8     `json:"maxDevices"`
}

// Account is the logged-in AdGuard VPN account.
type Account struct {
	Username     string       `json:"username"`
	Subscription Subscription `json:"subscription"`
}

// IsPremium reports whether the account has a paid subscription.
func (a *Account) IsPremium() bool {
	return a != nil && a.Subscription.Type == SubscriptionPremium
}

// Clone returns a copy of the account; nil stays nil.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Location is an entry of the location catalog. City is its natural key.
type Location struct {
	ISO     string `json:"iso"`
	Country string `json:"country"`
	City    string `json:"city"`
	Ping    int    `json:"ping"`
}

// Status is a full connection status snapshot.
type Status struct {
	Connecting bool      `json:"connecting"`
	Connected  bool      `json:"connected"`
	Location   *Location `json:"location,omitempty"`
	Mode       string    `json:"mode"`
}

// Clone returns a deep copy of the status; nil stays nil.
func (s *Status) Clone() *Status {
	if s == nil {
		return nil
	}
	c := *s
	if s.Location != nil {
		loc := *s.Location
		c.Location = &loc
	}
	return &c
}

// City returns the connected city or "".
func (s *Status) City() string {
	if s == nil || s.Location == nil {
		return ""
	}
	return s.Location.City
}

// String renders the status the way the tray and CLI show it.
func (s *Status) String() string {
	switch {
	case s == nil:
		return "Unknown"
	case s.Connecting:
		return "Connecting..."
	case s.Connected && s.City() != "":
		return fmt.Sprintf("Connected to %s (%s)", s.City(), strings.ToUpper(s.Mode))
	case s.Connected:
		return "Connected"
	default:
		return "Disconnected"
	}
}
