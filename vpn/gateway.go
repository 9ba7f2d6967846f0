package vpn

import (
	"context"

	"github.com/yllada/adguardvpn-desktop/adguard"
)

// Gateway is the request/response interface to the VPN service.
// Calls may be slow and may fail; the store never retries them.
type Gateway interface {
	Bin(ctx context.Context) (string, error)
	// SetBin switches the service binary and returns its version.
	SetBin(ctx context.Context, path string) (string, error)
	Version(ctx context.Context) (string, error)

	Status(ctx context.Context) (*adguard.Status, error)
	// Account returns nil when nobody is logged in.
	Account(ctx context.Context) (*adguard.Account, error)
	Locations(ctx context.Context) ([]adguard.Location, error)

	Favorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, city string) error
	RemoveFavorite(ctx context.Context, city string) error

	ExclusionMode(ctx context.Context) (adguard.ExclusionMode, error)
	SetExclusionMode(ctx context.Context, mode adguard.ExclusionMode) error
	Exclusions(ctx context.Context) ([]string, error)
	AddExclusions(ctx context.Context, exclusions []string) error
	RemoveExclusion(ctx context.Context, exclusion string) error

	// Connect connects to city, or to the fastest location when city is empty.
	Connect(ctx context.Context, city string) error
	Disconnect(ctx context.Context) error
}

// EventSource delivers unsolicited signals. Subscribe returns a function
// that cancels the subscription.
type EventSource interface {
	Subscribe(signal string, handler func(payload any)) func()
}
