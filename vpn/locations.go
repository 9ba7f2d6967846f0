package vpn

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
)

// ReloadLocations fetches the location catalog and the favorites
// concurrently. On success the catalog is replaced and the favorites are
// merged into the local set. LocationsLoading is true for the duration.
// Concurrent reloads are not deduplicated.
func (s *Store) ReloadLocations(ctx context.Context) error {
	s.update(func() bool {
		s.loading = true
		return true
	})
	defer s.update(func() bool {
		s.loading = false
		return true
	})

	var (
		locations []adguard.Location
		favorites []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		locations, err = s.gateway.Locations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		favorites, err = s.gateway.Favorites(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("reload locations: %w", err)
	}

	s.update(func() bool {
		s.locations = slices.Clone(locations)
		for _, city := range favorites {
			if key := common.NormalizeCity(city); key != "" {
				s.favorites[key] = city
			}
		}
		return true
	})

	common.LogDebug("vpn: loaded %d locations, %d favorites", len(locations), len(favorites))
	return nil
}

// Locations returns a copy of the location catalog.
func (s *Store) Locations() []adguard.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.locations)
}

// LocationsLoading reports whether a catalog reload is running.
func (s *Store) LocationsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// FindLocation looks a city up in the catalog, ignoring case.
func (s *Store) FindLocation(city string) (adguard.Location, error) {
	key := common.NormalizeCity(city)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, location := range s.locations {
		if common.NormalizeCity(location.City) == key {
			return location, nil
		}
	}
	return adguard.Location{}, fmt.Errorf("%w: %q", common.ErrLocationNotFound, city)
}

// IsFavorite reports whether location is a favorite.
func (s *Store) IsFavorite(location adguard.Location) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[common.NormalizeCity(location.City)]
	return ok
}

// Favorites returns the favorite cities in alphabetical order.
func (s *Store) Favorites() []string {
	return s.Snapshot().Favorites
}

// AddToFavorites marks location as favorite. The local set changes only
// after the gateway call succeeds.
func (s *Store) AddToFavorites(ctx context.Context, location adguard.Location) error {
	if err := s.gateway.AddFavorite(ctx, location.City); err != nil {
		return fmt.Errorf("add favorite %q: %w", location.City, err)
	}
	s.update(func() bool {
		s.favorites[common.NormalizeCity(location.City)] = location.City
		return true
	})
	return nil
}

// RemoveFromFavorites unmarks location. The local set changes only after
// the gateway call succeeds.
func (s *Store) RemoveFromFavorites(ctx context.Context, location adguard.Location) error {
	if err := s.gateway.RemoveFavorite(ctx, location.City); err != nil {
		return fmt.Errorf("remove favorite %q: %w", location.City, err)
	}
	s.update(func() bool {
		delete(s.favorites, common.NormalizeCity(location.City))
		return true
	})
	return nil
}
