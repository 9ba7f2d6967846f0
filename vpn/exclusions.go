package vpn

import (
	"context"
	"fmt"

	"github.com/yllada/adguardvpn-desktop/adguard"
)

// UpdateExclusionMode reads the exclusion mode from the gateway.
func (s *Store) UpdateExclusionMode(ctx context.Context) error {
	mode, err := s.gateway.ExclusionMode(ctx)
	if err != nil {
		return err
	}
	s.update(func() bool {
		s.exclusionMode = mode
		return true
	})
	return nil
}

// SetExclusionMode switches the exclusion mode. The local mode changes only
// after the gateway call succeeds.
func (s *Store) SetExclusionMode(ctx context.Context, mode adguard.ExclusionMode) error {
	if err := s.gateway.SetExclusionMode(ctx, mode); err != nil {
		return fmt.Errorf("set exclusion mode: %w", err)
	}
	s.update(func() bool {
		s.exclusionMode = mode
		return true
	})
	return nil
}

// ExclusionMode returns the last known exclusion mode.
func (s *Store) ExclusionMode() adguard.ExclusionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exclusionMode
}

// Exclusions fetches the exclusion list. It is not cached.
func (s *Store) Exclusions(ctx context.Context) ([]string, error) {
	exclusions, err := s.gateway.Exclusions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	return exclusions, nil
}

// AddExclusions adds entries to the exclusion list.
func (s *Store) AddExclusions(ctx context.Context, exclusions []string) error {
	if err := s.gateway.AddExclusions(ctx, exclusions); err != nil {
		return fmt.Errorf("add exclusions: %w", err)
	}
	return nil
}

// DeleteExclusion removes one entry from the exclusion list.
func (s *Store) DeleteExclusion(ctx context.Context, exclusion string) error {
	if err := s.gateway.RemoveExclusion(ctx, exclusion); err != nil {
		return fmt.Errorf("remove exclusion %q: %w", exclusion, err)
	}
	return nil
}
