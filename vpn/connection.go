package vpn

import (
	"context"
	"fmt"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
)

// UpdateStatus polls the gateway and replaces the status.
func (s *Store) UpdateStatus(ctx context.Context) error {
	status, err := s.gateway.Status(ctx)
	if err != nil {
		return err
	}
	s.applyStatus(status)
	return nil
}

// applyStatus replaces the status wholesale. The displayed connecting
// indicator follows it unless a local connect or disconnect is in flight.
func (s *Store) applyStatus(status *adguard.Status) {
	s.update(func() bool {
		s.status = status.Clone()
		if !s.inFlight {
			s.displayConnecting = status != nil && status.Connecting
		}
		return true
	})
}

func (s *Store) handleStatusEvent(payload any) {
	switch status := payload.(type) {
	case *adguard.Status:
		s.applyStatus(status)
	case adguard.Status:
		s.applyStatus(&status)
	default:
		common.LogWarn("vpn: ignoring %s payload of type %T", common.SignalStatusChanged, payload)
	}
}

// Status returns a copy of the last known status, or nil before the first one.
func (s *Store) Status() *adguard.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.Clone()
}

// Connecting returns the displayed connecting indicator.
func (s *Store) Connecting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayConnecting
}

// InFlight reports whether a local connect or disconnect is in progress.
func (s *Store) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// acquire takes the connection lock. It returns false when another connect
// or disconnect already holds it.
func (s *Store) acquire() bool {
	acquired := false
	s.update(func() bool {
		if s.inFlight {
			return false
		}
		s.inFlight = true
		s.displayConnecting = true
		acquired = true
		return true
	})
	return acquired
}

func (s *Store) release() {
	s.update(func() bool {
		s.inFlight = false
		s.displayConnecting = false
		return true
	})
}

// Connect connects to city, or to the fastest location when city is empty.
// It does nothing when a connect or disconnect is already in flight.
// The resulting status arrives through the next poll or push.
func (s *Store) Connect(ctx context.Context, city string) error {
	if !s.acquire() {
		common.LogDebug("vpn: connect ignored, operation in flight")
		return nil
	}
	defer s.release()

	common.LogInfo("vpn: connecting to %s", cityOrFastest(city))
	if err := s.gateway.Connect(ctx, city); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

// Disconnect disconnects the VPN. It does nothing when a connect or
// disconnect is already in flight.
func (s *Store) Disconnect(ctx context.Context) error {
	if !s.acquire() {
		common.LogDebug("vpn: disconnect ignored, operation in flight")
		return nil
	}
	defer s.release()

	common.LogInfo("vpn: disconnecting")
	if err := s.gateway.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// ToggleConnection disconnects when connected and connects to the fastest
// location otherwise. It does nothing while the service reports a
// connection in progress.
func (s *Store) ToggleConnection(ctx context.Context) error {
	s.mu.Lock()
	status := s.status.Clone()
	s.mu.Unlock()

	switch {
	case status != nil && status.Connecting:
		common.LogDebug("vpn: toggle ignored, service is connecting")
		return nil
	case status != nil && status.Connected:
		return s.Disconnect(ctx)
	default:
		return s.Connect(ctx, "")
	}
}

func cityOrFastest(city string) string {
	if city == "" {
		return "fastest location"
	}
	return city
}
