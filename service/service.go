// Package service assembles the gateway the session store talks to: the
// adguardvpn-cli client for VPN operations, the configuration file for the
// binary path, and the SQLite store for favorites and connection history.
// Every status the CLI reports is published as "status-changed".
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/config"
	"github.com/yllada/adguardvpn-desktop/storage"
)

// Publisher publishes named signals.
type Publisher interface {
	Publish(signal string, payload any)
}

// Service implements vpn.Gateway. It is safe for concurrent use.
type Service struct {
	cli      *adguard.Cli
	db       *storage.Store
	events   Publisher
	notifier common.Notifier

	cfgMu sync.Mutex
	cfg   *config.Config

	historyMu sync.Mutex
	lastEntry *storage.HistoryEntry
}

// New wires cli, cfg and db together and starts forwarding status changes
// to events. notifier may be nil.
func New(cfg *config.Config, cli *adguard.Cli, db *storage.Store, events Publisher, notifier common.Notifier) *Service {
	s := &Service{
		cli:      cli,
		db:       db,
		events:   events,
		notifier: notifier,
		cfg:      cfg,
	}
	cli.SetOnStatusChange(s.handleStatus)
	return s
}

// Bin returns the adguardvpn-cli executable in use.
func (s *Service) Bin(context.Context) (string, error) {
	return s.cli.Bin(), nil
}

// SetBin switches to the executable at path after checking that it answers
// --version, and persists it to the configuration. Any failure restores
// the previous executable.
func (s *Service) SetBin(ctx context.Context, path string) (string, error) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	previous := s.cli.Bin()
	s.cli.SetBin(path)

	version, err := s.cli.Version(ctx)
	if err != nil {
		s.cli.SetBin(previous)
		return "", err
	}

	previousCfg := s.cfg.AdGuardBin
	s.cfg.AdGuardBin = path
	if err := s.cfg.Save(); err != nil {
		s.cfg.AdGuardBin = previousCfg
		s.cli.SetBin(previous)
		return "", err
	}

	common.LogInfo("adguardvpn-cli set to %s (%s)", path, version)
	return version, nil
}

// Version returns the version reported by the executable.
func (s *Service) Version(ctx context.Context) (string, error) {
	return s.cli.Version(ctx)
}

// Status fetches a fresh status.
func (s *Service) Status(ctx context.Context) (*adguard.Status, error) {
	return s.cli.RefreshStatus(ctx)
}

// Account returns the logged-in account or nil.
func (s *Service) Account(ctx context.Context) (*adguard.Account, error) {
	return s.cli.Account(ctx)
}

// Locations fetches a fresh location catalog.
func (s *Service) Locations(ctx context.Context) ([]adguard.Location, error) {
	return s.cli.RefreshLocations(ctx)
}

// Favorites returns the persisted favorite cities.
func (s *Service) Favorites(ctx context.Context) ([]string, error) {
	return s.db.Favorites(ctx)
}

// AddFavorite persists city as favorite.
func (s *Service) AddFavorite(ctx context.Context, city string) error {
	return s.db.AddFavorite(ctx, city)
}

// RemoveFavorite removes city from the favorites.
func (s *Service) RemoveFavorite(ctx context.Context, city string) error {
	return s.db.RemoveFavorite(ctx, city)
}

// ExclusionMode returns the site exclusion mode.
func (s *Service) ExclusionMode(ctx context.Context) (adguard.ExclusionMode, error) {
	return s.cli.ExclusionMode(ctx)
}

// SetExclusionMode switches the site exclusion mode.
func (s *Service) SetExclusionMode(ctx context.Context, mode adguard.ExclusionMode) error {
	return s.cli.SetExclusionMode(ctx, mode)
}

// Exclusions lists the site exclusions.
func (s *Service) Exclusions(ctx context.Context) ([]string, error) {
	return s.cli.Exclusions(ctx)
}

// AddExclusions adds site exclusions.
func (s *Service) AddExclusions(ctx context.Context, exclusions []string) error {
	return s.cli.AddExclusions(ctx, exclusions)
}

// RemoveExclusion removes a site exclusion.
func (s *Service) RemoveExclusion(ctx context.Context, exclusion string) error {
	return s.cli.RemoveExclusion(ctx, exclusion)
}

// Connect connects to city, or to the fastest location when city is empty.
func (s *Service) Connect(ctx context.Context, city string) error {
	return s.cli.Connect(ctx, city)
}

// Disconnect disconnects the VPN.
func (s *Service) Disconnect(ctx context.Context) error {
	return s.cli.Disconnect(ctx)
}

// History returns the most recent connection history entries.
func (s *Service) History(ctx context.Context, limit int) ([]storage.HistoryEntry, error) {
	return s.db.History(ctx, limit)
}

func (s *Service) handleStatus(status adguard.Status) {
	s.events.Publish(common.SignalStatusChanged, &status)
	if !status.Connecting {
		s.recordTransition(status)
	}
}

// recordTransition appends a history entry when the settled status differs
// from the last recorded one, and notifies the desktop about it.
func (s *Service) recordTransition(status adguard.Status) {
	entry := storage.HistoryEntry{Event: storage.EventDisconnected}
	if status.Connected {
		entry.Event = storage.EventConnected
		entry.Mode = status.Mode
		if status.Location != nil {
			entry.City = status.Location.City
			entry.Country = status.Location.Country
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	if s.lastEntry == nil {
		latest, err := s.db.History(ctx, 1)
		if err != nil {
			common.LogWarn("Reading connection history failed: %v", err)
			return
		}
		if len(latest) == 0 {
			// Nothing recorded yet: a first disconnected status is not a transition.
			s.lastEntry = &storage.HistoryEntry{Event: storage.EventDisconnected}
		} else {
			s.lastEntry = &latest[0]
		}
	}

	if s.lastEntry.Event == entry.Event && common.NormalizeCity(s.lastEntry.City) == common.NormalizeCity(entry.City) {
		return
	}

	if err := s.db.Record(ctx, entry); err != nil {
		common.LogWarn("Recording connection history failed: %v", err)
		return
	}
	s.lastEntry = &entry
	s.notify(status)
}

func (s *Service) notify(status adguard.Status) {
	s.cfgMu.Lock()
	enabled := s.cfg.ShowNotifications
	s.cfgMu.Unlock()
	if !enabled || s.notifier == nil {
		return
	}

	title, urgency := "VPN disconnected", common.UrgencyNormal
	message := "Your traffic is no longer protected"
	if status.Connected {
		title, urgency = "VPN connected", common.UrgencyLow
		message = status.String()
	}
	if err := s.notifier.Notify(title, message, urgency); err != nil {
		common.LogDebug("Notification failed: %v", err)
	}
}

// Close closes the database.
func (s *Service) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}
	return nil
}
