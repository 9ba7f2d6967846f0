package vpn

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
)

// Snapshot is an immutable copy of the store state. Revision grows by one
// with every change, so observers can drop snapshots older than one they
// already handled.
type Snapshot struct {
	Revision    uint64
	Initialized bool

	Bin     string
	Version string

	Account *adguard.Account
	Status  *adguard.Status
	// Connecting is the displayed connecting indicator.
	Connecting bool
	// InFlight reports a local connect or disconnect in progress.
	InFlight bool

	Locations        []adguard.Location
	LocationsLoading bool
	Favorites        []string

	ExclusionMode adguard.ExclusionMode
}

// IsFavorite reports whether city is among the favorites of the snapshot.
func (s Snapshot) IsFavorite(city string) bool {
	key := common.NormalizeCity(city)
	for _, favorite := range s.Favorites {
		if common.NormalizeCity(favorite) == key {
			return true
		}
	}
	return false
}

// IsPremium reports whether the account has a premium subscription.
func (s Snapshot) IsPremium() bool {
	return s.Account.IsPremium()
}

// Store owns the client-side VPN session. It is safe for concurrent use.
type Store struct {
	gateway Gateway

	mu                sync.Mutex
	bin               string
	version           string
	account           *adguard.Account
	status            *adguard.Status
	locations         []adguard.Location
	loading           bool
	favorites         map[string]string // normalized city -> city
	exclusionMode     adguard.ExclusionMode
	inFlight          bool
	displayConnecting bool
	initialized       bool
	revision          uint64

	watchers    map[int]func(Snapshot)
	nextWatcher int

	// onAccountAppeared runs when the account goes from absent to present.
	onAccountAppeared func()

	ctx         context.Context
	cancel      context.CancelFunc
	bgMu        sync.Mutex
	bgClosed    bool
	background  sync.WaitGroup
	initOnce    sync.Once
	closeOnce   sync.Once
	unsubscribe func()
}

// New creates a store backed by gateway and subscribes it to the
// status-changed signal of events. events may be nil.
func New(gateway Gateway, events EventSource) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		gateway:   gateway,
		favorites: make(map[string]string),
		watchers:  make(map[int]func(Snapshot)),
		ctx:       ctx,
		cancel:    cancel,
	}

	s.onAccountAppeared = func() {
		s.goBackground(func(ctx context.Context) {
			if err := s.ReloadLocations(ctx); err != nil {
				common.LogWarn("vpn: location reload failed: %v", err)
			}
		})
	}

	if events != nil {
		s.unsubscribe = events.Subscribe(common.SignalStatusChanged, s.handleStatusEvent)
	}
	return s
}

// Close releases the event subscription and waits for background reloads.
// It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.cancel()

		s.bgMu.Lock()
		s.bgClosed = true
		s.bgMu.Unlock()
		s.background.Wait()
	})
}

func (s *Store) goBackground(fn func(ctx context.Context)) {
	s.bgMu.Lock()
	defer s.bgMu.Unlock()
	if s.bgClosed {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		fn(s.ctx)
	}()
}

// update runs fn under the lock. When fn reports a change, the revision is
// bumped and watchers are notified after the lock is released.
func (s *Store) update(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.revision++
	snapshot := s.snapshotLocked()
	watchers := slices.Collect(maps.Values(s.watchers))
	s.mu.Unlock()

	for _, watch := range watchers {
		watch(snapshot)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	favorites := slices.Collect(maps.Values(s.favorites))
	sort.Strings(favorites)

	return Snapshot{
		Revision:         s.revision,
		Initialized:      s.initialized,
		Bin:              s.bin,
		Version:          s.version,
		Account:          s.account.Clone(),
		Status:           s.status.Clone(),
		Connecting:       s.displayConnecting,
		InFlight:         s.inFlight,
		Locations:        slices.Clone(s.locations),
		LocationsLoading: s.loading,
		Favorites:        favorites,
		ExclusionMode:    s.exclusionMode,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Watch registers fn to be called with a fresh snapshot after every change.
// fn runs on the goroutine that made the change and must not block.
// The returned function removes the watcher.
func (s *Store) Watch(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

// Init runs the initialization sequence once. Every step is attempted even
// when an earlier one fails, and Initialized reports true afterwards.
// Later calls return nil without doing anything.
func (s *Store) Init(ctx context.Context) error {
	var err error
	s.initOnce.Do(func() {
		defer s.update(func() bool {
			s.initialized = true
			return true
		})

		steps := []struct {
			name string
			run  func(context.Context) error
		}{
			{"binary", s.LoadBinary},
			{"version", s.UpdateVersion},
			{"account", s.UpdateAccount},
			{"status", s.UpdateStatus},
			{"exclusion mode", s.UpdateExclusionMode},
		}

		var errs []error
		for _, step := range steps {
			if stepErr := step.run(ctx); stepErr != nil {
				common.LogWarn("vpn: init %s: %v", step.name, stepErr)
				errs = append(errs, fmt.Errorf("load %s: %w", step.name, stepErr))
			}
		}
		err = errors.Join(errs...)
	})
	return err
}

// Initialized reports whether Init has finished.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// LoadBinary reads the binary path from the gateway.
func (s *Store) LoadBinary(ctx context.Context) error {
	bin, err := s.gateway.Bin(ctx)
	if err != nil {
		return err
	}
	s.update(func() bool {
		s.bin = bin
		return true
	})
	return nil
}

// UpdateVersion reads the binary version from the gateway.
func (s *Store) UpdateVersion(ctx context.Context) error {
	version, err := s.gateway.Version(ctx)
	if err != nil {
		return err
	}
	s.update(func() bool {
		s.version = version
		return true
	})
	return nil
}

// UpdateBinary switches to the binary at path. Path and version are
// committed together, and only when the gateway accepts the binary.
func (s *Store) UpdateBinary(ctx context.Context, path string) error {
	version, err := s.gateway.SetBin(ctx, path)
	if err != nil {
		return fmt.Errorf("set binary: %w", err)
	}
	s.update(func() bool {
		s.bin = path
		s.version = version
		return true
	})
	return nil
}

// Bin returns the binary path.
func (s *Store) Bin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bin
}

// Version returns the binary version.
func (s *Store) Version() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// UpdateAccount reads the account from the gateway. When an account appears
// where there was none, the location catalog is reloaded in the background.
func (s *Store) UpdateAccount(ctx context.Context) error {
	account, err := s.gateway.Account(ctx)
	if err != nil {
		return err
	}
	s.setAccount(account)
	return nil
}

func (s *Store) setAccount(account *adguard.Account) {
	var appeared bool
	s.update(func() bool {
		appeared = s.account == nil && account != nil
		s.account = account.Clone()
		return true
	})
	if appeared && s.onAccountAppeared != nil {
		s.onAccountAppeared()
	}
}

// Account returns a copy of the account, or nil when nobody is logged in.
func (s *Store) Account() *adguard.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Clone()
}

// IsPremium reports whether the account has a premium subscription.
func (s *Store) IsPremium() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.IsPremium()
}
