package vpn

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/events"
)

var errGateway = errors.New("gateway failure")

var testLocations = []adguard.Location{
	{ISO: "FR", Country: "France", City: "Paris", Ping: 23},
	{ISO: "JP", Country: "Japan", City: "Tokyo", Ping: 240},
	{ISO: "DE", Country: "Germany", City: "Berlin", Ping: 30},
}

// fakeGateway records calls and lets tests hold connect, disconnect and
// list-locations open until a gate channel is closed.
type fakeGateway struct {
	mu sync.Mutex

	bin        string
	version    string
	setBinErr  error
	account    *adguard.Account
	accountErr error
	status     *adguard.Status
	statusErr  error

	locations     []adguard.Location
	locationsErr  error
	locationsGate chan struct{}
	favorites     []string
	favoriteErr   error

	mode       adguard.ExclusionMode
	modeErr    error
	setModeErr error
	exclusions []string

	connectErr  error
	connectGate chan struct{}
	entered     chan string

	calls       []string
	inFlight    int
	maxInFlight int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		bin:       "adguardvpn-cli",
		version:   "1.0.0",
		status:    &adguard.Status{},
		locations: testLocations,
		mode:      adguard.ExclusionModeGeneral,
		entered:   make(chan string, 16),
	}
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeGateway) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) set(fn func(f *fakeGateway)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeGateway) Bin(context.Context) (string, error) {
	f.record("Bin")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bin, nil
}

func (f *fakeGateway) SetBin(_ context.Context, path string) (string, error) {
	f.record("SetBin")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setBinErr != nil {
		return "", f.setBinErr
	}
	f.bin = path
	return "2.0.0", nil
}

func (f *fakeGateway) Version(context.Context) (string, error) {
	f.record("Version")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version, nil
}

func (f *fakeGateway) Status(context.Context) (*adguard.Status, error) {
	f.record("Status")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status.Clone(), f.statusErr
}

func (f *fakeGateway) Account(context.Context) (*adguard.Account, error) {
	f.record("Account")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.account.Clone(), f.accountErr
}

func (f *fakeGateway) Locations(ctx context.Context) ([]adguard.Location, error) {
	f.record("Locations")
	f.mu.Lock()
	gate := f.locationsGate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locationsErr != nil {
		return nil, f.locationsErr
	}
	return append([]adguard.Location(nil), f.locations...), nil
}

func (f *fakeGateway) Favorites(context.Context) ([]string, error) {
	f.record("Favorites")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.favorites...), nil
}

func (f *fakeGateway) AddFavorite(_ context.Context, city string) error {
	f.record("AddFavorite")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.favoriteErr != nil {
		return f.favoriteErr
	}
	f.favorites = append(f.favorites, city)
	return nil
}

func (f *fakeGateway) RemoveFavorite(_ context.Context, city string) error {
	f.record("RemoveFavorite")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.favoriteErr
}

func (f *fakeGateway) ExclusionMode(context.Context) (adguard.ExclusionMode, error) {
	f.record("ExclusionMode")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode, f.modeErr
}

func (f *fakeGateway) SetExclusionMode(_ context.Context, mode adguard.ExclusionMode) error {
	f.record("SetExclusionMode")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setModeErr != nil {
		return f.setModeErr
	}
	f.mode = mode
	return nil
}

func (f *fakeGateway) Exclusions(context.Context) ([]string, error) {
	f.record("Exclusions")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.exclusions...), nil
}

func (f *fakeGateway) AddExclusions(_ context.Context, exclusions []string) error {
	f.record("AddExclusions")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exclusions = append(f.exclusions, exclusions...)
	return nil
}

func (f *fakeGateway) RemoveExclusion(_ context.Context, exclusion string) error {
	f.record("RemoveExclusion")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.exclusions {
		if e == exclusion {
			f.exclusions = append(f.exclusions[:i], f.exclusions[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeGateway) Connect(ctx context.Context, city string) error {
	return f.transition(ctx, "Connect")
}

func (f *fakeGateway) Disconnect(ctx context.Context) error {
	return f.transition(ctx, "Disconnect")
}

func (f *fakeGateway) transition(ctx context.Context, call string) error {
	f.record(call)
	f.mu.Lock()
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	gate, err := f.connectGate, f.connectErr
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	f.entered <- call
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func newTestStore(t *testing.T, gateway *fakeGateway) (*Store, *events.Hub) {
	t.Helper()
	hub := events.NewHub()
	store := New(gateway, hub)
	t.Cleanup(store.Close)
	return store, hub
}

func waitEntered(t *testing.T, gateway *fakeGateway, call string) {
	t.Helper()
	select {
	case got := <-gateway.entered:
		require.Equal(t, call, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("%s was not called", call)
	}
}

func TestInit_RunsStepsInOrder(t *testing.T) {
	gateway := newFakeGateway()
	store, _ := newTestStore(t, gateway)

	require.False(t, store.Initialized())
	require.NoError(t, store.Init(context.Background()))

	assert.True(t, store.Initialized())
	assert.Equal(t, []string{"Bin", "Version", "Account", "Status", "ExclusionMode"}, gateway.callLog())
	assert.Equal(t, "adguardvpn-cli", store.Bin())
	assert.Equal(t, "1.0.0", store.Version())
	assert.Equal(t, adguard.ExclusionModeGeneral, store.ExclusionMode())
}

func TestInit_FailureStillInitializes(t *testing.T) {
	gateway := newFakeGateway()
	gateway.statusErr = errGateway
	gateway.modeErr = errGateway
	store, _ := newTestStore(t, gateway)

	var initializedFlips int
	store.Watch(func(s Snapshot) {
		if s.Initialized {
			initializedFlips++
		}
	})

	err := store.Init(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errGateway)
	assert.Contains(t, err.Error(), "load status")
	assert.Contains(t, err.Error(), "load exclusion mode")
	assert.True(t, store.Initialized())

	// Init runs once per store.
	require.NoError(t, store.Init(context.Background()))
	assert.Equal(t, 1, gateway.count("Bin"))
	assert.Equal(t, 1, initializedFlips)
}

func TestInit_NoAccountSkipsReload(t *testing.T) {
	gateway := newFakeGateway()
	gateway.favorites = []string{"Paris", "Tokyo"}
	store, _ := newTestStore(t, gateway)

	require.NoError(t, store.Init(context.Background()))
	store.Close()

	assert.Nil(t, store.Account())
	assert.Empty(t, store.Locations())
	assert.Equal(t, 0, gateway.count("Locations"))
	assert.Equal(t, 0, gateway.count("Favorites"))
}

func TestAccountAppearing_ReloadsLocations(t *testing.T) {
	gateway := newFakeGateway()
	gateway.favorites = []string{"Paris", "Tokyo"}
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	require.NoError(t, store.Init(ctx))
	require.Empty(t, store.Locations())

	gateway.set(func(f *fakeGateway) {
		f.account = &adguard.Account{
			Username:     "user@example.com",
			Subscription: adguard.Subscription{Type: adguard.SubscriptionPremium, MaxDevices: 10},
		}
	})
	require.NoError(t, store.UpdateAccount(ctx))

	assert.Eventually(t, func() bool {
		return len(store.Locations()) == len(testLocations) && !store.LocationsLoading()
	}, 2*time.Second, 5*time.Millisecond)

	assert.True(t, store.IsFavorite(adguard.Location{City: "Paris", Country: "France", ISO: "FR"}))
	assert.True(t, store.IsFavorite(adguard.Location{City: "Tokyo"}))
	assert.False(t, store.IsFavorite(adguard.Location{City: "Berlin"}))
	assert.True(t, store.IsPremium())

	// Still logged in: no second reload.
	require.NoError(t, store.UpdateAccount(ctx))
	store.Close()
	assert.Equal(t, 1, gateway.count("Locations"))
	assert.Equal(t, 1, gateway.count("Favorites"))
}

func TestAccountAppearing_ReloadsOncePerTransition(t *testing.T) {
	gateway := newFakeGateway()
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()
	account := &adguard.Account{Username: "user@example.com"}

	for i := 1; i <= 2; i++ {
		gateway.set(func(f *fakeGateway) { f.account = account })
		require.NoError(t, store.UpdateAccount(ctx))
		require.NoError(t, store.UpdateAccount(ctx))
		assert.Eventually(t, func() bool {
			return gateway.count("Locations") == i && !store.LocationsLoading()
		}, 2*time.Second, 5*time.Millisecond)

		gateway.set(func(f *fakeGateway) { f.account = nil })
		require.NoError(t, store.UpdateAccount(ctx))
	}

	store.Close()
	assert.Equal(t, 2, gateway.count("Locations"))
}

func TestReloadLocations_LoadingFlag(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "success"},
		{name: "failure", err: errGateway, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newFakeGateway()
			gate := make(chan struct{})
			gateway.locationsGate = gate
			gateway.locationsErr = tt.err
			store, _ := newTestStore(t, gateway)

			result := make(chan error, 1)
			go func() { result <- store.ReloadLocations(context.Background()) }()

			assert.Eventually(t, store.LocationsLoading, 2*time.Second, 5*time.Millisecond)
			close(gate)

			err := <-result
			if tt.wantErr {
				assert.ErrorIs(t, err, errGateway)
				assert.Empty(t, store.Locations())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testLocations, store.Locations())
			}
			assert.False(t, store.LocationsLoading())
		})
	}
}

func TestReloadLocations_KeepsFavoriteAddedDuringReload(t *testing.T) {
	gateway := newFakeGateway()
	gate := make(chan struct{})
	gateway.locationsGate = gate
	gateway.favorites = []string{"Paris"}
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	result := make(chan error, 1)
	go func() { result <- store.ReloadLocations(ctx) }()

	// The favorites list is read before the catalog call returns.
	assert.Eventually(t, func() bool { return gateway.count("Favorites") == 1 }, 2*time.Second, 5*time.Millisecond)
	require.True(t, store.LocationsLoading())

	berlin := adguard.Location{ISO: "DE", Country: "Germany", City: "Berlin"}
	require.NoError(t, store.AddToFavorites(ctx, berlin))

	close(gate)
	require.NoError(t, <-result)

	assert.True(t, store.IsFavorite(berlin))
	assert.True(t, store.IsFavorite(adguard.Location{City: "Paris"}))
	assert.Equal(t, []string{"Berlin", "Paris"}, store.Favorites())
}

func TestReloadLocations_ReplacesCatalog(t *testing.T) {
	gateway := newFakeGateway()
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	require.NoError(t, store.ReloadLocations(ctx))
	require.Len(t, store.Locations(), 3)

	gateway.set(func(f *fakeGateway) { f.locations = testLocations[:1] })
	require.NoError(t, store.ReloadLocations(ctx))
	assert.Equal(t, testLocations[:1], store.Locations())

	location, err := store.FindLocation("PARIS")
	require.NoError(t, err)
	assert.Equal(t, "FR", location.ISO)

	_, err = store.FindLocation("Tokyo")
	assert.ErrorIs(t, err, common.ErrLocationNotFound)
}

func TestConnect_SingleInFlight(t *testing.T) {
	gateway := newFakeGateway()
	gate := make(chan struct{})
	gateway.connectGate = gate
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- store.Connect(ctx, "Paris") }()
	waitEntered(t, gateway, "Connect")

	assert.True(t, store.InFlight())
	assert.True(t, store.Connecting())

	// Second connect while the first has not resolved is a no-op.
	require.NoError(t, store.Connect(ctx, "Tokyo"))
	assert.Equal(t, 1, gateway.count("Connect"))

	close(gate)
	require.NoError(t, <-first)
	assert.False(t, store.InFlight())
	assert.False(t, store.Connecting())
}

func TestConnectionOperations_MutuallyExclusive(t *testing.T) {
	gateway := newFakeGateway()
	gate := make(chan struct{})
	gateway.connectGate = gate
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- store.Disconnect(ctx) }()
	waitEntered(t, gateway, "Disconnect")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); _ = store.Connect(ctx, "") }()
		go func() { defer wg.Done(); _ = store.Disconnect(ctx) }()
		go func() { defer wg.Done(); _ = store.ToggleConnection(ctx) }()
	}
	wg.Wait()

	close(gate)
	require.NoError(t, <-first)

	assert.Equal(t, 0, gateway.count("Connect"))
	assert.Equal(t, 1, gateway.count("Disconnect"))
	assert.Equal(t, 1, gateway.maxInFlight)
}

func TestConnect_FailureReleasesLock(t *testing.T) {
	gateway := newFakeGateway()
	gateway.connectErr = errGateway
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	err := store.Connect(ctx, "")
	assert.ErrorIs(t, err, errGateway)
	assert.False(t, store.InFlight())
	assert.False(t, store.Connecting())

	// The lock is free again.
	assert.ErrorIs(t, store.Connect(ctx, ""), errGateway)
	assert.Equal(t, 2, gateway.count("Connect"))
}

func TestPushDuringDisconnect(t *testing.T) {
	gateway := newFakeGateway()
	gateway.status = &adguard.Status{Connected: true, Location: &testLocations[0], Mode: adguard.ModeTUN}
	gate := make(chan struct{})
	gateway.connectGate = gate
	store, hub := newTestStore(t, gateway)
	ctx := context.Background()

	require.NoError(t, store.UpdateStatus(ctx))

	done := make(chan error, 1)
	go func() { done <- store.Disconnect(ctx) }()
	waitEntered(t, gateway, "Disconnect")

	hub.Publish(common.SignalStatusChanged, &adguard.Status{Connected: true, Location: &testLocations[1], Mode: adguard.ModeTUN})

	// The push replaces the status but the local operation keeps the indicator.
	assert.Equal(t, "Tokyo", store.Status().City())
	assert.True(t, store.Connecting())

	close(gate)
	require.NoError(t, <-done)

	assert.False(t, store.Connecting())
	assert.False(t, store.InFlight())
	assert.True(t, store.Status().Connected)
}

func TestStatusPush_DrivesConnectingIndicator(t *testing.T) {
	gateway := newFakeGateway()
	store, hub := newTestStore(t, gateway)

	hub.Publish(common.SignalStatusChanged, adguard.Status{Connecting: true})
	assert.True(t, store.Connecting())
	assert.False(t, store.InFlight())

	hub.Publish(common.SignalStatusChanged, &adguard.Status{Connected: true, Location: &testLocations[0]})
	assert.False(t, store.Connecting())
	assert.Equal(t, "Paris", store.Status().City())

	// Unknown payloads are ignored.
	hub.Publish(common.SignalStatusChanged, "garbage")
	assert.Equal(t, "Paris", store.Status().City())
}

func TestToggleConnection(t *testing.T) {
	tests := []struct {
		name   string
		status *adguard.Status
		want   string
	}{
		{"unknown connects", nil, "Connect"},
		{"disconnected connects", &adguard.Status{}, "Connect"},
		{"connected disconnects", &adguard.Status{Connected: true}, "Disconnect"},
		{"remote connecting is a no-op", &adguard.Status{Connecting: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newFakeGateway()
			store, hub := newTestStore(t, gateway)
			if tt.status != nil {
				hub.Publish(common.SignalStatusChanged, tt.status)
			}

			require.NoError(t, store.ToggleConnection(context.Background()))

			if tt.want == "" {
				assert.Empty(t, gateway.callLog())
				return
			}
			assert.Equal(t, []string{tt.want}, gateway.callLog())
		})
	}
}

func TestFavorites_WriteThrough(t *testing.T) {
	gateway := newFakeGateway()
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()
	paris := testLocations[0]

	require.NoError(t, store.AddToFavorites(ctx, paris))
	assert.True(t, store.IsFavorite(paris))
	assert.Equal(t, []string{"Paris"}, store.Favorites())

	require.NoError(t, store.RemoveFromFavorites(ctx, paris))
	assert.False(t, store.IsFavorite(paris))

	gateway.set(func(f *fakeGateway) { f.favoriteErr = errGateway })
	assert.ErrorIs(t, store.AddToFavorites(ctx, paris), errGateway)
	assert.False(t, store.IsFavorite(paris))

	gateway.set(func(f *fakeGateway) { f.favoriteErr = nil })
	require.NoError(t, store.AddToFavorites(ctx, paris))
	gateway.set(func(f *fakeGateway) { f.favoriteErr = errGateway })
	assert.ErrorIs(t, store.RemoveFromFavorites(ctx, paris), errGateway)
	assert.True(t, store.IsFavorite(paris))
}

func TestSetExclusionMode(t *testing.T) {
	gateway := newFakeGateway()
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	require.NoError(t, store.UpdateExclusionMode(ctx))
	require.Equal(t, adguard.ExclusionModeGeneral, store.ExclusionMode())

	gateway.set(func(f *fakeGateway) { f.setModeErr = errGateway })
	assert.ErrorIs(t, store.SetExclusionMode(ctx, adguard.ExclusionModeSelective), errGateway)
	assert.Equal(t, adguard.ExclusionModeGeneral, store.ExclusionMode())

	gateway.set(func(f *fakeGateway) { f.setModeErr = nil })
	require.NoError(t, store.SetExclusionMode(ctx, adguard.ExclusionModeSelective))
	assert.Equal(t, adguard.ExclusionModeSelective, store.ExclusionMode())
}

func TestExclusions_PassThrough(t *testing.T) {
	gateway := newFakeGateway()
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()

	require.NoError(t, store.AddExclusions(ctx, []string{"example.com", "10.0.0.0/8"}))
	require.NoError(t, store.DeleteExclusion(ctx, "example.com"))

	exclusions, err := store.Exclusions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8"}, exclusions)

	_, err = store.Exclusions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.count("Exclusions"))
}

func TestUpdateBinary(t *testing.T) {
	gateway := newFakeGateway()
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()
	require.NoError(t, store.Init(ctx))

	var pairs [][2]string
	store.Watch(func(s Snapshot) { pairs = append(pairs, [2]string{s.Bin, s.Version}) })

	require.NoError(t, store.UpdateBinary(ctx, "/opt/adguardvpn-cli"))
	assert.Equal(t, "/opt/adguardvpn-cli", store.Bin())
	assert.Equal(t, "2.0.0", store.Version())
	assert.Equal(t, [][2]string{{"/opt/adguardvpn-cli", "2.0.0"}}, pairs)

	gateway.set(func(f *fakeGateway) { f.setBinErr = errGateway })
	assert.ErrorIs(t, store.UpdateBinary(ctx, "/missing"), errGateway)
	assert.Equal(t, "/opt/adguardvpn-cli", store.Bin())
	assert.Equal(t, "2.0.0", store.Version())
}

func TestClose_Unsubscribes(t *testing.T) {
	gateway := newFakeGateway()
	hub := events.NewHub()
	store := New(gateway, hub)
	require.Equal(t, 1, hub.Subscribers(common.SignalStatusChanged))

	store.Close()
	store.Close()
	assert.Equal(t, 0, hub.Subscribers(common.SignalStatusChanged))

	hub.Publish(common.SignalStatusChanged, &adguard.Status{Connected: true})
	assert.Nil(t, store.Status())
}

func TestNew_WithoutEvents(t *testing.T) {
	store := New(newFakeGateway(), nil)
	require.NoError(t, store.UpdateStatus(context.Background()))
	assert.NotNil(t, store.Status())
	store.Close()
}

func TestSnapshot_IsACopy(t *testing.T) {
	gateway := newFakeGateway()
	gateway.status = &adguard.Status{Connected: true, Location: &adguard.Location{City: "Paris"}}
	store, _ := newTestStore(t, gateway)
	ctx := context.Background()
	require.NoError(t, store.ReloadLocations(ctx))
	require.NoError(t, store.UpdateStatus(ctx))

	snapshot := store.Snapshot()
	snapshot.Locations[0].City = "Mutated"
	snapshot.Status.Location.City = "Mutated"

	locations := store.Locations()
	locations[1].City = "Mutated"

	assert.Equal(t, "Paris", store.Locations()[0].City)
	assert.Equal(t, "Tokyo", store.Locations()[1].City)
	assert.Equal(t, "Paris", store.Status().City())
}

func TestWatch_RevisionsIncrease(t *testing.T) {
	gateway := newFakeGateway()
	store, hub := newTestStore(t, gateway)

	var revisions []uint64
	stop := store.Watch(func(s Snapshot) { revisions = append(revisions, s.Revision) })

	hub.Publish(common.SignalStatusChanged, &adguard.Status{})
	require.NoError(t, store.UpdateVersion(context.Background()))
	stop()
	hub.Publish(common.SignalStatusChanged, &adguard.Status{})

	require.Len(t, revisions, 2)
	assert.Less(t, revisions[0], revisions[1])
	assert.Equal(t, revisions[1]+1, store.Snapshot().Revision)
}

func TestSnapshot_IsFavorite(t *testing.T) {
	snapshot := Snapshot{Favorites: []string{"Paris", "New York"}}
	assert.True(t, snapshot.IsFavorite("paris"))
	assert.True(t, snapshot.IsFavorite("New York"))
	assert.False(t, snapshot.IsFavorite("Tokyo"))
	assert.False(t, snapshot.IsPremium())
}
