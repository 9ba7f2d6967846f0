package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/config"
	"github.com/yllada/adguardvpn-desktop/events"
	"github.com/yllada/adguardvpn-desktop/storage"
)

const locationsOutput = `ISO   COUNTRY    CITY      PING ESTIMATE
FR    France     Paris     23
JP    Japan      Tokyo     240
`

// fakeCLI stands in for adguardvpn-cli. status is what `status` prints.
type fakeCLI struct {
	mu     sync.Mutex
	status string
	bad    map[string]bool
}

func (f *fakeCLI) run(_ context.Context, _ []string, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bad[name] {
		return nil, errors.New("exit status 127")
	}
	switch strings.Join(args, " ") {
	case "--version":
		return []byte("1.4.0\n"), nil
	case "status":
		return []byte(f.status), nil
	case "list-locations":
		return []byte(locationsOutput), nil
	case "connect --yes --location Tokyo":
		f.status = "Connected to TOKYO in TUN mode\n"
	case "connect --yes":
		f.status = "Connected to PARIS in TUN mode\n"
	case "disconnect":
		f.status = "VPN is disconnected\n"
	}
	return nil, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *fakeNotifier) Notify(title, _ string, _ common.Urgency) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return nil
}

type fixture struct {
	service  *Service
	cfg      *config.Config
	cli      *fakeCLI
	hub      *events.Hub
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	cfg, err := config.LoadFrom(filepath.Join(dir, "config", "config.yaml"))
	require.NoError(t, err)

	db, err := storage.Open(ctx, filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	cli := &fakeCLI{status: "VPN is disconnected\n", bad: map[string]bool{}}
	f := &fixture{
		cfg:      cfg,
		cli:      cli,
		hub:      events.NewHub(),
		notifier: &fakeNotifier{},
	}
	f.service = New(cfg, adguard.NewCli(cfg.AdGuardBin, cli.run), db, f.hub, f.notifier)
	t.Cleanup(func() { _ = f.service.Close() })
	return f
}

func TestSetBin_PersistsToConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	version, err := f.service.SetBin(ctx, "/opt/adguard/adguardvpn-cli")
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", version)

	bin, err := f.service.Bin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/opt/adguard/adguardvpn-cli", bin)

	reloaded, err := config.LoadFrom(f.cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, "/opt/adguard/adguardvpn-cli", reloaded.AdGuardBin)
}

func TestSetBin_RollsBackOnVersionFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cli.bad["/missing"] = true

	_, err := f.service.SetBin(ctx, "/missing")
	require.ErrorIs(t, err, common.ErrCLIFailed)

	bin, _ := f.service.Bin(ctx)
	assert.Equal(t, common.DefaultCLIBin, bin)
	assert.Equal(t, common.DefaultCLIBin, f.cfg.AdGuardBin)
}

func TestSetBin_RollsBackOnSaveFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Replace the config directory with a file so that saving fails.
	cfgDir := filepath.Dir(f.cfg.Path())
	require.NoError(t, os.RemoveAll(cfgDir))
	require.NoError(t, os.WriteFile(cfgDir, nil, 0600))

	_, err := f.service.SetBin(ctx, "/opt/adguardvpn-cli")
	require.ErrorIs(t, err, common.ErrConfigSave)

	bin, _ := f.service.Bin(ctx)
	assert.Equal(t, common.DefaultCLIBin, bin)
	assert.Equal(t, common.DefaultCLIBin, f.cfg.AdGuardBin)
}

func TestConnect_PublishesStatusAndRecordsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var mu sync.Mutex
	var published []adguard.Status
	f.hub.Subscribe(common.SignalStatusChanged, func(payload any) {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, *payload.(*adguard.Status))
	})

	require.NoError(t, f.service.Connect(ctx, "Tokyo"))

	require.Len(t, published, 2)
	assert.True(t, published[0].Connecting)
	assert.True(t, published[1].Connected)
	require.NotNil(t, published[1].Location)
	assert.Equal(t, "JP", published[1].Location.ISO)

	// A repeated status is not a new transition.
	_, err := f.service.Status(ctx)
	require.NoError(t, err)

	require.NoError(t, f.service.Disconnect(ctx))

	history, err := f.service.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, storage.EventDisconnected, history[0].Event)
	assert.Equal(t, storage.EventConnected, history[1].Event)
	assert.Equal(t, "Tokyo", history[1].City)
	assert.Equal(t, "Japan", history[1].Country)
	assert.Equal(t, adguard.ModeTUN, history[1].Mode)

	assert.Equal(t, []string{"VPN connected", "VPN disconnected"}, f.notifier.titles)
}

func TestFirstDisconnectedStatusIsNotRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.service.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Connected)

	history, err := f.service.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, f.notifier.titles)
}

func TestNotificationsDisabled(t *testing.T) {
	f := newFixture(t)
	f.cfg.ShowNotifications = false

	require.NoError(t, f.service.Connect(context.Background(), ""))
	assert.Empty(t, f.notifier.titles)
}

func TestFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.AddFavorite(ctx, "Paris"))
	require.NoError(t, f.service.AddFavorite(ctx, "Tokyo"))
	require.NoError(t, f.service.RemoveFavorite(ctx, "Paris"))

	favorites, err := f.service.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tokyo"}, favorites)
}

func TestWriteAskPassScript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bin")

	path, err := WriteAskPassScript(dir, "/usr/local/bin/adguard vpn's desktop")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, AskPassScriptName), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nexec '/usr/local/bin/adguard vpn'\\''s desktop' askpass \"$@\"\n", string(content))
}
