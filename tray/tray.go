// Package tray shows the VPN state in the system tray.
//
// The indicator follows the session store: its icon and title change with
// the connection status, the first menu entry toggles the connection, and
// the favorites submenu connects to a favorite location.
package tray

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"fyne.io/systray"

	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/vpn"
)

// Controller is the part of the session store the tray uses.
type Controller interface {
	Snapshot() vpn.Snapshot
	Watch(fn func(vpn.Snapshot)) func()
	ToggleConnection(ctx context.Context) error
	Connect(ctx context.Context, city string) error
}

// view is what the tray shows for one snapshot.
type view struct {
	icon          []byte
	title         string
	status        string
	toggle        string
	toggleEnabled bool
	favorites     []string
}

func render(s vpn.Snapshot) view {
	v := view{favorites: slices.Clone(s.Favorites)}

	switch {
	case s.Connecting || (s.Status != nil && s.Status.Connecting):
		v.icon = iconConnecting
		v.title = common.AppName + " - Connecting..."
		v.status = "Connecting..."
		v.toggle = "Connecting..."
	case s.Status != nil && s.Status.Connected:
		v.icon = iconConnected
		v.title = common.AppName + " - Connected to " + s.Status.City()
		v.status = s.Status.String()
		v.toggle = "Disconnect"
		v.toggleEnabled = true
	case s.Initialized && s.Account == nil:
		v.icon = iconDisconnected
		v.title = common.AppName + " - Disconnected"
		v.status = "Not logged in: run adguardvpn-cli login"
		v.toggle = "Connect to fastest location"
	default:
		v.icon = iconDisconnected
		v.title = common.AppName + " - Disconnected"
		v.status = "Disconnected"
		v.toggle = "Connect to fastest location"
		v.toggleEnabled = true
	}
	return v
}

// Indicator is the system tray icon and its menu.
type Indicator struct {
	ctrl   Controller
	onQuit func()
	ctx    context.Context

	mu            sync.Mutex
	revision      uint64
	statusItem    *systray.MenuItem
	toggleItem    *systray.MenuItem
	favoritesMenu *systray.MenuItem
	favoriteItems map[string]*systray.MenuItem
	stopWatch     func()
}

// New creates an indicator. onQuit runs when the user picks Quit.
func New(ctrl Controller, onQuit func()) *Indicator {
	return &Indicator{
		ctrl:          ctrl,
		onQuit:        onQuit,
		favoriteItems: make(map[string]*systray.MenuItem),
	}
}

// Run shows the indicator and blocks until ctx is done or the user quits.
func (t *Indicator) Run(ctx context.Context) {
	t.ctx = ctx
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(t.onReady, t.onExit)
}

func (t *Indicator) onReady() {
	systray.SetIcon(iconDisconnected)
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName)

	t.mu.Lock()
	t.statusItem = systray.AddMenuItem("Disconnected", "Current VPN status")
	t.statusItem.Disable()
	systray.AddSeparator()
	t.toggleItem = systray.AddMenuItem("Connect to fastest location", "Connect or disconnect")
	t.favoritesMenu = systray.AddMenuItem("Favorites", "Connect to a favorite location")
	t.favoritesMenu.Hide()
	t.mu.Unlock()

	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Quit "+common.AppName)

	go func() {
		for range t.toggleItem.ClickedCh {
			go t.run("toggle", t.ctrl.ToggleConnection)
		}
	}()
	go func() {
		for range quitItem.ClickedCh {
			if t.onQuit != nil {
				t.onQuit()
			}
			systray.Quit()
		}
	}()

	t.stopWatch = t.ctrl.Watch(t.apply)
	t.apply(t.ctrl.Snapshot())
}

func (t *Indicator) onExit() {
	if t.stopWatch != nil {
		t.stopWatch()
	}
	common.LogInfo("Tray indicator cleanup completed")
}

func (t *Indicator) run(what string, op func(ctx context.Context) error) {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := op(ctx); err != nil {
		common.LogWarn("tray: %s failed: %v", what, err)
	}
}

// accept reports whether a snapshot is newer than the last one shown.
// Watch callbacks can arrive out of order from different goroutines.
// t.mu must be held.
func (t *Indicator) accept(revision uint64) bool {
	if revision < t.revision {
		return false
	}
	t.revision = revision
	return true
}

func (t *Indicator) apply(s vpn.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.accept(s.Revision) {
		return
	}

	v := render(s)
	systray.SetIcon(v.icon)
	systray.SetTitle(v.title)
	systray.SetTooltip(v.title)

	t.statusItem.SetTitle(v.status)
	t.toggleItem.SetTitle(v.toggle)
	if v.toggleEnabled {
		t.toggleItem.Enable()
	} else {
		t.toggleItem.Disable()
	}

	t.syncFavorites(v.favorites)
}

// syncFavorites adds submenu entries for new favorites and hides removed
// ones. systray cannot delete items, so hidden entries are reused.
func (t *Indicator) syncFavorites(favorites []string) {
	if len(favorites) == 0 {
		t.favoritesMenu.Hide()
	} else {
		t.favoritesMenu.Show()
	}

	current := make(map[string]bool, len(favorites))
	for _, city := range favorites {
		key := common.NormalizeCity(city)
		current[key] = true

		if item, ok := t.favoriteItems[key]; ok {
			item.Show()
			continue
		}

		item := t.favoritesMenu.AddSubMenuItem(city, fmt.Sprintf("Connect to %s", city))
		t.favoriteItems[key] = item
		go func(city string, item *systray.MenuItem) {
			for range item.ClickedCh {
				go t.run("connect to "+city, func(ctx context.Context) error {
					return t.ctrl.Connect(ctx, city)
				})
			}
		}(city, item)
	}

	for key, item := range t.favoriteItems {
		if !current[key] {
			item.Hide()
		}
	}
}
