// Package tui is a terminal front end for the session store.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/vpn"
)

// Controller is the part of the session store the TUI drives.
type Controller interface {
	Snapshot() vpn.Snapshot
	Watch(fn func(vpn.Snapshot)) func()
	Connect(ctx context.Context, city string) error
	Disconnect(ctx context.Context) error
	ToggleConnection(ctx context.Context) error
	ReloadLocations(ctx context.Context) error
	AddToFavorites(ctx context.Context, location adguard.Location) error
	RemoveFromFavorites(ctx context.Context, location adguard.Location) error
}

// snapshotMsg carries a store snapshot into the update loop.
type snapshotMsg vpn.Snapshot

// opDoneMsg reports the end of a store operation.
type opDoneMsg struct {
	op  string
	err error
}

// Model is the root bubbletea model.
type Model struct {
	ctx       context.Context
	ctrl      Controller
	snapshots chan vpn.Snapshot
	stopWatch func()

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	snapshot      vpn.Snapshot
	cursor        int
	favoritesOnly bool
	err           string

	width  int
	height int
}

// New creates the model and starts following the store.
func New(ctx context.Context, ctrl Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = connectingStyle

	snapshots := make(chan vpn.Snapshot, 1)
	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		snapshots: snapshots,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		snapshot:  ctrl.Snapshot(),
	}
	m.stopWatch = ctrl.Watch(func(s vpn.Snapshot) {
		// Keep only the newest snapshot when the UI lags behind.
		for {
			select {
			case snapshots <- s:
				return
			default:
			}
			select {
			case <-snapshots:
			default:
			}
		}
	})
	return m
}

// Close stops following the store.
func (m Model) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, ctrl Controller) error {
	m := New(ctx, ctrl)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func waitForSnapshot(ch <-chan vpn.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		if msg.Revision >= m.snapshot.Revision {
			m.snapshot = vpn.Snapshot(msg)
			m.clampCursor()
		}
		return m, waitForSnapshot(m.snapshots)

	case opDoneMsg:
		if msg.err != nil {
			common.LogWarn("tui: %s: %v", msg.op, msg.err)
			m.err = fmt.Sprintf("%s: %v", msg.op, msg.err)
		} else {
			m.err = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.FavoritesOnly):
		m.favoritesOnly = !m.favoritesOnly
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m, m.run("toggle connection", m.ctrl.ToggleConnection)

	case key.Matches(msg, m.keys.Disconnect):
		return m, m.run("disconnect", m.ctrl.Disconnect)

	case key.Matches(msg, m.keys.Reload):
		return m, m.run("reload locations", m.ctrl.ReloadLocations)

	case key.Matches(msg, m.keys.Connect):
		location, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run("connect to "+location.City, func(ctx context.Context) error {
			return m.ctrl.Connect(ctx, location.City)
		})

	case key.Matches(msg, m.keys.Favorite):
		location, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.snapshot.IsFavorite(location.City) {
			return m, m.run("remove favorite", func(ctx context.Context) error {
				return m.ctrl.RemoveFromFavorites(ctx, location)
			})
		}
		return m, m.run("add favorite", func(ctx context.Context) error {
			return m.ctrl.AddToFavorites(ctx, location)
		})
	}
	return m, nil
}

func (m Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// rows returns the locations currently listed.
func (m Model) rows() []adguard.Location {
	if !m.favoritesOnly {
		return m.snapshot.Locations
	}
	return slices.DeleteFunc(slices.Clone(m.snapshot.Locations), func(l adguard.Location) bool {
		return !m.snapshot.IsFavorite(l.City)
	})
}

func (m Model) selected() (adguard.Location, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return adguard.Location{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(common.AppName))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.accountLine())
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.locationList()))
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	s := m.snapshot
	switch {
	case s.Connecting || (s.Status != nil && s.Status.Connecting):
		return m.spinner.View() + " " + connectingStyle.Render("Connecting...")
	case s.Status != nil && s.Status.Connected:
		return connectedStyle.Render("● " + s.Status.String())
	case !s.Initialized:
		return offStyle.Render("○ Loading...")
	default:
		return offStyle.Render("○ Disconnected")
	}
}

func (m Model) accountLine() string {
	s := m.snapshot
	if s.Account == nil {
		if s.Initialized {
			return errorStyle.Render("Not logged in: run adguardvpn-cli login")
		}
		return ""
	}
	parts := []string{s.Account.Username, s.Account.Subscription.Type}
	if s.Version != "" {
		parts = append(parts, "cli "+s.Version)
	}
	if s.ExclusionMode != "" {
		parts = append(parts, "exclusions: "+string(s.ExclusionMode))
	}
	return dimStyle.Render(strings.Join(parts, " · "))
}

func (m Model) locationList() string {
	header := "All locations"
	if m.favoritesOnly {
		header = "Favorites"
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(header)}

	if m.snapshot.LocationsLoading {
		lines = append(lines, m.spinner.View()+" Loading locations...")
	}

	rows := m.rows()
	if len(rows) == 0 && !m.snapshot.LocationsLoading {
		lines = append(lines, dimStyle.Render("No locations"))
	}

	connected := ""
	if m.snapshot.Status != nil && m.snapshot.Status.Connected {
		connected = common.NormalizeCity(m.snapshot.Status.City())
	}

	start, end := m.window(len(rows))
	for i := start; i < end; i++ {
		lines = append(lines, m.locationRow(rows[i], i == m.cursor, connected))
	}
	return strings.Join(lines, "\n")
}

func (m Model) locationRow(l adguard.Location, selected bool, connected string) string {
	cursor := "  "
	if selected {
		cursor = "› "
	}
	star := "  "
	if m.snapshot.IsFavorite(l.City) {
		star = favoriteStyle.Render("★ ")
	}
	text := fmt.Sprintf("%-2s %-20s %-16s %4dms", l.ISO, l.City, l.Country, l.Ping)
	if connected != "" && common.NormalizeCity(l.City) == connected {
		text = connectedStyle.Render(text)
	} else if selected {
		text = selectedStyle.Render(text)
	}
	return cursor + star + text
}

// window returns the visible row range so the cursor stays on screen.
func (m Model) window(n int) (int, int) {
	visible := n
	if m.height > 0 {
		visible = max(m.height-12, 5)
	}
	if n <= visible {
		return 0, n
	}
	start := max(m.cursor-visible/2, 0)
	end := min(start+visible, n)
	return end - visible, end
}
