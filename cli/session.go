package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/config"
	"github.com/yllada/adguardvpn-desktop/events"
	"github.com/yllada/adguardvpn-desktop/notify"
	"github.com/yllada/adguardvpn-desktop/service"
	"github.com/yllada/adguardvpn-desktop/storage"
	"github.com/yllada/adguardvpn-desktop/vpn"
)

// Session is everything a command needs to talk to adguardvpn-cli.
type Session struct {
	Config  *config.Config
	Service *service.Service
	Store   *vpn.Store

	closers []func()
}

// Close releases the session in reverse order of acquisition.
func (s *Session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Opener builds a session for one command run.
type Opener func(ctx context.Context, opts Options) (*Session, error)

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// OpenSession wires configuration, adguardvpn-cli, storage, the event hub,
// desktop notifications and the session store together.
func OpenSession(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cli := adguard.NewCli(cfg.AdGuardBin, nil)
	if cfg.UseAskPass {
		if err := setupAskPass(cli); err != nil {
			common.LogWarn("SUDO_ASKPASS not configured: %v", err)
		}
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	if err := common.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	hub := events.NewHub()

	var (
		notifier common.Notifier
		closers  []func()
	)
	if desktop, err := notify.Connect(); err != nil {
		common.LogDebug("Desktop notifications unavailable: %v", err)
	} else {
		if !cfg.ShowNotifications {
			desktop.Disable()
		}
		stop := desktop.Forward(hub)
		closers = append(closers, func() {
			stop()
			_ = desktop.Close()
		})
		notifier = desktop
	}

	return assemble(cfg, cli, db, hub, notifier, closers...), nil
}

// assemble builds the service and the store on top of an open database.
// closers run after the store and the database are closed.
func assemble(cfg *config.Config, cli *adguard.Cli, db *storage.Store, hub *events.Hub, notifier common.Notifier, closers ...func()) *Session {
	s := &Session{Config: cfg, closers: closers}

	s.Service = service.New(cfg, cli, db, hub, notifier)
	s.closers = append(s.closers, func() {
		if err := s.Service.Close(); err != nil {
			common.LogWarn("%v", err)
		}
	})

	s.Store = vpn.New(s.Service, hub)
	s.closers = append(s.closers, s.Store.Close)
	return s
}

func setupAskPass(cli *adguard.Cli) error {
	dataDir, err := common.GetDataDir()
	if err != nil {
		return err
	}
	executable, err := os.Executable()
	if err != nil {
		return err
	}
	script, err := service.WriteAskPassScript(dataDir, executable)
	if err != nil {
		return err
	}
	cli.SetAskPass(script)
	return nil
}
