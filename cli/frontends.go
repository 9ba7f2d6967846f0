package cli

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/yllada/adguardvpn-desktop/common"
	"github.com/yllada/adguardvpn-desktop/tray"
	"github.com/yllada/adguardvpn-desktop/tui"
	"github.com/yllada/adguardvpn-desktop/vpn"
)

// logRotationInterval is how often long-running commands check the log size.
const logRotationInterval = time.Minute

// rotateLogs calls rotate every interval until ctx is done.
func rotateLogs(ctx context.Context, interval time.Duration, rotate func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rotate()
		}
	}
}

// follow initializes the store in the background and then keeps its status
// fresh and the log file rotated until ctx is done. The returned function
// waits for all of them to stop.
func follow(ctx context.Context, session *Session) func() {
	poller := vpn.NewPoller(session.Store, session.Config.StatusInterval)
	poller.SetOnError(func(err error, consecutive int) {
		if consecutive == 3 {
			common.LogError("adguardvpn-cli is not answering: %v", err)
		}
	})

	var wg sync.WaitGroup
	wg.Go(func() {
		if err := session.Store.Init(ctx); err != nil {
			common.LogWarn("Initialization incomplete: %v", err)
		}
		poller.Start(ctx)
	})
	wg.Go(func() {
		rotateLogs(ctx, logRotationInterval, common.GetLogger().CheckRotation)
	})

	return func() {
		wg.Wait()
		poller.Stop()
	}
}

func (a *App) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse locations and control the connection in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			wait := follow(ctx, session)
			err = tui.Run(ctx, session.Store)
			cancel()
			wait()
			return err
		},
	}
}

func (a *App) newTrayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Show the connection status in the system tray",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			common.LogInfo("Starting %s tray", common.AppName)
			wait := follow(ctx, session)
			tray.New(session.Store, cancel).Run(ctx)
			cancel()
			wait()
			return nil
		},
	}
}
