// Package cli is the command-line interface of the AdGuard VPN controller.
// Every command opens a session against adguardvpn-cli, runs one store
// operation and prints the result. The tui and tray commands keep the
// session open and follow it until they are closed.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/yllada/adguardvpn-desktop/common"
)

// Options are the global flags.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// App carries the state shared by the command tree.
type App struct {
	version string
	opts    Options

	open         Opener
	setupLogging func(opts Options, quiet bool) error
	readPassword func(prompt string) (string, error)
	openVault    func() (SecretStore, error)

	session *Session
}

// NewApp creates the application with production dependencies.
func NewApp(version string) *App {
	return &App{
		version:      version,
		open:         OpenSession,
		setupLogging: initLogging,
		readPassword: readPassword,
		openVault:    openVault,
	}
}

// Session opens the session on first use and returns it.
func (a *App) Session(ctx context.Context) (*Session, error) {
	if a.session != nil {
		return a.session, nil
	}
	session, err := a.open(ctx, a.opts)
	if err != nil {
		return nil, err
	}
	a.session = session
	return session, nil
}

func (a *App) closeSession() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
}

func initLogging(opts Options, quiet bool) error {
	level := common.LevelInfo
	if opts.Verbose {
		level = common.LevelDebug
	}
	return common.InitLogger(common.LogConfig{
		Level:      level,
		EnableFile: true,
		Quiet:      quiet,
	})
}

// NewRootCommand builds the command tree.
func (a *App) NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "adguardvpn-desktop",
		Short:         "Control AdGuard VPN from the terminal, a TUI or the system tray",
		Long:          "adguardvpn-desktop drives adguardvpn-cli: it connects and disconnects,\nbrowses locations, keeps favorites and manages site exclusions.",
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal, so its logs go to the file only.
			quiet := cmd.Name() == "tui" || cmd.Name() == "askpass"
			if err := a.setupLogging(a.opts, quiet); err != nil {
				common.LogWarn("Could not initialize file logging: %v", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeSession()
		},
	}

	root.PersistentFlags().StringVar(&a.opts.ConfigPath, "config", "", "configuration file (default ~/.config/adguardvpn-desktop/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.opts.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.newStatusCmd(),
		a.newConnectCmd(),
		a.newDisconnectCmd(),
		a.newToggleCmd(),
		a.newAccountCmd(),
		a.newVersionCmd(),
		a.newBinCmd(),
		a.newLocationsCmd(),
		a.newFavoritesCmd(),
		a.newExclusionsCmd(),
		a.newHistoryCmd(),
		a.newTUICmd(),
		a.newTrayCmd(),
		a.newAskPassCmd(),
	)
	return root
}

// Execute runs the command line with args and closes the session afterwards.
func (a *App) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := a.NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer a.closeSession()
	return root.ExecuteContext(ctx)
}
