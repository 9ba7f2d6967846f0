package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
)

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the connection status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if err := session.Store.UpdateStatus(ctx); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), session.Store.Status())
			return nil
		},
	}
}

func printStatus(out io.Writer, status *adguard.Status) {
	if status == nil || !status.Connected || status.Location == nil {
		fmt.Fprintln(out, status.String())
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "STATUS\t%s\n", status.String())
	fmt.Fprintf(w, "CITY\t%s\n", status.Location.City)
	if status.Location.Country != "" {
		fmt.Fprintf(w, "COUNTRY\t%s (%s)\n", status.Location.Country, status.Location.ISO)
	}
	fmt.Fprintf(w, "MODE\t%s\n", strings.ToUpper(status.Mode))
	w.Flush()
}

func (a *App) newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect [city]",
		Short: "Connect to a city, or to the fastest location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			city := ""
			if len(args) == 1 {
				city = strings.TrimSpace(args[0])
			}

			out := cmd.OutOrStdout()
			if city == "" {
				fmt.Fprintln(out, "Connecting to the fastest location...")
			} else {
				fmt.Fprintf(out, "Connecting to %s...\n", city)
			}

			if err := session.Store.Connect(cmd.Context(), city); err != nil {
				return err
			}
			status := session.Store.Status()
			if status == nil || !status.Connected {
				return fmt.Errorf("connection failed: %s", status.String())
			}
			fmt.Fprintf(out, "✓ %s\n", status.String())
			return nil
		},
	}
}

func (a *App) newDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the VPN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			if err := session.Store.Disconnect(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Disconnected")
			return nil
		},
	}
}

func (a *App) newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Disconnect when connected, otherwise connect to the fastest location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			if err := session.Store.UpdateStatus(cmd.Context()); err != nil {
				return err
			}
			if err := session.Store.ToggleConnection(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.Store.Status().String())
			return nil
		},
	}
}

func (a *App) newAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if err := session.Store.UpdateAccount(ctx); err != nil {
				return err
			}
			account := session.Store.Account()
			out := cmd.OutOrStdout()
			if account == nil {
				fmt.Fprintln(out, "Not logged in. Run: adguardvpn-cli login")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "USERNAME\t%s\n", account.Username)
			fmt.Fprintf(w, "SUBSCRIPTION\t%s\n", account.Subscription.Type)
			if account.Subscription.MaxDevices > 0 {
				fmt.Fprintf(w, "DEVICES\t%d\n", account.Subscription.MaxDevices)
			}
			if !account.Subscription.ValidUntil.IsZero() {
				fmt.Fprintf(w, "RENEWS\t%s\n", account.Subscription.ValidUntil.Format(time.DateOnly))
			}
			w.Flush()
			return nil
		},
	}
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version of this tool and of adguardvpn-cli",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "adguardvpn-desktop %s\n", a.version)

			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if err := session.Store.LoadBinary(ctx); err != nil {
				return err
			}
			if err := session.Store.UpdateVersion(ctx); err != nil {
				fmt.Fprintf(out, "%s: unavailable (%v)\n", session.Store.Bin(), err)
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", session.Store.Bin(), session.Store.Version())
			return nil
		},
	}
}

func (a *App) newBinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bin [path]",
		Short: "Show or change the adguardvpn-cli executable",
		Long: "Without arguments, print the adguardvpn-cli executable in use.\n" +
			"With a path, switch to it after checking that it reports a version, and save it to the configuration.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if err := session.Store.LoadBinary(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, session.Store.Bin())
				return nil
			}

			if err := session.Store.UpdateBinary(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Using %s (%s)\n", session.Store.Bin(), session.Store.Version())
			return nil
		},
	}
}
