package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
)

func (a *App) newLocationsCmd() *cobra.Command {
	var favoritesOnly bool

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List the available locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if err := session.Store.ReloadLocations(ctx); err != nil {
				return err
			}
			snapshot := session.Store.Snapshot()

			var rows []adguard.Location
			for _, location := range snapshot.Locations {
				if favoritesOnly && !snapshot.IsFavorite(location.City) {
					continue
				}
				rows = append(rows, location)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				if favoritesOnly {
					fmt.Fprintln(out, "No favorite locations.")
				} else {
					fmt.Fprintln(out, "No locations available. Are you logged in?")
				}
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ISO\tCOUNTRY\tCITY\tPING\tFAVORITE")
			fmt.Fprintln(w, "---\t-------\t----\t----\t--------")
			for _, location := range rows {
				favorite := ""
				if snapshot.IsFavorite(location.City) {
					favorite = "★"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					location.ISO, location.Country, location.City, formatPing(location.Ping), favorite)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&favoritesOnly, "favorites", "f", false, "list favorite locations only")
	return cmd
}

func formatPing(ping int) string {
	if ping < 0 {
		return "-"
	}
	return fmt.Sprintf("%dms", ping)
}

func (a *App) newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite locations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favorite cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			favorites, err := session.Service.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(favorites) == 0 {
				fmt.Fprintln(out, "No favorite locations.")
				return nil
			}
			for _, city := range favorites {
				fmt.Fprintln(out, city)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <city>",
		Short: "Mark a location as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if err := session.Store.ReloadLocations(ctx); err != nil {
				return err
			}
			location, err := session.Store.FindLocation(args[0])
			if err != nil {
				return err
			}
			if err := session.Store.AddToFavorites(ctx, location); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s to favorites\n", location.City)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "remove <city>",
		Aliases: []string{"rm"},
		Short:   "Unmark a favorite location",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			location := adguard.Location{City: args[0]}
			if err := session.Store.RemoveFromFavorites(cmd.Context(), location); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s from favorites\n", location.City)
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}
