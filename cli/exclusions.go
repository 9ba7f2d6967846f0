package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yllada/adguardvpn-desktop/adguard"
	"github.com/yllada/adguardvpn-desktop/common"
)

func (a *App) newExclusionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exclusions",
		Short: "Manage site exclusions",
		Long: "In general mode, excluded sites bypass the VPN.\n" +
			"In selective mode, only excluded sites go through it.",
	}

	mode := &cobra.Command{
		Use:       "mode [general|selective]",
		Short:     "Show or change the exclusion mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(adguard.ExclusionModeGeneral), string(adguard.ExclusionModeSelective)},
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if len(args) == 0 {
				if err := session.Store.UpdateExclusionMode(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), session.Store.ExclusionMode())
				return nil
			}

			m, err := adguard.ParseExclusionMode(args[0])
			if err != nil {
				return err
			}
			if err := session.Store.SetExclusionMode(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exclusion mode set to %s\n", m)
			return nil
		},
	}

	show := &cobra.Command{
		Use:     "show",
		Aliases: []string{"list"},
		Short:   "List the exclusions of the current mode",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			exclusions, err := session.Store.Exclusions(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(exclusions) == 0 {
				fmt.Fprintln(out, "No exclusions.")
				return nil
			}
			for _, exclusion := range exclusions {
				fmt.Fprintln(out, exclusion)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <domain>...",
		Short: "Add domains or addresses to the exclusion list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if err := session.Store.AddExclusions(ctx, args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %d exclusion(s)\n", len(args))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "remove <domain>",
		Aliases: []string{"rm"},
		Short:   "Remove an entry from the exclusion list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), common.CommandTimeout)
			defer cancel()

			if err := session.Store.DeleteExclusion(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(mode, show, add, remove)
	return cmd
}
