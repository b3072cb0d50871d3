package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/coined/internal/views"
)

func newLoginCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login EMAIL_OR_NAME",
		Short: "Sign in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")

			role, err := rt.app.Session.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			u, _ := rt.app.Session.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (%s)\n", u.Name, role)
			return nil
		},
	}
	cmd.Flags().StringP("password", "p", "", "Account password")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}

			snap := rt.app.Store.Snapshot()
			u, _ := snap.CurrentUser()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s <%s> %s\n", u.Name, u.Email, u.Role)
			if u.IsStudent() {
				fmt.Fprintf(out, "Class: %s\nCoins: %d\n", u.Class, views.BalanceOf(snap, u.ID))
				if rank := views.RankOf(snap, u.ID); rank > 0 {
					fmt.Fprintf(out, "Rank: #%d\n", rank)
				}
				return nil
			}

			stats := views.StatsOf(snap)
			fmt.Fprintf(out, "Students: %d\nTransactions: %d\nShop items: %d\n",
				stats.Students, stats.Transactions, stats.ShopItems)
			return nil
		},
	}
}
