package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/views"
)

func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, usageError("amount %q is not a whole number", s)
	}
	return n, nil
}

func newAwardCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "award STUDENT_ID AMOUNT",
		Short: "Give coins to a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			label, _ := cmd.Flags().GetString("label")
			return rt.done(cmd, rt.app.Reconciler.AwardCoins(cmd.Context(), args[0], amount, label))
		},
	}
	cmd.Flags().StringP("label", "l", "", "Reason shown in the student's wallet")
	return cmd
}

func newDeductCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deduct STUDENT_ID AMOUNT",
		Short: "Take coins from a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			label, _ := cmd.Flags().GetString("label")
			return rt.done(cmd, rt.app.Reconciler.DeductCoins(cmd.Context(), args[0], amount, label))
		},
	}
	cmd.Flags().StringP("label", "l", "", "Reason shown in the student's wallet")
	return cmd
}

func quickActionsHelp() string {
	var b strings.Builder
	b.WriteString("Apply a preset award or deduction.\n\nActions:\n")
	for _, qa := range model.QuickActions {
		sign := "+"
		if !qa.Earn {
			sign = "-"
		}
		fmt.Fprintf(&b, "  %-14s %s%d  %s\n", qa.Name, sign, qa.Amount, qa.Label)
	}
	return b.String()
}

func newQuickCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "quick STUDENT_ID ACTION",
		Short: "Apply a preset award or deduction",
		Long:  quickActionsHelp(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			return rt.done(cmd, rt.app.Reconciler.ApplyQuickAction(cmd.Context(), args[0], args[1]))
		},
	}
}

func newLedgerCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger [STUDENT_ID]",
		Short: "Show a wallet history",
		Long:  "Show a wallet history. Students see their own; teachers pass a student id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			f := views.LedgerFilter(filter)
			switch f {
			case views.FilterAll, views.FilterEarned, views.FilterSpent:
			default:
				return usageError("filter must be one of all, earned, spent")
			}

			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}

			me, _ := rt.app.Session.CurrentUser()
			id := me.ID
			if len(args) == 1 {
				id = args[0]
			}

			txs, err := rt.app.Reconciler.LoadTransactions(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snap := rt.app.Store.Snapshot()
			fmt.Fprintf(out, "Balance: %d\n", views.BalanceOf(snap, id))

			shown := views.FilterLedger(txs, f)
			t := newTable(out, "DATE", "LABEL", "CATEGORY", "AMOUNT")
			for _, tx := range shown {
				t.row(tx.Timestamp.Local().Format("2006-01-02 15:04"), tx.Label, tx.Category, fmt.Sprintf("%+d", tx.Amount))
			}
			t.flush()

			totals := views.LedgerTotals(shown)
			fmt.Fprintf(out, "Earned: %d  Spent: %d\n", totals.Earned, totals.Spent)
			return nil
		},
	}
	cmd.Flags().StringP("filter", "f", string(views.FilterAll), "all, earned or spent")
	return cmd
}
