package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/coined/internal/report"
)

func newReportCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Class reports",
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Upload the class leaderboard to report storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exporter, err := rt.reports(cmd.Context())
			if err != nil {
				return err
			}
			class, _ := cmd.Flags().GetString("class")

			key, err := exporter.Export(cmd.Context(), class)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report uploaded to %s/%s\n", rt.app.Config.Storage.Bucket, key)
			return nil
		},
	}
	export.Flags().StringP("class", "c", "", "Only report students of this class")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exporter, err := rt.reports(cmd.Context())
			if err != nil {
				return err
			}
			class, _ := cmd.Flags().GetString("class")

			objects, err := exporter.List(cmd.Context(), class)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(objects) == 0 {
				fmt.Fprintln(out, "No reports stored")
				return nil
			}
			t := newTable(out, "KEY", "SIZE", "UPLOADED")
			for _, obj := range objects {
				t.row(obj.Key, obj.Size, obj.LastModified.Local().Format("2006-01-02 15:04"))
			}
			t.flush()
			return nil
		},
	}
	list.Flags().StringP("class", "c", "", "Only list reports of this class")

	show := &cobra.Command{
		Use:   "show <key>",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := rt.reports(cmd.Context())
			if err != nil {
				return err
			}

			r, err := exporter.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Class: %s\nGenerated: %s\n", r.Class, r.GeneratedAt.Local().Format("2006-01-02 15:04"))
			t := newTable(out, "RANK", "NAME", "CLASS", "COINS")
			for _, row := range r.Leaderboard {
				t.row(row.Rank, row.Name, row.Class, row.Coins)
			}
			t.flush()
			fmt.Fprintf(out, "%d students, %d coins in total, %d on average, top %d\n",
				r.Aggregate.Students, r.Aggregate.Total, r.Aggregate.Average, r.Aggregate.Top)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := rt.reports(cmd.Context())
			if err != nil {
				return err
			}
			if err := exporter.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(export, list, show, del)
	return cmd
}

// reports resumes the session and opens report storage.
func (rt *runtime) reports(ctx context.Context) (*report.Exporter, error) {
	if err := rt.restore(ctx); err != nil {
		return nil, err
	}
	return rt.app.Reports(ctx)
}
