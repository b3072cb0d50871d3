package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/coined/internal/model"
	"github.com/dtroode/coined/internal/views"
)

func newStudentsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List the class roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			class, _ := cmd.Flags().GetString("class")

			snap := rt.app.Store.Snapshot()
			students := views.StudentsInClass(snap, class)

			out := cmd.OutOrStdout()
			t := newTable(out, "ID", "NAME", "CLASS", "COINS")
			for _, st := range students {
				t.row(st.ID, st.Name, st.Class, st.Coins)
			}
			t.flush()

			agg := views.AggregateOf(students)
			fmt.Fprintf(out, "%d students, %d coins in total, %d on average\n", agg.Count, agg.Total, agg.Average)
			if classes := views.Classes(snap); len(classes) > 0 {
				fmt.Fprintf(out, "Classes: %v\n", classes)
			}
			return nil
		},
	}
	cmd.Flags().StringP("class", "c", "", "Only list students of this class")
	return cmd
}

func newLeaderboardCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank students by coins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			class, _ := cmd.Flags().GetString("class")

			board := views.Leaderboard(rt.app.Store.Snapshot(), class)
			out := cmd.OutOrStdout()

			podium := views.Podium(board)
			t := newTable(out, "RANK", "NAME", "CLASS", "COINS")
			for i, e := range board.Entries {
				rank := fmt.Sprintf("#%d", e.Rank)
				if i < len(podium) {
					rank += " *"
				}
				t.row(rank, e.Student.Name, e.Student.Class, e.Student.Coins)
			}
			t.flush()

			if board.YourRank > 0 {
				fmt.Fprintf(out, "Your rank: #%d\n", board.YourRank)
			}
			return nil
		},
	}
	cmd.Flags().StringP("class", "c", "", "Only rank students of this class")
	return cmd
}

func newStudentCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage the roster",
	}

	create := &cobra.Command{
		Use:   "create NAME EMAIL PASSWORD",
		Short: "Enroll a student",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			class, _ := cmd.Flags().GetString("class")
			color, _ := cmd.Flags().GetString("color")

			u, err := rt.app.Reconciler.CreateStudent(cmd.Context(), model.NewStudent{
				Name:        args[0],
				Email:       args[1],
				Password:    args[2],
				Class:       class,
				AvatarColor: color,
			})
			if err != nil {
				return err
			}
			rt.notice(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", u.ID)
			return nil
		},
	}
	create.Flags().StringP("class", "c", "", "Class of the student")
	create.Flags().String("color", "", "Avatar color")

	remove := &cobra.Command{
		Use:   "delete STUDENT_ID",
		Short: "Remove a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			return rt.done(cmd, rt.app.Reconciler.DeleteStudent(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(create, remove)
	return cmd
}
