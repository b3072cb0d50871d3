package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/coined/internal/model"
)

// quizFile is the document accepted by quiz create.
type quizFile struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
	Questions   []struct {
		Text    string   `json:"question"`
		Options []string `json:"options"`
		Answer  int      `json:"answer"`
	} `json:"questions"`
}

func readQuiz(path string) (model.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Quiz{}, fmt.Errorf("failed to read quiz file: %w", err)
	}

	var f quizFile
	if err := json.Unmarshal(data, &f); err != nil {
		return model.Quiz{}, usageError("quiz file is not valid JSON: %v", err)
	}

	q := model.Quiz{Title: f.Title, Description: f.Description, Reward: f.Reward}
	for _, fq := range f.Questions {
		q.Questions = append(q.Questions, model.QuizQuestion{Text: fq.Text, Options: fq.Options, Answer: fq.Answer})
	}
	return q, nil
}

func parseAnswers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	answers := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, usageError("answer %q is not an option number", p)
		}
		answers = append(answers, n)
	}
	return answers, nil
}

func newQuizCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take and author quizzes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List quizzes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "TITLE", "QUESTIONS", "REWARD")
			for _, q := range rt.app.Store.Snapshot().Quizzes() {
				t.row(q.ID, q.Title, len(q.Questions), q.Reward)
			}
			t.flush()
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create FILE",
		Short: "Create a quiz from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := readQuiz(args[0])
			if err != nil {
				return err
			}
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			created, err := rt.app.Reconciler.CreateQuiz(cmd.Context(), q)
			if err != nil {
				return err
			}
			rt.notice(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\n", created.ID)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete QUIZ_ID",
		Short: "Delete a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			return rt.done(cmd, rt.app.Reconciler.DeleteQuiz(cmd.Context(), args[0]))
		},
	}

	submit := &cobra.Command{
		Use:   "submit QUIZ_ID ANSWERS",
		Short: "Submit answers, e.g. 0,2,1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := parseAnswers(args[1])
			if err != nil {
				return err
			}
			took, _ := cmd.Flags().GetDuration("time")
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}

			res, err := rt.app.Reconciler.SubmitQuiz(cmd.Context(), model.SubmitIntent{
				QuizID:    args[0],
				Answers:   answers,
				TimeTaken: took,
			})
			if err != nil {
				return err
			}
			rt.notice(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "Score: %d\n", res.Attempt.Score)
			return nil
		},
	}
	submit.Flags().Duration("time", 0, "Time spent on the quiz")

	attempts := &cobra.Command{
		Use:   "attempts",
		Short: "List your quiz attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.restore(cmd.Context()); err != nil {
				return err
			}
			snap := rt.app.Store.Snapshot()
			t := newTable(cmd.OutOrStdout(), "QUIZ", "SCORE", "COINS", "TIME", "DATE")
			for _, a := range snap.Attempts() {
				title := a.QuizID
				if q, ok := snap.Quiz(a.QuizID); ok {
					title = q.Title
				}
				t.row(title, a.Score, a.CoinsEarned, a.TimeTaken.Round(time.Second), a.SubmittedAt.Local().Format("2006-01-02 15:04"))
			}
			t.flush()
			return nil
		},
	}

	cmd.AddCommand(list, create, remove, submit, attempts)
	return cmd
}
