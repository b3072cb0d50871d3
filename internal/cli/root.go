// Package cli is the command line front end of the client core.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/coined/internal/app"
	"github.com/dtroode/coined/internal/model"
)

// Builder creates the wired core for one command invocation.
type Builder func(ctx context.Context) (*app.App, error)

// BuildInfo is printed by the version command.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// runtime carries the App between the root hooks and the subcommands.
type runtime struct {
	build Builder
	app   *app.App
}

// Execute runs the coined command tree with the process arguments.
func Execute(ctx context.Context, build Builder, info BuildInfo) error {
	return execute(ctx, &runtime{build: build}, info, nil)
}

// execute runs the tree, closes the App built for the command and prints
// a failure the way a user should read it.
func execute(ctx context.Context, rt *runtime, info BuildInfo, configure func(*cobra.Command)) error {
	root := newRootCommand(rt, info)
	if configure != nil {
		configure(root)
	}

	err := root.ExecuteContext(ctx)

	if rt.app != nil {
		if cerr := rt.app.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close: %w", cerr)
		}
		rt.app = nil
	}

	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", model.UserMessage(err))
	}
	return err
}

func newRootCommand(rt *runtime, info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "coined",
		Short:         "Classroom coin economy client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationOffline] != "" {
				return nil
			}
			a, err := rt.build(cmd.Context())
			if err != nil {
				return err
			}
			rt.app = a
			return nil
		},
	}

	root.AddCommand(
		newVersionCommand(info),
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newWhoamiCommand(rt),
		newStudentsCommand(rt),
		newAwardCommand(rt),
		newDeductCommand(rt),
		newQuickCommand(rt),
		newLedgerCommand(rt),
		newLeaderboardCommand(rt),
		newShopCommand(rt),
		newStudentCommand(rt),
		newQuizCommand(rt),
		newReportCommand(rt),
	)

	return root
}

const annotationOffline = "offline"

// restore resumes the persisted session. Commands other than login call
// it before touching the cache.
func (rt *runtime) restore(ctx context.Context) error {
	if rt.app.Session.Restore(ctx) {
		return nil
	}
	return model.NewError(model.ErrNoSession, "Please log in first")
}

// notice prints the visible notification, if any.
func (rt *runtime) notice(cmd *cobra.Command) {
	if n, ok := rt.app.Notices.Current(); ok {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderNotice(out, n))
	}
}

// done prints the outcome notice of a mutation and passes err through.
// Failures are reported by Execute, so only successes are printed here.
func (rt *runtime) done(cmd *cobra.Command, err error) error {
	if err != nil {
		return err
	}
	rt.notice(cmd)
	return nil
}

var errUsage = errors.New("invalid usage")

func usageError(format string, args ...any) error {
	return model.NewError(errUsage, fmt.Sprintf(format, args...))
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationOffline: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\nBuild date: %s\nBuild commit: %s\n",
				info.Version, info.Date, info.Commit)
		},
	}
}
