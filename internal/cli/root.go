package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackedit.dev/stackedit/internal/output"
)

// appContext carries the pieces every command needs.
type appContext struct {
	splog       *output.Splog
	colors      *output.Colors
	sessionPath string
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	ctx := &appContext{
		splog:  output.NewSplog(),
		colors: output.NewColors(),
	}

	rootCmd := &cobra.Command{
		Use:   "stackedit",
		Short: "Stackedit rewrites stacks of draft commits without touching the working copy",
		Long: `Stackedit edits a stack of draft commits as pure data: fold commits
together, drop them, move them past each other and amend file contents,
with full undo. Nothing touches the repository until 'apply'.

Start with 'stackedit init' to snapshot a commit range into a session,
then edit, then 'stackedit apply' to rewrite the commits.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = ctx.splog.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.sessionPath, "session", ".stackedit-session.json", "Path of the edit session file")

	// Add subcommands
	rootCmd.AddCommand(
		newInitCmd(ctx),
		newLogCmd(ctx),
		newDescribeCmd(ctx),
		newFoldCmd(ctx),
		newDropCmd(ctx),
		newReorderCmd(ctx),
		newEditCmd(ctx),
		newUndoCmd(ctx),
		newRedoCmd(ctx),
		newApplyCmd(ctx),
	)

	return rootCmd
}
