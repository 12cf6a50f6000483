package cli

import (
	"github.com/spf13/cobra"
)

// newFoldCmd creates the fold command
func newFoldCmd(ctx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fold <rev>",
		Short: "Fold a commit into its parent",
		Long: `Fold a commit into the commit below it. The two become one commit
carrying both file changes; the upper commit's message is appended to
the lower one's unless it is trivial (like "wip").

The fold is refused when either commit is immutable or when the parent
has other children.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rev, err := parseRev(args[0])
			if err != nil {
				return err
			}
			return runOperation(ctx, operation{Kind: opFold, Rev: rev})
		},
	}

	return cmd
}
