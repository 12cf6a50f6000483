package cli

import (
	"github.com/spf13/cobra"
)

// newDropCmd creates the drop command
func newDropCmd(ctx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop <rev>",
		Short: "Discard a commit and its changes",
		Long: `Discard one commit entirely. Commits above it keep their own changes:
the dropped commit's edits are removed from their contents, not baked
in.

The drop is refused when a later commit depends on lines or files the
commit introduced.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rev, err := parseRev(args[0])
			if err != nil {
				return err
			}
			return runOperation(ctx, operation{Kind: opDrop, Rev: rev})
		},
	}

	return cmd
}
