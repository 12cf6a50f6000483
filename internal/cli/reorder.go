package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// newReorderCmd creates the reorder command
func newReorderCmd(ctx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder <rev> <offset>",
		Short: "Move a commit up or down the stack",
		Long: `Move a commit by the given offset: positive moves it up the stack
(later), negative moves it down (earlier). Commits that depend on the
moving commit, or that it depends on, travel with it; the offset is
clamped to the stack bounds.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rev, err := parseRev(args[0])
			if err != nil {
				return err
			}
			offset, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid offset %q", args[1])
			}
			return runOperation(ctx, operation{Kind: opReorder, Rev: rev, Offset: offset})
		},
	}

	return cmd
}

func parseRev(s string) (int, error) {
	rev, err := strconv.Atoi(s)
	if err != nil || rev < 0 {
		return 0, fmt.Errorf("invalid rev %q: expected a non-negative stack position", s)
	}
	return rev, nil
}
