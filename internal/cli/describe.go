package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// newDescribeCmd creates the describe command
func newDescribeCmd(ctx *appContext) *cobra.Command {
	var showContent bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Dump the file revision chains of the current state",
		Long: `Dump each file's revision chain: which commits touch it and in what
order. Mostly useful to understand why a reorder or drop is refused.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := loadSession(ctx.sessionPath)
			if err != nil {
				return err
			}
			hist, err := sess.replay()
			if err != nil {
				return err
			}
			chains := hist.Current().State.DescribeFileStacks(showContent)
			ctx.splog.Page(strings.Join(chains, "\n") + "\n")
			return nil
		},
	}

	// Add flags
	cmd.Flags().BoolVarP(&showContent, "content", "c", false, "Include file contents per revision")

	return cmd
}
