package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// newEditCmd creates the edit command
func newEditCmd(ctx *appContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "edit <rev> <path>",
		Short: "Replace a file's text in one commit",
		Long: `Replace the text a commit gives to one file. The new content is read
from --file, or from stdin when no flag is given. Commits above keep
their own contents.

Only text files changed by an editable commit can be edited.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rev, err := parseRev(args[0])
			if err != nil {
				return err
			}
			var content []byte
			if fromFile != "" {
				content, err = os.ReadFile(fromFile)
			} else {
				content, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("reading new content: %w", err)
			}
			return runOperation(ctx, operation{Kind: opEdit, Rev: rev, Path: args[1], Text: string(content)})
		},
	}

	// Add flags
	cmd.Flags().StringVar(&fromFile, "file", "", "Read the new content from this file instead of stdin")

	return cmd
}
