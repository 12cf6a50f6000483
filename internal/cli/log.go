package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"stackedit.dev/stackedit/internal/engine"
)

// newLogCmd creates the log command
func newLogCmd(ctx *appContext) *cobra.Command {
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the stack as currently edited",
		Long: `Show the commits of the session, top of the stack first, as they
stand after the recorded edits. The undo position is reflected: undone
edits are not shown.`,
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
			stack := hist.Current().State

			var b strings.Builder
			for rev := stack.Size() - 1; rev >= 0; rev-- {
				c := stack.Commit(rev)
				marker := "o"
				if c.Immutable == engine.ImmutableHash {
					marker = "#"
				}
				fmt.Fprintf(&b, "%s  %s  %s\n",
					marker,
					ctx.colors.Rev(rev, fmt.Sprintf("%d", rev)),
					ctx.colors.Bold(c.Title()))
				fmt.Fprintf(&b, "   %s\n", ctx.colors.Dim(c.Author))
				if showFiles {
					for _, path := range changedPaths(c) {
						fmt.Fprintf(&b, "   %s\n", ctx.colors.Dim(path))
					}
				}
			}
			fmt.Fprintf(&b, "\n%s\n", ctx.colors.Dim(fmt.Sprintf("%d edits recorded, %d in effect", hist.Len()-1, hist.Cursor())))
			ctx.splog.Page(b.String())
			return nil
		},
	}

	// Add flags
	cmd.Flags().BoolVarP(&showFiles, "files", "F", false, "List the files each commit changes")

	return cmd
}

func changedPaths(c engine.CommitState) []string {
	paths := make([]string, 0, len(c.Files))
	for path, f := range c.Files {
		if f.IsAbsent() {
			paths = append(paths, "D "+path)
		} else {
			paths = append(paths, "M "+path)
		}
	}
	slices.Sort(paths)
	return paths
}
