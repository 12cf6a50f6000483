package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	gogit "github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"

	"stackedit.dev/stackedit/internal/gitbridge"
)

// newApplyCmd creates the apply command
func newApplyCmd(ctx *appContext) *cobra.Command {
	var (
		repoPath string
		outFile  string
		gotoTop  bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Rewrite the repository's commits to match the session",
		Long: `Materialize the edited stack: every editable commit is recreated on
top of the immutable base with its new contents, message and order. The
original commits are recorded as predecessors.

With --out the import instructions are written as JSON instead of being
applied, for feeding into another tool.`,
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
			actions := stack.CalculateImportStack(gotoTop)

			if outFile != "" {
				data, err := json.MarshalIndent(actions, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(outFile, data, 0644); err != nil {
					return err
				}
				ctx.splog.Info("Wrote %d instructions to %s", len(actions), outFile)
				return nil
			}

			repo, err := gogit.PlainOpen(repoPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", repoPath, err)
			}

			if !yes {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Rewrite %d commits in %s?", countCommits(len(actions), gotoTop), repoPath),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return fmt.Errorf("canceled")
				}
				if !confirmed {
					return fmt.Errorf("canceled")
				}
			}

			marks, err := gitbridge.Apply(repo, actions)
			if err != nil {
				return err
			}
			for _, action := range actions {
				if action.Commit == nil {
					continue
				}
				ctx.splog.Debug("created %s as %s", action.Commit.Mark, marks[action.Commit.Mark])
			}
			ctx.splog.Info("Rewrote %d commits", countCommits(len(actions), gotoTop))
			return nil
		},
	}

	// Add flags
	cmd.Flags().StringVar(&repoPath, "repo", ".", "Repository to rewrite")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write import instructions to this file instead of applying them")
	cmd.Flags().BoolVar(&gotoTop, "goto", true, "Check out the new stack top after rewriting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func countCommits(actionCount int, gotoTop bool) int {
	if gotoTop {
		return actionCount - 1
	}
	return actionCount
}
