package cli

import (
	"encoding/json"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"

	"stackedit.dev/stackedit/internal/engine"
	"stackedit.dev/stackedit/internal/gitbridge"
	"stackedit.dev/stackedit/internal/wire"
)

// newInitCmd creates the init command
func newInitCmd(ctx *appContext) *cobra.Command {
	var (
		repoPath string
		baseRev  string
		headRev  string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [exported-stack.json]",
		Short: "Start an edit session from a commit range or an exported stack file",
		Long: `Start an edit session. Either pass a JSON file holding an exported
stack, or use --base (and optionally --head) to snapshot a commit range
from a repository.

The base commit is the public bottom of the stack and is never
rewritten; everything between base and head becomes editable.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(ctx.sessionPath); err == nil {
					return fmt.Errorf("session file %s already exists, use --force to replace it", ctx.sessionPath)
				}
			}

			var exported wire.ExportedStack
			switch {
			case len(args) == 1:
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &exported); err != nil {
					return fmt.Errorf("invalid exported stack in %s: %w", args[0], err)
				}
			case baseRev != "":
				var err error
				exported, err = exportFromRepo(repoPath, baseRev, headRev)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("pass an exported stack file or --base")
			}

			// Validate before persisting anything.
			stack, err := engine.NewStack(exported)
			if err != nil {
				return err
			}

			sess := &session{Exported: exported}
			if err := sess.save(ctx.sessionPath); err != nil {
				return err
			}
			ctx.splog.Info("Session started with %d commits in %s", stack.Size(), ctx.sessionPath)
			return nil
		},
	}

	// Add flags
	cmd.Flags().StringVar(&repoPath, "repo", ".", "Repository to snapshot from")
	cmd.Flags().StringVar(&baseRev, "base", "", "Revision of the immutable stack bottom")
	cmd.Flags().StringVar(&headRev, "head", "HEAD", "Revision of the stack top")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing session file")

	return cmd
}

func exportFromRepo(repoPath, baseRev, headRev string) (wire.ExportedStack, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", repoPath, err)
	}
	base, err := repo.ResolveRevision(plumbing.Revision(baseRev))
	if err != nil {
		return nil, fmt.Errorf("resolving base %q: %w", baseRev, err)
	}
	head, err := repo.ResolveRevision(plumbing.Revision(headRev))
	if err != nil {
		return nil, fmt.Errorf("resolving head %q: %w", headRev, err)
	}
	return gitbridge.Export(repo, *base, *head)
}
