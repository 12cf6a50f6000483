package cli

import (
	"github.com/spf13/cobra"

	"stackedit.dev/stackedit/internal/errors"
)

// newUndoCmd creates the undo command
func newUndoCmd(ctx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the last edit",
		Long: `Step the session back by one edit. The edit stays recorded, so redo
can bring it back until a new edit replaces the undone tail.`,
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
			undone := hist.Current().Op
			if _, ok := hist.Undo(); !ok {
				return errors.ErrNothingToUndo
			}
			sess.Cursor = hist.Cursor()
			if err := sess.save(ctx.sessionPath); err != nil {
				return err
			}
			ctx.splog.Info("Undid: %s", undone)
			return nil
		},
	}

	return cmd
}
