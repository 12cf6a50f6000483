package cli

import (
	"github.com/spf13/cobra"

	"stackedit.dev/stackedit/internal/errors"
)

// newRedoCmd creates the redo command
func newRedoCmd(ctx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "redo",
		Short:        "Redo the last undone edit",
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
			entry, ok := hist.Redo()
			if !ok {
				return errors.ErrNothingToRedo
			}
			sess.Cursor = hist.Cursor()
			if err := sess.save(ctx.sessionPath); err != nil {
				return err
			}
			ctx.splog.Info("Redid: %s", entry.Op)
			return nil
		},
	}

	return cmd
}
