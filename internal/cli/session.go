package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"stackedit.dev/stackedit/internal/engine"
	"stackedit.dev/stackedit/internal/errors"
	"stackedit.dev/stackedit/internal/history"
	"stackedit.dev/stackedit/internal/wire"
)

const (
	opFold    = "fold"
	opDrop    = "drop"
	opReorder = "reorder"
	opEdit    = "edit"
)

// operation is one recorded edit. The session stores operations, not
// snapshots: replaying them from the exported stack is cheap and keeps
// the session file small and diffable.
type operation struct {
	Kind   string `json:"kind"`
	Rev    int    `json:"rev"`
	Offset int    `json:"offset,omitempty"`
	Path   string `json:"path,omitempty"`
	Text   string `json:"text,omitempty"`
}

// session is the on-disk state of an edit session: the snapshot taken at
// init, the operations applied since, and the undo cursor. Cursor n means
// the first n operations are in effect.
type session struct {
	Exported wire.ExportedStack `json:"exported"`
	Ops      []operation        `json:"ops"`
	Cursor   int                `json:"cursor"`
}

func loadSession(path string) (*session, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: run 'stackedit init' first", errors.ErrNoSession)
	}
	if err != nil {
		return nil, err
	}
	var s session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", path, err)
	}
	if s.Cursor < 0 || s.Cursor > len(s.Ops) {
		return nil, fmt.Errorf("corrupt session file %s: cursor out of range", path)
	}
	return &s, nil
}

func (s *session) save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// replay rebuilds the full edit history from the session and positions it
// at the session cursor.
func (s *session) replay() (*history.List, error) {
	stack, err := engine.NewStack(s.Exported)
	if err != nil {
		return nil, err
	}
	hist := history.NewList(history.Entry{State: stack, Op: "import stack"})
	for _, op := range s.Ops {
		ns, desc, err := applyOperation(hist.Current().State, op)
		if err != nil {
			return nil, fmt.Errorf("replaying session: %w", err)
		}
		hist.Push(history.Entry{State: ns, Op: desc})
	}
	for hist.Cursor() > s.Cursor {
		hist.Undo()
	}
	return hist, nil
}

// record appends an operation at the cursor, discarding any undone tail.
func (s *session) record(op operation) {
	s.Ops = append(s.Ops[:s.Cursor], op)
	s.Cursor = len(s.Ops)
}

// applyOperation runs one operation against a snapshot, guarded by its
// capability predicate, and returns the new snapshot plus a description
// for the history.
func applyOperation(s *engine.Stack, op operation) (*engine.Stack, string, error) {
	switch op.Kind {
	case opFold:
		if !s.CanFoldDown(op.Rev) {
			return nil, "", errors.NewRejectedEditError("fold", op.Rev)
		}
		parent := s.Commit(op.Rev).Parents[0]
		return s.FoldDown(op.Rev), fmt.Sprintf("fold commit %d into %d", op.Rev, parent), nil
	case opDrop:
		if !s.CanDrop(op.Rev) {
			return nil, "", errors.NewRejectedEditError("drop", op.Rev)
		}
		return s.Drop(op.Rev), fmt.Sprintf("drop commit %d", op.Rev), nil
	case opReorder:
		plan := engine.ReorderWithDeps(s.Size(), op.Rev, op.Offset, s.CalculateDepMap())
		if !s.CanReorder(plan.Order) {
			return nil, "", errors.NewRejectedEditError("reorder", op.Rev)
		}
		return s.ApplyReorder(plan.Order), fmt.Sprintf("move commit %d by %+d", op.Rev, plan.Offset), nil
	case opEdit:
		if !s.CanEditFile(op.Rev, op.Path) {
			return nil, "", errors.NewRejectedEditError("edit", op.Rev)
		}
		return s.EditFileText(op.Rev, op.Path, op.Text), fmt.Sprintf("edit %s in commit %d", op.Path, op.Rev), nil
	default:
		return nil, "", fmt.Errorf("unknown operation %q", op.Kind)
	}
}

// runOperation is the shared body of the mutating commands: load, replay,
// apply, record and save.
func runOperation(ctx *appContext, op operation) error {
	sess, err := loadSession(ctx.sessionPath)
	if err != nil {
		return err
	}
	hist, err := sess.replay()
	if err != nil {
		return err
	}
	_, desc, err := applyOperation(hist.Current().State, op)
	if err != nil {
		return err
	}
	sess.record(op)
	if err := sess.save(ctx.sessionPath); err != nil {
		return err
	}
	ctx.splog.Info("Recorded: %s", desc)
	return nil
}
