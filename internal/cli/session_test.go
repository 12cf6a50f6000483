package cli

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackedit.dev/stackedit/internal/errors"
	"stackedit.dev/stackedit/internal/wire"
)

func sessionFixture() *session {
	text := func(data string) *wire.ExportedFile { return &wire.ExportedFile{Data: data} }
	return &session{
		Exported: wire.ExportedStack{
			{
				Node: "base", Parents: []string{"public"},
				Author: "Ada Dev <ada@example.com>", Text: "base", Immutable: true,
				RelevantFiles: map[string]*wire.ExportedFile{"a.txt": text("one\n")},
			},
			{
				Node: "c1", Parents: []string{"base"},
				Author: "Ada Dev <ada@example.com>", Text: "grow a", Requested: true,
				Files: map[string]*wire.ExportedFile{"a.txt": text("one\ntwo\n")},
			},
			{
				Node: "c2", Parents: []string{"c1"},
				Author: "Ada Dev <ada@example.com>", Text: "add b", Requested: true,
				Files: map[string]*wire.ExportedFile{"b.txt": text("beta\n")},
			},
		},
	}
}

func TestSessionReplayEmpty(t *testing.T) {
	hist, err := sessionFixture().replay()
	require.NoError(t, err)
	assert.Equal(t, 1, hist.Len())
	assert.Equal(t, 3, hist.Current().State.Size())
}

func TestSessionRecordAndReplay(t *testing.T) {
	sess := sessionFixture()
	sess.record(operation{Kind: opFold, Rev: 2})

	hist, err := sess.replay()
	require.NoError(t, err)
	assert.Equal(t, 2, hist.Len())
	assert.Equal(t, 2, hist.Current().State.Size())
	assert.Equal(t, "fold commit 2 into 1", hist.Current().Op)
}

func TestSessionUndoCursor(t *testing.T) {
	sess := sessionFixture()
	sess.record(operation{Kind: opFold, Rev: 2})
	sess.Cursor = 0 // undone

	hist, err := sess.replay()
	require.NoError(t, err)
	assert.Equal(t, 3, hist.Current().State.Size(), "undone fold is not in effect")
	assert.True(t, hist.CanRedo())
}

func TestSessionRecordTruncatesUndoneTail(t *testing.T) {
	sess := sessionFixture()
	sess.record(operation{Kind: opFold, Rev: 2})
	sess.Cursor = 0
	sess.record(operation{Kind: opDrop, Rev: 2})

	require.Len(t, sess.Ops, 1)
	assert.Equal(t, opDrop, sess.Ops[0].Kind)
	assert.Equal(t, 1, sess.Cursor)
}

func TestApplyOperationRejectsInvalidEdits(t *testing.T) {
	hist, err := sessionFixture().replay()
	require.NoError(t, err)
	stack := hist.Current().State

	_, _, err = applyOperation(stack, operation{Kind: opFold, Rev: 1})
	require.Error(t, err, "folding into the immutable base")
	assert.True(t, stderrors.Is(err, errors.ErrRejectedEdit))

	_, _, err = applyOperation(stack, operation{Kind: opEdit, Rev: 1, Path: "missing.txt", Text: "x"})
	assert.True(t, stderrors.Is(err, errors.ErrRejectedEdit))

	_, _, err = applyOperation(stack, operation{Kind: "mystery", Rev: 1})
	assert.Error(t, err)
}

func TestApplyOperationReorder(t *testing.T) {
	hist, err := sessionFixture().replay()
	require.NoError(t, err)

	ns, desc, err := applyOperation(hist.Current().State, operation{Kind: opReorder, Rev: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, "move commit 1 by +1", desc)
	assert.Equal(t, "add b", ns.Commit(1).Text)
	assert.Equal(t, "grow a", ns.Commit(2).Text)
}

func TestSessionSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	sess := sessionFixture()
	sess.record(operation{Kind: opReorder, Rev: 1, Offset: 1})
	require.NoError(t, sess.save(path))

	loaded, err := loadSession(path)
	require.NoError(t, err)
	assert.Equal(t, sess.Cursor, loaded.Cursor)
	require.Len(t, loaded.Ops, 1)
	assert.Equal(t, opReorder, loaded.Ops[0].Kind)

	hist, err := loaded.replay()
	require.NoError(t, err)
	assert.Equal(t, "add b", hist.Current().State.Commit(1).Text)
}

func TestLoadSessionMissingFile(t *testing.T) {
	_, err := loadSession(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNoSession))
}
