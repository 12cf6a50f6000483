package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushUndoRedo(t *testing.T) {
	l := NewList(Entry{Op: "import"})
	l.Push(Entry{Op: "fold commit 2"})
	l.Push(Entry{Op: "drop commit 1"})

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "drop commit 1", l.Current().Op)
	assert.True(t, l.CanUndo())
	assert.False(t, l.CanRedo())

	e, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, "fold commit 2", e.Op)
	assert.True(t, l.CanRedo())

	e, ok = l.Redo()
	require.True(t, ok)
	assert.Equal(t, "drop commit 1", e.Op)
}

func TestUndoAtBottom(t *testing.T) {
	l := NewList(Entry{Op: "import"})
	_, ok := l.Undo()
	assert.False(t, ok)
	_, ok = l.Redo()
	assert.False(t, ok)
}

func TestPushTruncatesRedoTail(t *testing.T) {
	l := NewList(Entry{Op: "import"})
	l.Push(Entry{Op: "fold commit 2"})
	l.Push(Entry{Op: "drop commit 1"})
	_, ok := l.Undo()
	require.True(t, ok)
	_, ok = l.Undo()
	require.True(t, ok)

	l.Push(Entry{Op: "move commit 3 down"})
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "move commit 3 down", l.Current().Op)
	assert.False(t, l.CanRedo())
}

func TestSplitRangeRecorded(t *testing.T) {
	l := NewList(Entry{Op: "import"})
	l.Push(Entry{Op: "split commit 1", Split: &Range{StartRev: 1, EndRev: 2}})
	require.NotNil(t, l.Current().Split)
	assert.Equal(t, 1, l.Current().Split.StartRev)
	assert.Equal(t, 2, l.Current().Split.EndRev)
}
