// Package history provides linear undo/redo over stack snapshots: an
// append-only vector of entries plus a cursor. Undo and redo only move
// the cursor; pushing while undone discards the redo tail, like most
// editors.
package history

import (
	"stackedit.dev/stackedit/internal/engine"
)

// Range marks the revs covered by a split preview, recorded for display
// next to the operation description.
type Range struct {
	StartRev int `json:"startRev"`
	EndRev   int `json:"endRev"`
}

// Entry is one snapshot: the resulting state, a human-readable operation
// descriptor (display only, never replayed), and an optional split range.
type Entry struct {
	State *engine.Stack
	Op    string
	Split *Range
}

// List is a linear, non-branching undo history.
type List struct {
	entries []Entry
	cursor  int
}

// NewList creates a history seeded with the initial entry.
func NewList(initial Entry) *List {
	return &List{entries: []Entry{initial}}
}

// Current returns the entry at the cursor.
func (l *List) Current() Entry {
	return l.entries[l.cursor]
}

// Len returns the number of recorded entries.
func (l *List) Len() int { return len(l.entries) }

// Cursor returns the current cursor position.
func (l *List) Cursor() int { return l.cursor }

// Entries returns the recorded entries, oldest first.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Push appends a new entry, truncating any redone-then-edited future.
func (l *List) Push(e Entry) {
	l.entries = append(l.entries[:l.cursor+1], e)
	l.cursor = len(l.entries) - 1
}

// CanUndo reports whether an older entry exists.
func (l *List) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether a newer entry exists.
func (l *List) CanRedo() bool { return l.cursor < len(l.entries)-1 }

// Undo moves the cursor back and returns the new current entry. Snapshots
// are never mutated.
func (l *List) Undo() (Entry, bool) {
	if !l.CanUndo() {
		return Entry{}, false
	}
	l.cursor--
	return l.Current(), true
}

// Redo moves the cursor forward and returns the new current entry.
func (l *List) Redo() (Entry, bool) {
	if !l.CanRedo() {
		return Entry{}, false
	}
	l.cursor++
	return l.Current(), true
}
