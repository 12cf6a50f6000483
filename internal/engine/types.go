package engine

import (
	"slices"
	"strings"
)

// Rev identifies a commit by its position in the stack. Rev 0 is the
// bottom of the stack. Revs are always current array indices; structural
// rewrites renumber them.
type Rev = int

// ImmutableKind describes how much of a commit may be rewritten.
type ImmutableKind int

const (
	// ImmutableNone marks a fully editable commit
	ImmutableNone ImmutableKind = iota
	// ImmutableDiff marks a commit whose file-level diff is fixed but
	// whose content and identity may change
	ImmutableDiff
	// ImmutableContent marks a commit whose file contents are fixed but
	// whose identity may change
	ImmutableContent
	// ImmutableHash marks a commit where nothing, including ancestors,
	// may change
	ImmutableHash
)

// FileKind discriminates the content variants of a FileState.
type FileKind int

const (
	// FileAbsent marks a path that does not exist at this position
	FileAbsent FileKind = iota
	// FileInline holds UTF-8 text directly
	FileInline
	// FileBlob holds non-UTF-8 bytes
	FileBlob
	// FileChain points into a file revision chain
	FileChain
)

// ChainRef addresses one revision of one file revision chain.
type ChainRef struct {
	Index int
	Rev   int
}

// FileState is a file's content and metadata as changed by one commit,
// or as recorded below the stack bottom.
type FileState struct {
	Kind  FileKind
	Data  string   // FileInline
	Blob  []byte   // FileBlob
	Chain ChainRef // FileChain
	// CopyFrom is the rename or copy source path, if any.
	CopyFrom string
	// Flags is "x" (executable), "l" (symlink) or "m" (submodule).
	Flags string
}

// AbsentFile returns the state of a path that does not exist.
func AbsentFile() FileState {
	return FileState{Kind: FileAbsent}
}

// InlineFile returns a plain text file state.
func InlineFile(data string) FileState {
	return FileState{Kind: FileInline, Data: data}
}

// IsAbsent reports whether the path does not exist in this state.
func (f FileState) IsAbsent() bool {
	return f.Kind == FileAbsent
}

// DateTime is a commit date: epoch seconds plus a UTC offset.
type DateTime struct {
	UnixSec     int64
	TZOffsetSec int
}

// CommitState is one mutable commit record of the stack.
type CommitState struct {
	Rev Rev
	// OriginalNodes is the set of original commit identifiers this record
	// folds or represents, kept sorted for determinism.
	OriginalNodes []string
	Author        string
	Date          DateTime
	Text          string
	Immutable     ImmutableKind
	// Parents holds at most one rev; merge commits are rejected at
	// construction.
	Parents []Rev
	// Files maps changed paths to their state. Absence of an entry means
	// the path is unchanged from the parent.
	Files map[string]FileState
}

// Title returns the first line of the commit message.
func (c CommitState) Title() string {
	if i := strings.IndexByte(c.Text, '\n'); i >= 0 {
		return c.Text[:i]
	}
	return c.Text
}

func (c CommitState) clone() CommitState {
	nc := c
	nc.OriginalNodes = slices.Clone(c.OriginalNodes)
	nc.Parents = slices.Clone(c.Parents)
	nc.Files = make(map[string]FileState, len(c.Files))
	for path, f := range c.Files {
		nc.Files[path] = f
	}
	return nc
}

func mergeNodes(a, b []string) []string {
	out := slices.Clone(a)
	for _, n := range b {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
