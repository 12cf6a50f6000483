package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stackedit.dev/stackedit/internal/wire"
)

// Fixture helpers shared by the engine tests. Stacks are described as
// wire commits with short node names; "public" stands in for the commit
// below the stack.

func textFile(data string) *wire.ExportedFile {
	return &wire.ExportedFile{Data: data}
}

func copiedFile(data, from string) *wire.ExportedFile {
	return &wire.ExportedFile{Data: data, CopyFrom: from}
}

func wireCommit(node, parent, text string, files map[string]*wire.ExportedFile) wire.ExportedCommit {
	c := wire.ExportedCommit{
		Node:      node,
		Author:    "Ada Dev <ada@example.com>",
		Date:      wire.DateTuple{UnixSec: 1700000000},
		Text:      text,
		Requested: true,
		Files:     files,
	}
	if parent != "" {
		c.Parents = []string{parent}
	}
	return c
}

// wireBase builds the immutable public bottom of a stack with the given
// pre-stack contents.
func wireBase(node string, relevant map[string]*wire.ExportedFile) wire.ExportedCommit {
	c := wireCommit(node, "public", "base", nil)
	c.Requested = false
	c.Immutable = true
	c.RelevantFiles = relevant
	return c
}

func buildStack(t *testing.T, commits ...wire.ExportedCommit) *Stack {
	t.Helper()
	s, err := NewStack(commits)
	require.NoError(t, err)
	return s
}

// fileText resolves a commit's change to a path into text, failing the
// test on absent or binary states.
func fileText(t *testing.T, s *Stack, rev Rev, path string) string {
	t.Helper()
	data, ok := s.GetUTF8Data(s.GetFile(rev, path))
	require.True(t, ok, "rev %d %s is not text", rev, path)
	return data
}
