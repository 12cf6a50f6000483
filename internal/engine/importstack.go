package engine

import (
	"fmt"
	"unicode/utf8"

	"stackedit.dev/stackedit/internal/wire"
)

// CalculateImportStack serializes the current snapshot into import
// instructions for the SCM process. Hash-immutable commits are not
// re-created; their original identifiers anchor the rewritten commits
// above them. When gotoTop is set, the instruction list ends with a goto
// to the stack head.
func (s *Stack) CalculateImportStack(gotoTop bool) wire.ImportStack {
	var actions wire.ImportStack
	marks := make(map[Rev]string, len(s.commits))
	lastRef := ""

	for rev, c := range s.commits {
		if c.Immutable == ImmutableHash {
			lastRef = c.OriginalNodes[0]
			continue
		}
		mark := fmt.Sprintf(":r%d", rev)
		parents := make([]string, 0, len(c.Parents))
		for _, p := range c.Parents {
			if m, ok := marks[p]; ok {
				parents = append(parents, m)
			} else {
				parents = append(parents, s.commits[p].OriginalNodes[0])
			}
		}
		files := make(map[string]*wire.ExportedFile, len(c.Files))
		for _, path := range sortedPaths(c.Files) {
			files[path] = s.fileToWire(c.Files[path])
		}
		actions = append(actions, wire.ImportAction{Commit: &wire.ImportCommit{
			Mark:         mark,
			Author:       c.Author,
			Date:         wire.DateTuple{UnixSec: c.Date.UnixSec, TZOffsetSec: c.Date.TZOffsetSec},
			Text:         c.Text,
			Parents:      parents,
			Predecessors: c.OriginalNodes,
			Files:        files,
		}})
		marks[rev] = mark
		lastRef = mark
	}

	if gotoTop && lastRef != "" {
		actions = append(actions, wire.ImportAction{Goto: &wire.ImportGoto{Mark: lastRef}})
	}
	return actions
}

// fileToWire converts a file state to its wire form; absent states become
// nil (deletion).
func (s *Stack) fileToWire(f FileState) *wire.ExportedFile {
	if f.IsAbsent() {
		return nil
	}
	ef := &wire.ExportedFile{CopyFrom: f.CopyFrom, Flags: f.Flags}
	if data, ok := s.GetUTF8Data(f); ok {
		ef.Data = data
		return ef
	}
	if utf8.Valid(f.Blob) {
		ef.Data = string(f.Blob)
		return ef
	}
	ef.DataBase85 = wire.EncodeBase85(f.Blob)
	return ef
}
