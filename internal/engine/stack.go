package engine

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf8"

	"stackedit.dev/stackedit/internal/errors"
	"stackedit.dev/stackedit/internal/wire"
)

// fileKey addresses one commit's change to one path.
type fileKey struct {
	Rev  Rev
	Path string
}

// Stack is an immutable snapshot of the commit stack being edited. Every
// mutating operation returns a new snapshot; callers decide whether to
// adopt or discard it.
type Stack struct {
	// bottomFiles holds content below the stack root. Every path touched
	// anywhere in the stack has an entry, absent ones included. Shared
	// between snapshots and never mutated.
	bottomFiles  map[string]FileState
	commits      []CommitState
	fileStacks   []*FileStack
	commitToFile map[fileKey]ChainRef
	fileToCommit map[ChainRef]fileKey
}

// NewStack validates and ingests an exported stack. The exported commits
// must be ordered bottom first, with parents before children.
func NewStack(exported wire.ExportedStack) (*Stack, error) {
	nodeToRev := make(map[string]Rev, len(exported))
	for i, ec := range exported {
		if ec.Node == "" {
			return nil, errors.NewInvalidStackError(fmt.Sprintf("commit %d has no identifier", i))
		}
		if _, dup := nodeToRev[ec.Node]; dup {
			return nil, errors.NewInvalidStackError(fmt.Sprintf("duplicate commit identifier %s", ec.Node))
		}
		nodeToRev[ec.Node] = i
	}

	commits := make([]CommitState, len(exported))
	rootRev := -1
	for i, ec := range exported {
		if len(ec.Parents) > 1 {
			return nil, errors.NewInvalidStackError(fmt.Sprintf("commit %s is a merge", ec.Node))
		}
		var parents []Rev
		for _, p := range ec.Parents {
			pr, ok := nodeToRev[p]
			if !ok {
				// A parent outside the stack makes this commit a root.
				continue
			}
			if pr >= i {
				return nil, errors.NewInvalidStackError(fmt.Sprintf("commit %s appears before its parent", ec.Node))
			}
			parents = append(parents, pr)
		}
		if len(parents) == 0 {
			if rootRev >= 0 {
				return nil, errors.NewInvalidStackError("multiple root commits")
			}
			rootRev = i
		}

		files := make(map[string]FileState, len(ec.Files))
		for path, ef := range ec.Files {
			files[path] = fileStateFromWire(ef)
		}
		commits[i] = CommitState{
			Rev:           i,
			OriginalNodes: []string{ec.Node},
			Author:        ec.Author,
			Date:          DateTime{UnixSec: ec.Date.UnixSec, TZOffsetSec: ec.Date.TZOffsetSec},
			Text:          ec.Text,
			Immutable:     immutableKindFromWire(ec),
			Parents:       parents,
			Files:         files,
		}
	}
	if len(commits) > 0 && rootRev < 0 {
		return nil, errors.NewInvalidStackError("no root commit")
	}

	// Bottom files: the first relevant (pre-stack) content seen wins;
	// paths first introduced inside the stack are absent at the bottom.
	bottom := make(map[string]FileState)
	for _, ec := range exported {
		for path, ef := range ec.RelevantFiles {
			if _, ok := bottom[path]; !ok {
				bottom[path] = fileStateFromWire(ef)
			}
		}
	}
	for _, c := range commits {
		for path, f := range c.Files {
			if _, ok := bottom[path]; !ok {
				bottom[path] = AbsentFile()
			}
			if f.CopyFrom != "" {
				if _, ok := bottom[f.CopyFrom]; !ok {
					bottom[f.CopyFrom] = AbsentFile()
				}
			}
		}
	}

	s := &Stack{bottomFiles: bottom, commits: commits}
	s.buildFileStacks()
	return s, nil
}

func fileStateFromWire(ef *wire.ExportedFile) FileState {
	if ef == nil {
		return AbsentFile()
	}
	f := FileState{CopyFrom: ef.CopyFrom, Flags: ef.Flags}
	switch {
	case ef.DataBase85 != "":
		blob, err := wire.DecodeBase85(ef.DataBase85)
		if err != nil {
			// Undecodable payloads stay opaque; they are never edited.
			f.Kind = FileBlob
			f.Blob = []byte(ef.DataBase85)
			return f
		}
		f.Kind = FileBlob
		f.Blob = blob
	case utf8.ValidString(ef.Data):
		f.Kind = FileInline
		f.Data = ef.Data
	default:
		f.Kind = FileBlob
		f.Blob = []byte(ef.Data)
	}
	return f
}

func immutableKindFromWire(ec wire.ExportedCommit) ImmutableKind {
	switch {
	case ec.Immutable:
		return ImmutableHash
	case !ec.Requested:
		return ImmutableContent
	default:
		return ImmutableNone
	}
}

// Size returns the number of commits in the stack.
func (s *Stack) Size() int { return len(s.commits) }

// Commit returns a copy of the commit record at rev.
func (s *Stack) Commit(rev Rev) CommitState {
	return s.commits[rev].clone()
}

// BottomFile returns the pre-stack state of a path. Panics on untracked
// paths: the caller referenced a path never declared to the stack.
func (s *Stack) BottomFile(path string) FileState {
	f, ok := s.bottomFiles[path]
	if !ok {
		panic(fmt.Sprintf("engine: path %q is not tracked by this stack", path))
	}
	return f
}

// GetFile returns the state of path as seen at rev: the nearest change by
// rev or an ancestor, falling back to the bottom files. Panics on
// untracked paths.
func (s *Stack) GetFile(rev Rev, path string) FileState {
	for cur := rev; cur >= 0; {
		if f, ok := s.commits[cur].Files[path]; ok {
			return f
		}
		if len(s.commits[cur].Parents) == 0 {
			break
		}
		cur = s.commits[cur].Parents[0]
	}
	return s.BottomFile(path)
}

// parentFile finds the previous state of path below rev: the nearest
// strict ancestor changing it, or the bottom files. When followRenames is
// set and rev's change has a CopyFrom, the walk follows the source path.
// Returns the rev that provided the state (-1 for the bottom), the path
// looked up, and the state.
func (s *Stack) parentFile(rev Rev, path string, followRenames bool) (Rev, string, FileState) {
	prevPath := path
	if followRenames {
		if f, ok := s.commits[rev].Files[path]; ok && f.CopyFrom != "" {
			prevPath = f.CopyFrom
		}
	}
	return s.ancestorFile(rev, prevPath)
}

// ancestorFile finds the nearest strict ancestor of rev changing path,
// falling back to the bottom files.
func (s *Stack) ancestorFile(rev Rev, path string) (Rev, string, FileState) {
	cur := -1
	if len(s.commits[rev].Parents) > 0 {
		cur = s.commits[rev].Parents[0]
	}
	for cur >= 0 {
		if f, ok := s.commits[cur].Files[path]; ok {
			return cur, path, f
		}
		if len(s.commits[cur].Parents) == 0 {
			break
		}
		cur = s.commits[cur].Parents[0]
	}
	return -1, path, s.BottomFile(path)
}

// GetUTF8Data resolves a file state to text. Returns false for absent or
// binary states.
func (s *Stack) GetUTF8Data(f FileState) (string, bool) {
	switch f.Kind {
	case FileInline:
		return f.Data, true
	case FileChain:
		return s.fileStacks[f.Chain.Index].Get(f.Chain.Rev), true
	default:
		return "", false
	}
}

// contentSame reports whether two file states hold the same content and
// flags. CopyFrom is deliberately ignored.
func (s *Stack) contentSame(a, b FileState) bool {
	if a.IsAbsent() || b.IsAbsent() {
		return a.IsAbsent() == b.IsAbsent()
	}
	if a.Flags != b.Flags {
		return false
	}
	da, aText := s.GetUTF8Data(a)
	db, bText := s.GetUTF8Data(b)
	if aText != bText {
		return false
	}
	if aText {
		return da == db
	}
	return bytes.Equal(a.Blob, b.Blob)
}

// clone returns a deep copy of the stack with all chain-backed file
// states materialized to inline text. Chains and their mappings are left
// for the caller to rebuild.
func (s *Stack) clone() *Stack {
	ns := &Stack{
		bottomFiles: s.bottomFiles,
		commits:     make([]CommitState, len(s.commits)),
	}
	for i, c := range s.commits {
		nc := c.clone()
		for path, f := range nc.Files {
			if f.Kind == FileChain {
				nc.Files[path] = FileState{
					Kind:     FileInline,
					Data:     s.fileStacks[f.Chain.Index].Get(f.Chain.Rev),
					CopyFrom: f.CopyFrom,
					Flags:    f.Flags,
				}
			}
		}
		ns.commits[i] = nc
	}
	return ns
}

// RewriteStackDroppingRev removes one commit and renumbers everything.
// This is the single structural primitive behind fold and drop; it keeps
// the dropped commit's children attached to its parent and rebuilds the
// file revision chains.
func (s *Stack) RewriteStackDroppingRev(rev Rev) *Stack {
	ns := s.clone()
	ns.dropRev(rev)
	ns.buildFileStacks()
	return ns
}

// dropRev removes a commit in place and renumbers revs and parent
// references. Chains must be rebuilt afterwards.
func (s *Stack) dropRev(rev Rev) {
	dropped := s.commits[rev]
	out := make([]CommitState, 0, len(s.commits)-1)
	for _, c := range s.commits {
		if c.Rev == rev {
			continue
		}
		var parents []Rev
		for _, p := range c.Parents {
			switch {
			case p == rev:
				// Reattach to the dropped commit's parent, if it has one.
				for _, gp := range dropped.Parents {
					parents = append(parents, gp)
				}
			case p > rev:
				parents = append(parents, p-1)
			default:
				parents = append(parents, p)
			}
		}
		c.Parents = parents
		c.Rev = len(out)
		out = append(out, c)
	}
	s.commits = out
}

// CanEditFile reports whether the text of path at rev may be replaced.
func (s *Stack) CanEditFile(rev Rev, path string) bool {
	if rev < 0 || rev >= len(s.commits) {
		return false
	}
	if s.commits[rev].Immutable != ImmutableNone {
		return false
	}
	f, ok := s.commits[rev].Files[path]
	if !ok {
		return false
	}
	_, isText := s.GetUTF8Data(f)
	return isText
}

// EditFileText replaces the text of path at rev, returning a new
// snapshot. Later commits keep their own contents.
func (s *Stack) EditFileText(rev Rev, path, text string) *Stack {
	ns := s.clone()
	f := ns.commits[rev].Files[path]
	f.Kind = FileInline
	f.Data = text
	f.Blob = nil
	f.Chain = ChainRef{}
	ns.commits[rev].Files[path] = f
	ns.buildFileStacks()
	return ns
}

func sortedPaths(files map[string]FileState) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}
