package engine

import (
	"stackedit.dev/stackedit/internal/linelog"
)

// FileStack is the ordered list of full-text revisions of a single file
// across the stack, backed by a line ownership log. Revision 0 may be
// seed content from below the stack; later revisions map to commits.
type FileStack struct {
	log *linelog.Log
}

// NewFileStack builds a chain from ordered full texts. At least one text
// is required.
func NewFileStack(texts []string) *FileStack {
	l := linelog.New(texts[0])
	for _, t := range texts[1:] {
		l.Record(t)
	}
	return &FileStack{log: l}
}

// NumRevs returns the number of revisions in the chain.
func (f *FileStack) NumRevs() int { return f.log.RevCount() }

// Get returns the full text at a chain revision.
func (f *FileStack) Get(rev int) string { return f.log.Checkout(rev) }

// Push appends a new revision and returns its chain rev.
func (f *FileStack) Push(text string) int {
	f.log.Record(text)
	return f.log.MaxRev()
}

// Texts returns every revision's full text, in order.
func (f *FileStack) Texts() []string {
	out := make([]string, f.NumRevs())
	for i := range out {
		out[i] = f.log.Checkout(i)
	}
	return out
}

// DepMap returns, per chain revision, the earlier chain revisions whose
// lines it deletes or inserts next to.
func (f *FileStack) DepMap() map[int][]int {
	return f.log.DepMap()
}

// Remap returns a copy of the chain with revisions renumbered through the
// mapping; contents at each new revision reflect the new order.
func (f *FileStack) Remap(mapping map[int]int) *FileStack {
	return &FileStack{log: f.log.Remap(mapping)}
}

// buildFileStacks (re)computes every file revision chain and the
// commit<->chain mappings. Any previously chain-backed file state is
// materialized first, so the rebuild is atomic: no stale chain reference
// survives.
func (s *Stack) buildFileStacks() {
	// Materialize chain-backed contents against the old chains.
	for i := range s.commits {
		for path, f := range s.commits[i].Files {
			if f.Kind == FileChain {
				f.Data = s.fileStacks[f.Chain.Index].Get(f.Chain.Rev)
				f.Kind = FileInline
				f.Chain = ChainRef{}
				s.commits[i].Files[path] = f
			}
		}
	}

	s.fileStacks = nil
	s.commitToFile = make(map[fileKey]ChainRef)
	s.fileToCommit = make(map[ChainRef]fileKey)

	link := func(rev Rev, path string, ref ChainRef) {
		key := fileKey{Rev: rev, Path: path}
		s.commitToFile[key] = ref
		s.fileToCommit[ref] = key
	}

	process := func(rev Rev, path string, file FileState) {
		data, ok := s.GetUTF8Data(file)
		if !ok {
			// Binary and absent files are not eligible for line-level
			// editing and never join a chain.
			return
		}
		prevRev, prevPath, prevFile := s.parentFile(rev, path, true)
		if prevRev >= 0 {
			if ref, found := s.commitToFile[fileKey{Rev: prevRev, Path: prevPath}]; found &&
				ref.Rev == s.fileStacks[ref.Index].NumRevs()-1 {
				// The parent revision is the tip of an existing chain:
				// append, keeping chain growth O(1) amortized.
				fRev := s.fileStacks[ref.Index].Push(data)
				link(rev, path, ChainRef{Index: ref.Index, Rev: fRev})
				return
			}
		}
		// Start a new chain. Seed it with the parent content when that is
		// UTF-8, so diffs against unseen history remain viewable.
		texts := []string{data}
		if prevData, textual := s.GetUTF8Data(prevFile); textual {
			texts = []string{prevData, data}
		}
		fs := NewFileStack(texts)
		idx := len(s.fileStacks)
		s.fileStacks = append(s.fileStacks, fs)
		link(rev, path, ChainRef{Index: idx, Rev: fs.NumRevs() - 1})
	}

	for rev := range s.commits {
		files := s.commits[rev].Files
		// Renames first, so a source deleted by the rename does not
		// spuriously start a new chain for the target.
		var renames, others []string
		for _, path := range sortedPaths(files) {
			f := files[path]
			src, touchesSrc := files[f.CopyFrom]
			if f.CopyFrom != "" && touchesSrc && src.IsAbsent() {
				renames = append(renames, path)
			} else {
				others = append(others, path)
			}
		}
		for _, path := range renames {
			process(rev, path, files[path])
		}
		for _, path := range others {
			process(rev, path, files[path])
		}
	}

	// Swap chain-joined file states over to chain references, resolved
	// through GetUTF8Data from now on.
	for key, ref := range s.commitToFile {
		f := s.commits[key.Rev].Files[key.Path]
		f.Kind = FileChain
		f.Chain = ref
		f.Data = ""
		s.commits[key.Rev].Files[key.Path] = f
	}
}
