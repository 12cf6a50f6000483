package engine

import (
	"slices"
	"strings"
)

// meaningfulTextLen is the length past which a trimmed one-word commit
// message is still kept when folding. Tunable, not a contract.
const meaningfulTextLen = 20

// isMeaningfulText reports whether a commit message is worth preserving
// when its commit is folded into the parent. Trivial markers like "wip"
// are dropped silently.
func isMeaningfulText(text string) bool {
	t := strings.TrimSpace(text)
	return strings.ContainsAny(t, " \t\n") || len(t) > meaningfulTextLen
}

// CanFoldDown reports whether rev can be merged into its parent: rev has
// exactly one parent, neither commit is immutable in any way, and the
// parent has no other children.
func (s *Stack) CanFoldDown(rev Rev) bool {
	if rev <= 0 || rev >= len(s.commits) {
		return false
	}
	c := s.commits[rev]
	if len(c.Parents) != 1 {
		return false
	}
	parentRev := c.Parents[0]
	if c.Immutable != ImmutableNone || s.commits[parentRev].Immutable != ImmutableNone {
		return false
	}
	for _, other := range s.commits {
		if other.Rev != rev && slices.Contains(other.Parents, parentRev) {
			return false
		}
	}
	return true
}

// FoldDown merges rev into its parent and returns the new snapshot.
// Callers must have verified the fold with CanFoldDown.
func (s *Stack) FoldDown(rev Rev) *Stack {
	ns := s.clone()
	child := ns.commits[rev]
	parentRev := child.Parents[0]
	parent := &ns.commits[parentRev]

	for _, path := range sortedPaths(child.Files) {
		file := child.Files[path]
		newFile := file

		// Compose copy information through the parent: if the parent's
		// version of the source was itself copied, the fold points at the
		// deeper source.
		if file.CopyFrom != "" {
			if pf, ok := parent.Files[file.CopyFrom]; ok && pf.CopyFrom != "" {
				newFile.CopyFrom = pf.CopyFrom
			}
			if _, _, src := ns.ancestorFile(parentRev, newFile.CopyFrom); src.IsAbsent() {
				// The composed source does not exist below the parent.
				newFile.CopyFrom = ""
			}
		}

		// A parent+child pair whose net effect restores the pre-parent
		// content is removed entirely instead of kept as a no-op edit.
		// Rename following is off here to avoid false cancellation.
		_, _, prev := ns.ancestorFile(parentRev, path)
		if newFile.CopyFrom == "" && ns.contentSame(prev, newFile) {
			delete(parent.Files, path)
			continue
		}
		parent.Files[path] = newFile
	}

	if isMeaningfulText(child.Text) {
		parent.Text = strings.TrimRight(parent.Text, "\n") + "\n\n" + child.Text
	}
	parent.Date = child.Date
	parent.OriginalNodes = mergeNodes(parent.OriginalNodes, child.OriginalNodes)

	ns.dropRev(rev)
	ns.buildFileStacks()
	return ns
}
