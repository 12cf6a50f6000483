package engine

import (
	"slices"
)

// ReorderResult is the plan for moving one commit within the stack.
type ReorderResult struct {
	// Offset is the requested offset clamped to the stack bounds.
	Offset int
	// Order is the full new order: Order[newRev] = oldRev.
	Order []Rev
	// Deps lists origRev plus every commit that must move with it, in
	// original stack order.
	Deps []Rev
}

// ReorderWithDeps plans moving origRev by desiredOffset within a stack of
// n commits. Commits between the old and new position are swept into the
// moving group when the dependency map says they cannot stay behind; the
// sweep is run to a fixed point so transitive dependencies are captured.
// Applying the returned order never places a dependency after its
// dependent.
func ReorderWithDeps(n int, origRev Rev, desiredOffset int, depMap DepMap) ReorderResult {
	offset := desiredOffset
	if origRev+offset < 0 {
		offset = -origRev
	}
	if origRev+offset > n-1 {
		offset = n - 1 - origRev
	}

	deps := map[Rev]bool{origRev: true}
	order := make([]Rev, 0, n)

	switch {
	case offset == 0:
		for i := 0; i < n; i++ {
			order = append(order, i)
		}

	case offset > 0:
		// Moving up: commits in (origRev, origRev+offset] that depend on
		// the moving group are swept along; the rest slide down past it.
		for changed := true; changed; {
			changed = false
			for i := origRev + 1; i <= origRev+offset; i++ {
				if !deps[i] && intersects(depMap[i], deps) {
					deps[i] = true
					changed = true
				}
			}
		}
		order = appendRange(order, 0, origRev)
		for i := origRev + 1; i <= origRev+offset; i++ {
			if !deps[i] {
				order = append(order, i)
			}
		}
		order = append(order, sortedRevs(deps)...)
		order = appendRange(order, origRev+offset+1, n)

	default:
		// Moving down: commits in [origRev+offset, origRev) that the
		// moving group depends on are swept along; the rest slide up.
		target := origRev + offset
		for changed := true; changed; {
			changed = false
			for i := origRev - 1; i >= target; i-- {
				if deps[i] {
					continue
				}
				for d := range deps {
					if depMap[d][i] {
						deps[i] = true
						changed = true
						break
					}
				}
			}
		}
		order = appendRange(order, 0, target)
		order = append(order, sortedRevs(deps)...)
		for i := target; i < origRev; i++ {
			if !deps[i] {
				order = append(order, i)
			}
		}
		order = appendRange(order, origRev+1, n)
	}

	return ReorderResult{Offset: offset, Order: order, Deps: sortedRevs(deps)}
}

// CanReorder reports whether the order is a valid permutation that keeps
// immutable commits in place and every dependency before its dependent.
func (s *Stack) CanReorder(order []Rev) bool {
	n := len(s.commits)
	if len(order) != n {
		return false
	}
	pos := make([]int, n) // oldRev -> newRev
	seen := make([]bool, n)
	for newRev, oldRev := range order {
		if oldRev < 0 || oldRev >= n || seen[oldRev] {
			return false
		}
		seen[oldRev] = true
		pos[oldRev] = newRev
		if s.commits[oldRev].Immutable != ImmutableNone && newRev != oldRev {
			return false
		}
		// The root must stay at the bottom; the linear chain is relinked
		// from it.
		if len(s.commits[oldRev].Parents) == 0 && newRev != 0 {
			return false
		}
	}
	// A frozen commit must also keep the same commits beneath it; a
	// commit crossing it would change the content it resolves to.
	for rev, c := range s.commits {
		if c.Immutable == ImmutableNone {
			continue
		}
		for r := 0; r < rev; r++ {
			if pos[r] > rev {
				return false
			}
		}
	}
	depMap := s.CalculateDepMap()
	for rev, ds := range depMap {
		for d := range ds {
			if pos[d] > pos[rev] {
				return false
			}
		}
	}
	return true
}

// ApplyReorder returns a new snapshot with commits rearranged into the
// given order. File contents are recomputed by renumbering the file
// revision chains, so each commit keeps its own edit expressed against
// its new parent. Callers must have verified the order with CanReorder.
func (s *Stack) ApplyReorder(order []Rev) *Stack {
	n := len(s.commits)
	pos := make([]int, n) // oldRev -> newRev
	for newRev, oldRev := range order {
		pos[oldRev] = newRev
	}

	// Renumber each chain to follow the new commit order, then read the
	// reordered contents back out.
	reordered := make(map[fileKey]string)
	for idx, fs := range s.fileStacks {
		type entry struct {
			chainRev int
			key      fileKey
		}
		var entries []entry
		for fRev := 0; fRev < fs.NumRevs(); fRev++ {
			if key, ok := s.fileToCommit[ChainRef{Index: idx, Rev: fRev}]; ok {
				entries = append(entries, entry{chainRev: fRev, key: key})
			}
		}
		slices.SortFunc(entries, func(a, b entry) int {
			return pos[a.key.Rev] - pos[b.key.Rev]
		})
		mapping := make(map[int]int, len(entries))
		// Seed revisions (unmapped, always rev 0) stay at the chain
		// bottom; commit-backed revisions follow the new commit order.
		next := fs.NumRevs() - len(entries)
		for _, e := range entries {
			mapping[e.chainRev] = next
			next++
		}
		remapped := fs.Remap(mapping)
		for _, e := range entries {
			reordered[e.key] = remapped.Get(mapping[e.chainRev])
		}
	}

	ns := &Stack{
		bottomFiles: s.bottomFiles,
		commits:     make([]CommitState, n),
	}
	for newRev, oldRev := range order {
		c := s.commits[oldRev].clone()
		for path, f := range c.Files {
			key := fileKey{Rev: oldRev, Path: path}
			if data, ok := reordered[key]; ok {
				c.Files[path] = FileState{Kind: FileInline, Data: data, CopyFrom: f.CopyFrom, Flags: f.Flags}
			} else if f.Kind == FileChain {
				c.Files[path] = FileState{
					Kind:     FileInline,
					Data:     s.fileStacks[f.Chain.Index].Get(f.Chain.Rev),
					CopyFrom: f.CopyFrom,
					Flags:    f.Flags,
				}
			}
		}
		c.Rev = newRev
		if len(c.Parents) > 0 {
			c.Parents = []Rev{newRev - 1}
		}
		ns.commits[newRev] = c
	}
	ns.buildFileStacks()
	return ns
}

func intersects(set map[Rev]bool, other map[Rev]bool) bool {
	for rev := range set {
		if other[rev] {
			return true
		}
	}
	return false
}

func sortedRevs(set map[Rev]bool) []Rev {
	out := make([]Rev, 0, len(set))
	for rev := range set {
		out = append(out, rev)
	}
	slices.Sort(out)
	return out
}

func appendRange(order []Rev, lo, hi int) []Rev {
	for i := lo; i < hi; i++ {
		order = append(order, i)
	}
	return order
}
