package engine

// CanDrop reports whether rev's changes can be discarded: the commit is
// fully editable and no other commit depends on it.
func (s *Stack) CanDrop(rev Rev) bool {
	if rev < 0 || rev >= len(s.commits) {
		return false
	}
	if s.commits[rev].Immutable != ImmutableNone {
		return false
	}
	// The root anchors the stack; relinking after its removal would
	// leave the new bottom without a parent to graft onto.
	if len(s.commits[rev].Parents) == 0 {
		return false
	}
	// Dropping recomputes the contents of every commit above rev, which
	// frozen commits do not allow.
	for other := rev + 1; other < len(s.commits); other++ {
		if s.commits[other].Immutable != ImmutableNone {
			return false
		}
	}
	depMap := s.CalculateDepMap()
	for other, ds := range depMap {
		if other != rev && ds[rev] {
			return false
		}
	}
	return true
}

// Drop discards rev and its changes, returning the new snapshot. The
// commit is first reordered to the top, so content above it no longer
// embeds its edits, then removed with the structural primitive. Callers
// must have verified the drop with CanDrop.
func (s *Stack) Drop(rev Rev) *Stack {
	n := len(s.commits)
	order := make([]Rev, 0, n)
	for i := 0; i < n; i++ {
		if i != rev {
			order = append(order, i)
		}
	}
	order = append(order, rev)
	ns := s.ApplyReorder(order)
	return ns.RewriteStackDroppingRev(n - 1)
}
