package engine

// DepMap records, for each commit rev, the set of ancestor revs it
// depends on. A commit may never be scheduled before, or dropped without,
// a commit it depends on.
type DepMap map[Rev]map[Rev]bool

// CalculateDepMap computes the dependency map from two sources: line
// ownership inside the file revision chains, and file lifecycle changes
// (a commit flipping a path's existence or renaming it depends on the
// commit that last established the previous state).
func (s *Stack) CalculateDepMap() DepMap {
	dep := make(DepMap, len(s.commits))
	for rev := range s.commits {
		dep[rev] = make(map[Rev]bool)
	}

	for idx, fs := range s.fileStacks {
		for fRev, fDeps := range fs.DepMap() {
			key, ok := s.fileToCommit[ChainRef{Index: idx, Rev: fRev}]
			if !ok {
				continue
			}
			for _, d := range fDeps {
				depKey, mapped := s.fileToCommit[ChainRef{Index: idx, Rev: d}]
				if !mapped {
					// Seed revision from below the stack.
					continue
				}
				if depKey.Rev != key.Rev {
					dep[key.Rev][depKey.Rev] = true
				}
			}
		}
	}

	for rev := range s.commits {
		for _, path := range sortedPaths(s.commits[rev].Files) {
			f := s.commits[rev].Files[path]
			prevRev, _, prevFile := s.ancestorFile(rev, path)
			if prevRev >= 0 && f.IsAbsent() != prevFile.IsAbsent() {
				dep[rev][prevRev] = true
			}
			if f.CopyFrom != "" {
				if srcRev, _, _ := s.ancestorFile(rev, f.CopyFrom); srcRev >= 0 {
					dep[rev][srcRev] = true
				}
			}
		}
	}
	return dep
}
