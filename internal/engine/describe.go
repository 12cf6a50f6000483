package engine

import (
	"fmt"
	"strings"
)

// DescribeFileStacks dumps every file revision chain in a deterministic
// "rev:commitTitleOrDot/path(content)" format, one string per chain. Used
// by tests to assert chain construction without rendering anything.
func (s *Stack) DescribeFileStacks(showContent bool) []string {
	out := make([]string, len(s.fileStacks))
	for idx, fs := range s.fileStacks {
		parts := make([]string, fs.NumRevs())
		for fRev := 0; fRev < fs.NumRevs(); fRev++ {
			title := "."
			path := s.chainPath(idx, fRev)
			if key, ok := s.fileToCommit[ChainRef{Index: idx, Rev: fRev}]; ok {
				title = s.commits[key.Rev].Title()
			}
			part := fmt.Sprintf("%d:%s/%s", fRev, title, path)
			if showContent {
				part += "(" + fs.Get(fRev) + ")"
			}
			parts[fRev] = part
		}
		out[idx] = strings.Join(parts, " ")
	}
	return out
}

// chainPath returns the path recorded for a chain revision, falling back
// to the first mapped revision for seed content.
func (s *Stack) chainPath(idx, fRev int) string {
	for r := fRev; r < s.fileStacks[idx].NumRevs(); r++ {
		if key, ok := s.fileToCommit[ChainRef{Index: idx, Rev: r}]; ok {
			return key.Path
		}
	}
	return ""
}
