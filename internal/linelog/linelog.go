// Package linelog tracks per-line history of a single file across an
// ordered list of revisions. Every line ever seen is kept in one
// interleaved list, annotated with the revision that introduced it and the
// revision that removed it. Checking out a revision filters that list;
// renumbering the annotations is enough to replay the same edits in a
// different revision order.
package linelog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// aliveForever marks a line that no revision has removed.
const aliveForever = -1

type lineRecord struct {
	text       string // includes the trailing newline, except possibly the last line of a revision
	introduced int
	obsoleted  int // aliveForever while the line is still present
}

func (r lineRecord) aliveAt(rev int) bool {
	return r.introduced <= rev && (r.obsoleted == aliveForever || r.obsoleted > rev)
}

// Log is the interleaved line history of one file.
type Log struct {
	lines  []lineRecord
	maxRev int
	deps   map[int]map[int]bool
}

// New creates a log whose revision 0 holds the given text.
func New(text string) *Log {
	l := &Log{
		deps: map[int]map[int]bool{},
	}
	for _, line := range splitLines(text) {
		l.lines = append(l.lines, lineRecord{text: line, introduced: 0, obsoleted: aliveForever})
	}
	return l
}

// MaxRev returns the highest recorded revision.
func (l *Log) MaxRev() int { return l.maxRev }

// RevCount returns the number of recorded revisions.
func (l *Log) RevCount() int { return l.maxRev + 1 }

// Checkout returns the file content at the given revision.
func (l *Log) Checkout(rev int) string {
	if rev < 0 || rev > l.maxRev {
		panic(fmt.Sprintf("linelog: checkout of unknown revision %d (max %d)", rev, l.maxRev))
	}
	var b strings.Builder
	for _, rec := range l.lines {
		if rec.aliveAt(rev) {
			b.WriteString(rec.text)
		}
	}
	return b.String()
}

// Record appends the given text as the next revision, diffing it against
// the current tip. Line ownership and the dependency set of the new
// revision are updated as a side effect.
func (l *Log) Record(text string) {
	rev := l.maxRev + 1
	old := l.Checkout(l.maxRev)

	// Global indices of the lines alive at the tip, in order.
	var alive []int
	for i, rec := range l.lines {
		if rec.aliveAt(l.maxRev) {
			alive = append(alive, i)
		}
	}

	deps := map[int]bool{}
	type insertion struct {
		pos   int // global index to insert before
		lines []string
	}
	var inserts []insertion

	ai := 0
	for _, d := range lineDiff(old, text) {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			ai += len(lines)
		case diffmatchpatch.DiffDelete:
			for range lines {
				rec := &l.lines[alive[ai]]
				deps[rec.introduced] = true
				rec.obsoleted = rev
				ai++
			}
		case diffmatchpatch.DiffInsert:
			// An insertion is anchored by its surrounding lines: moving
			// this revision before the revision owning either anchor
			// would change where the block lands.
			if ai > 0 {
				deps[l.lines[alive[ai-1]].introduced] = true
			}
			if ai < len(alive) {
				deps[l.lines[alive[ai]].introduced] = true
			}
			pos := len(l.lines)
			if ai < len(alive) {
				pos = alive[ai]
			}
			inserts = append(inserts, insertion{pos: pos, lines: lines})
		}
	}

	// Splice back to front so earlier positions stay valid.
	sort.SliceStable(inserts, func(i, j int) bool { return inserts[i].pos > inserts[j].pos })
	for _, ins := range inserts {
		recs := make([]lineRecord, len(ins.lines))
		for i, line := range ins.lines {
			recs[i] = lineRecord{text: line, introduced: rev, obsoleted: aliveForever}
		}
		l.lines = append(l.lines[:ins.pos], append(recs, l.lines[ins.pos:]...)...)
	}

	l.deps[rev] = deps
	l.maxRev = rev
}

// DepMap returns, per revision, the sorted revisions it depends on.
// Revision 0 has no dependencies.
func (l *Log) DepMap() map[int][]int {
	out := make(map[int][]int, len(l.deps))
	for rev, set := range l.deps {
		var deps []int
		for d := range set {
			if d != rev {
				deps = append(deps, d)
			}
		}
		sort.Ints(deps)
		out[rev] = deps
	}
	return out
}

// Remap returns a copy of the log with revision numbers rewritten through
// the given mapping. Revisions absent from the mapping keep their number.
// Panics if the mapping would make a line removed before it is introduced,
// which means the caller reordered dependent revisions.
func (l *Log) Remap(mapping map[int]int) *Log {
	mp := func(rev int) int {
		if v, ok := mapping[rev]; ok {
			return v
		}
		return rev
	}
	nl := &Log{
		lines: make([]lineRecord, len(l.lines)),
		deps:  make(map[int]map[int]bool, len(l.deps)),
	}
	for i, rec := range l.lines {
		nr := lineRecord{text: rec.text, introduced: mp(rec.introduced), obsoleted: rec.obsoleted}
		if rec.obsoleted != aliveForever {
			nr.obsoleted = mp(rec.obsoleted)
			if nr.obsoleted <= nr.introduced {
				panic(fmt.Sprintf("linelog: remap places removal at %d before introduction at %d", nr.obsoleted, nr.introduced))
			}
		}
		nl.lines[i] = nr
		if nr.introduced > nl.maxRev {
			nl.maxRev = nr.introduced
		}
	}
	if mr := mp(l.maxRev); mr > nl.maxRev {
		nl.maxRev = mr
	}
	for rev, set := range l.deps {
		nset := make(map[int]bool, len(set))
		for d := range set {
			nset[mp(d)] = true
		}
		nl.deps[mp(rev)] = nset
	}
	return nl
}

// splitLines splits text into lines, each keeping its trailing newline.
// A final line without a newline is kept as-is.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
	return out
}

// lineDiff computes a line-granularity diff between two texts.
func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	ca, cb, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lineArray)
}
