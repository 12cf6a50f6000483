package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stackedit.dev/stackedit/internal/wire"
)

func TestDepMapLineOwnership(t *testing.T) {
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add a", map[string]*wire.ExportedFile{
			"a.txt": textFile("one\n"),
		}),
		wireCommit("c2", "c1", "grow a", map[string]*wire.ExportedFile{
			"a.txt": textFile("one\ntwo\n"),
		}),
		wireCommit("c3", "c2", "add b", map[string]*wire.ExportedFile{
			"b.txt": textFile("beta\n"),
		}),
	)

	deps := s.CalculateDepMap()
	// Appending next to c1's line makes c2 depend on c1.
	assert.True(t, deps[2][1])
	// Touching an unrelated file creates no dependency.
	assert.Empty(t, deps[3])
	assert.Empty(t, deps[1])
}

func TestDepMapDeletionDependsOnIntroducer(t *testing.T) {
	s := buildStack(t,
		wireBase("base", map[string]*wire.ExportedFile{"a.txt": textFile("one\ntwo\n")}),
		wireCommit("c1", "base", "grow", map[string]*wire.ExportedFile{
			"a.txt": textFile("one\ntwo\nthree\n"),
		}),
		wireCommit("c2", "c1", "remove added line", map[string]*wire.ExportedFile{
			"a.txt": textFile("one\ntwo\n"),
		}),
	)

	deps := s.CalculateDepMap()
	assert.True(t, deps[2][1], "deleting c1's line depends on c1")
}

func TestDepMapIndependentRegions(t *testing.T) {
	s := buildStack(t,
		wireBase("base", map[string]*wire.ExportedFile{
			"a.txt": textFile("alpha\nbeta\ngamma\ndelta\nepsilon\n"),
		}),
		wireCommit("c1", "base", "edit top", map[string]*wire.ExportedFile{
			"a.txt": textFile("ALPHA\nbeta\ngamma\ndelta\nepsilon\n"),
		}),
		wireCommit("c2", "c1", "edit bottom", map[string]*wire.ExportedFile{
			"a.txt": textFile("ALPHA\nbeta\ngamma\ndelta\nEPSILON\n"),
		}),
	)

	deps := s.CalculateDepMap()
	assert.False(t, deps[2][1], "edits in distinct regions are independent")
}

func TestDepMapFileLifecycle(t *testing.T) {
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add f", map[string]*wire.ExportedFile{
			"f.txt": textFile("hello\n"),
		}),
		wireCommit("c2", "c1", "unrelated", map[string]*wire.ExportedFile{
			"x.txt": textFile("x\n"),
		}),
		wireCommit("c3", "c2", "delete f", map[string]*wire.ExportedFile{
			"f.txt": nil,
		}),
	)

	deps := s.CalculateDepMap()
	assert.True(t, deps[3][1], "deleting a file depends on the commit adding it")
	assert.False(t, deps[3][2])
}

func TestDepMapCopySource(t *testing.T) {
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add f", map[string]*wire.ExportedFile{
			"f.txt": textFile("hello\n"),
		}),
		wireCommit("c2", "c1", "copy f to g", map[string]*wire.ExportedFile{
			"g.txt": copiedFile("hello\n", "f.txt"),
		}),
	)

	deps := s.CalculateDepMap()
	assert.True(t, deps[2][1], "a copy depends on the commit providing its source")
}
