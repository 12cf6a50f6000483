package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackedit.dev/stackedit/internal/wire"
)

func TestFileStackBasics(t *testing.T) {
	fs := NewFileStack([]string{"one\n", "one\ntwo\n"})
	assert.Equal(t, 2, fs.NumRevs())
	assert.Equal(t, "one\n", fs.Get(0))
	assert.Equal(t, "one\ntwo\n", fs.Get(1))

	rev := fs.Push("one\ntwo\nthree\n")
	assert.Equal(t, 2, rev)
	assert.Equal(t, []string{"one\n", "one\ntwo\n", "one\ntwo\nthree\n"}, fs.Texts())
}

func TestChainGrowsAcrossCommits(t *testing.T) {
	s := buildStack(t,
		wireBase("base", map[string]*wire.ExportedFile{"a.txt": textFile("one\n")}),
		wireCommit("c1", "base", "grow", map[string]*wire.ExportedFile{
			"a.txt": textFile("one\ntwo\n"),
		}),
		wireCommit("c2", "c1", "more", map[string]*wire.ExportedFile{
			"a.txt": textFile("one\ntwo\nthree\n"),
		}),
	)

	assert.Equal(t, []string{
		"0:./a.txt(one\n) 1:grow/a.txt(one\ntwo\n) 2:more/a.txt(one\ntwo\nthree\n)",
	}, s.DescribeFileStacks(true))
}

func TestSeparateFilesSeparateChains(t *testing.T) {
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add a", map[string]*wire.ExportedFile{
			"a.txt": textFile("alpha\n"),
		}),
		wireCommit("c2", "c1", "add b", map[string]*wire.ExportedFile{
			"b.txt": textFile("beta\n"),
		}),
	)

	assert.Equal(t, []string{
		"0:add a/a.txt",
		"0:add b/b.txt",
	}, s.DescribeFileStacks(false))
}

func TestRenameContinuesChain(t *testing.T) {
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add f", map[string]*wire.ExportedFile{
			"f.txt": textFile("hello\n"),
		}),
		wireCommit("c2", "c1", "rename f to g", map[string]*wire.ExportedFile{
			"f.txt": nil,
			"g.txt": copiedFile("hello world\n", "f.txt"),
		}),
	)

	assert.Equal(t, []string{
		"0:add f/f.txt 1:rename f to g/g.txt",
	}, s.DescribeFileStacks(false))
}

func TestCopyContinuesSourceChain(t *testing.T) {
	// A copy's destination diffs against the source content, so it
	// extends the source chain while the source is still its tip.
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add f", map[string]*wire.ExportedFile{
			"f.txt": textFile("hello\n"),
		}),
		wireCommit("c2", "c1", "copy f to g", map[string]*wire.ExportedFile{
			"g.txt": copiedFile("hello\n", "f.txt"),
		}),
	)

	assert.Equal(t, []string{
		"0:add f/f.txt 1:copy f to g/g.txt",
	}, s.DescribeFileStacks(false))
}

func TestEditAfterCopyStartsNewChain(t *testing.T) {
	// Once the copy took the chain tip, a later edit of the source can no
	// longer append and gets its own chain seeded from the parent text.
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add f", map[string]*wire.ExportedFile{
			"f.txt": textFile("hello\n"),
		}),
		wireCommit("c2", "c1", "copy f to g", map[string]*wire.ExportedFile{
			"g.txt": copiedFile("hello\n", "f.txt"),
		}),
		wireCommit("c3", "c2", "edit f", map[string]*wire.ExportedFile{
			"f.txt": textFile("hello there\n"),
		}),
	)

	desc := s.DescribeFileStacks(false)
	require.Len(t, desc, 2)
	assert.Equal(t, "0:add f/f.txt 1:copy f to g/g.txt", desc[0])
	assert.Equal(t, "0:./f.txt 1:edit f/f.txt", desc[1])
}

func TestBinaryFilesNeverJoinChains(t *testing.T) {
	s := buildStack(t,
		wireBase("base", nil),
		wireCommit("c1", "base", "add blob", map[string]*wire.ExportedFile{
			"img.bin": {DataBase85: wire.EncodeBase85([]byte{0xff, 0x00, 0xfe, 0x01})},
			"a.txt":   textFile("alpha\n"),
		}),
	)

	assert.Equal(t, []string{"0:add blob/a.txt"}, s.DescribeFileStacks(false))

	f := s.GetFile(1, "img.bin")
	assert.Equal(t, FileBlob, f.Kind)
	assert.Equal(t, []byte{0xff, 0x00, 0xfe, 0x01}, f.Blob)
	_, ok := s.GetUTF8Data(f)
	assert.False(t, ok)
}

func TestChainRebuildIsDeterministic(t *testing.T) {
	build := func() []string {
		s := buildStack(t,
			wireBase("base", map[string]*wire.ExportedFile{"a.txt": textFile("one\n")}),
			wireCommit("c1", "base", "edit both", map[string]*wire.ExportedFile{
				"a.txt": textFile("one\ntwo\n"),
				"b.txt": textFile("beta\n"),
			}),
			wireCommit("c2", "c1", "edit a", map[string]*wire.ExportedFile{
				"a.txt": textFile("one\ntwo\nthree\n"),
			}),
		)
		return s.DescribeFileStacks(true)
	}

	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}
