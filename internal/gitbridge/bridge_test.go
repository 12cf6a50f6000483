package gitbridge

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackedit.dev/stackedit/internal/engine"
)

type testRepo struct {
	t    *testing.T
	repo *gogit.Repository
	wt   *gogit.Worktree
	tick int64
}

func newTestRepo(t *testing.T) *testRepo {
	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &testRepo{t: t, repo: repo, wt: wt, tick: 1700000000}
}

func (r *testRepo) write(path, content string) {
	require.NoError(r.t, util.WriteFile(r.wt.Filesystem, path, []byte(content), 0644))
	_, err := r.wt.Add(path)
	require.NoError(r.t, err)
}

func (r *testRepo) remove(path string) {
	_, err := r.wt.Remove(path)
	require.NoError(r.t, err)
}

func (r *testRepo) commit(message string) plumbing.Hash {
	r.tick += 60
	h, err := r.wt.Commit(message, &gogit.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "Ada Dev",
			Email: "ada@example.com",
			When:  time.Unix(r.tick, 0).UTC(),
		},
	})
	require.NoError(r.t, err)
	return h
}

func TestExportRange(t *testing.T) {
	r := newTestRepo(t)
	r.write("a.txt", "one\n")
	base := r.commit("base")
	r.write("a.txt", "one\ntwo\n")
	r.write("b.txt", "beta\n")
	c1 := r.commit("grow a, add b")
	r.remove("b.txt")
	c2 := r.commit("drop b")

	stack, err := Export(r.repo, base, c2)
	require.NoError(t, err)
	require.Len(t, stack, 3)

	bottom := stack[0]
	assert.Equal(t, base.String(), bottom.Node)
	assert.True(t, bottom.Immutable)
	assert.False(t, bottom.Requested)
	require.Contains(t, bottom.RelevantFiles, "a.txt")
	assert.Equal(t, "one\n", bottom.RelevantFiles["a.txt"].Data)
	require.Contains(t, bottom.RelevantFiles, "b.txt")
	assert.Nil(t, bottom.RelevantFiles["b.txt"])

	first := stack[1]
	assert.Equal(t, c1.String(), first.Node)
	assert.True(t, first.Requested)
	assert.Equal(t, "grow a, add b", first.Text)
	assert.Equal(t, "Ada Dev <ada@example.com>", first.Author)
	assert.Equal(t, "one\ntwo\n", first.Files["a.txt"].Data)
	assert.Equal(t, "beta\n", first.Files["b.txt"].Data)

	second := stack[2]
	require.Contains(t, second.Files, "b.txt")
	assert.Nil(t, second.Files["b.txt"])
}

func TestExportDetectsRenames(t *testing.T) {
	r := newTestRepo(t)
	r.write("old.txt", "same content across the rename\n")
	base := r.commit("base")
	r.remove("old.txt")
	r.write("new.txt", "same content across the rename\n")
	head := r.commit("rename old to new")

	stack, err := Export(r.repo, base, head)
	require.NoError(t, err)
	require.Len(t, stack, 2)

	files := stack[1].Files
	require.Contains(t, files, "old.txt")
	assert.Nil(t, files["old.txt"])
	require.Contains(t, files, "new.txt")
	assert.Equal(t, "old.txt", files["new.txt"].CopyFrom)
}

func TestExportBaseNotAncestor(t *testing.T) {
	r := newTestRepo(t)
	r.write("a.txt", "one\n")
	head := r.commit("only")

	_, err := Export(r.repo, plumbing.NewHash("0123456789012345678901234567890123456789"), head)
	assert.Error(t, err)
}

func TestApplyRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	r.write("a.txt", "one\n")
	base := r.commit("base")
	r.write("a.txt", "one\ntwo\n")
	r.commit("commit one")
	r.write("c.txt", "gamma\n")
	head := r.commit("commit two")

	exported, err := Export(r.repo, base, head)
	require.NoError(t, err)

	stack, err := engine.NewStack(exported)
	require.NoError(t, err)

	marks, err := Apply(r.repo, stack.CalculateImportStack(true))
	require.NoError(t, err)
	newHead, ok := marks[":r2"]
	require.True(t, ok)

	replayed, err := Export(r.repo, base, newHead)
	require.NoError(t, err)
	require.Len(t, replayed, len(exported))
	for i := range exported {
		assert.Equal(t, exported[i].Text, replayed[i].Text, "commit %d text", i)
		assert.Equal(t, exported[i].Author, replayed[i].Author, "commit %d author", i)
		require.Len(t, replayed[i].Files, len(exported[i].Files), "commit %d files", i)
		for path, f := range exported[i].Files {
			got := replayed[i].Files[path]
			if f == nil {
				assert.Nil(t, got, "commit %d %s", i, path)
				continue
			}
			require.NotNil(t, got, "commit %d %s", i, path)
			assert.Equal(t, f.Data, got.Data, "commit %d %s", i, path)
		}
	}

	// Provenance survives the rewrite.
	orig, err := r.repo.CommitObject(newHead)
	require.NoError(t, err)
	assert.Equal(t, "commit two", orig.Message)

	// The trailing goto left the worktree at the new head.
	headRef, err := r.repo.Head()
	require.NoError(t, err)
	assert.Equal(t, newHead, headRef.Hash())
}

func TestApplyAfterEdit(t *testing.T) {
	r := newTestRepo(t)
	r.write("a.txt", "one\n")
	base := r.commit("base")
	r.write("a.txt", "one\ntwo\n")
	r.commit("add two")
	r.write("a.txt", "one\ntwo\nthree\n")
	head := r.commit("add three")

	exported, err := Export(r.repo, base, head)
	require.NoError(t, err)
	stack, err := engine.NewStack(exported)
	require.NoError(t, err)

	require.True(t, stack.CanFoldDown(2))
	folded := stack.FoldDown(2)

	marks, err := Apply(r.repo, folded.CalculateImportStack(false))
	require.NoError(t, err)
	newHead, ok := marks[":r1"]
	require.True(t, ok)

	replayed, err := Export(r.repo, base, newHead)
	require.NoError(t, err)
	require.Len(t, replayed, 2)
	assert.Equal(t, "add two\n\nadd three", replayed[1].Text)
	assert.Equal(t, "one\ntwo\nthree\n", replayed[1].Files["a.txt"].Data)
}

func TestSplitAuthor(t *testing.T) {
	name, email := splitAuthor("Ada Dev <ada@example.com>")
	assert.Equal(t, "Ada Dev", name)
	assert.Equal(t, "ada@example.com", email)

	name, email = splitAuthor("anonymous")
	assert.Equal(t, "anonymous", name)
	assert.Equal(t, "", email)
}
