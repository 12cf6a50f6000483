// Package gitbridge materializes edited stacks in a git repository and
// exports commit ranges back into the wire format. It drives go-git
// directly, so it works against on-disk and in-memory repositories alike.
package gitbridge

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"stackedit.dev/stackedit/internal/wire"
)

// Apply executes an import stack against the repository: each commit
// instruction creates a commit on top of its (already existing or just
// created) parent, and a trailing goto checks out the named commit.
// The returned map resolves marks to the hashes they produced.
func Apply(repo *gogit.Repository, actions wire.ImportStack) (map[string]plumbing.Hash, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	marks := make(map[string]plumbing.Hash)

	resolve := func(ref string) (plumbing.Hash, error) {
		if strings.HasPrefix(ref, ":") {
			h, ok := marks[ref]
			if !ok {
				return plumbing.ZeroHash, fmt.Errorf("unknown mark %q", ref)
			}
			return h, nil
		}
		return plumbing.NewHash(ref), nil
	}

	for _, action := range actions {
		switch {
		case action.Commit != nil:
			h, err := applyCommit(wt, action.Commit, resolve)
			if err != nil {
				return nil, fmt.Errorf("applying %s: %w", action.Commit.Mark, err)
			}
			marks[action.Commit.Mark] = h
		case action.Goto != nil:
			h, err := resolve(action.Goto.Mark)
			if err != nil {
				return nil, err
			}
			if err := wt.Checkout(&gogit.CheckoutOptions{Hash: h, Force: true}); err != nil {
				return nil, fmt.Errorf("goto %s: %w", action.Goto.Mark, err)
			}
		}
	}
	return marks, nil
}

func applyCommit(wt *gogit.Worktree, c *wire.ImportCommit, resolve func(string) (plumbing.Hash, error)) (plumbing.Hash, error) {
	if len(c.Parents) == 0 {
		return plumbing.ZeroHash, fmt.Errorf("commit %s has no parent", c.Mark)
	}
	parents := make([]plumbing.Hash, 0, len(c.Parents))
	for _, p := range c.Parents {
		h, err := resolve(p)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		parents = append(parents, h)
	}

	// Start the worktree from the first parent so staged changes are
	// exactly this commit's file instructions.
	if err := wt.Checkout(&gogit.CheckoutOptions{Hash: parents[0], Force: true}); err != nil {
		return plumbing.ZeroHash, err
	}

	paths := make([]string, 0, len(c.Files))
	for path := range c.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	// Deletions first so renames never collide with their source.
	for _, path := range paths {
		if c.Files[path] != nil {
			continue
		}
		if _, err := wt.Remove(path); err != nil {
			return plumbing.ZeroHash, fmt.Errorf("remove %s: %w", path, err)
		}
	}
	for _, path := range paths {
		f := c.Files[path]
		if f == nil {
			continue
		}
		if err := writeFile(wt, path, f); err != nil {
			return plumbing.ZeroHash, err
		}
		if _, err := wt.Add(path); err != nil {
			return plumbing.ZeroHash, fmt.Errorf("add %s: %w", path, err)
		}
	}

	name, email := splitAuthor(c.Author)
	when := time.Unix(c.Date.UnixSec, 0).In(time.FixedZone("", c.Date.TZOffsetSec))
	return wt.Commit(c.Text, &gogit.CommitOptions{
		Author:            &object.Signature{Name: name, Email: email, When: when},
		Parents:           parents,
		AllowEmptyCommits: true,
	})
}

func writeFile(wt *gogit.Worktree, path string, f *wire.ExportedFile) error {
	data := []byte(f.Data)
	if f.DataBase85 != "" {
		decoded, err := wire.DecodeBase85(f.DataBase85)
		if err != nil {
			return fmt.Errorf("file %s: %w", path, err)
		}
		data = decoded
	}
	switch f.Flags {
	case "l":
		return wt.Filesystem.Symlink(string(data), path)
	case "m":
		return fmt.Errorf("file %s: submodules cannot be rewritten", path)
	}
	mode := os.FileMode(0644)
	if f.Flags == "x" {
		mode = 0755
	}
	return util.WriteFile(wt.Filesystem, path, data, mode)
}

// splitAuthor separates "Name <email>" into its parts. Input without an
// address yields an empty email.
func splitAuthor(author string) (name, email string) {
	open := strings.LastIndex(author, "<")
	end := strings.LastIndex(author, ">")
	if open < 0 || end < open {
		return strings.TrimSpace(author), ""
	}
	return strings.TrimSpace(author[:open]), author[open+1 : end]
}

// Export walks first parents from head down to base and serializes the
// range as an exported stack: base first as the immutable bottom carrying
// pre-stack content for every path the stack touches, then each commit
// with its changed files.
func Export(repo *gogit.Repository, base, head plumbing.Hash) (wire.ExportedStack, error) {
	lineage, err := firstParentRange(repo, base, head)
	if err != nil {
		return nil, err
	}

	type commitFiles struct {
		commit *object.Commit
		files  map[string]*wire.ExportedFile
	}
	built := make([]commitFiles, 0, len(lineage))
	relevant := make(map[string]bool)

	for _, c := range lineage {
		files, err := changedFiles(c)
		if err != nil {
			return nil, fmt.Errorf("diffing %s: %w", c.Hash, err)
		}
		for path, f := range files {
			relevant[path] = true
			if f != nil && f.CopyFrom != "" {
				relevant[f.CopyFrom] = true
			}
		}
		built = append(built, commitFiles{commit: c, files: files})
	}

	baseCommit, err := repo.CommitObject(base)
	if err != nil {
		return nil, err
	}
	relevantFiles, err := filesAt(baseCommit, relevant)
	if err != nil {
		return nil, err
	}

	stack := wire.ExportedStack{exportCommit(baseCommit, nil, relevantFiles, false)}
	for _, cf := range built {
		stack = append(stack, exportCommit(cf.commit, cf.files, nil, true))
	}
	return stack, nil
}

// firstParentRange returns the commits from base (exclusive) to head
// (inclusive), oldest first.
func firstParentRange(repo *gogit.Repository, base, head plumbing.Hash) ([]*object.Commit, error) {
	var lineage []*object.Commit
	cur := head
	for cur != base {
		c, err := repo.CommitObject(cur)
		if err != nil {
			return nil, err
		}
		lineage = append(lineage, c)
		if c.NumParents() == 0 {
			return nil, fmt.Errorf("%s is not an ancestor of %s", base, head)
		}
		cur = c.ParentHashes[0]
	}
	for i, j := 0, len(lineage)-1; i < j; i, j = i+1, j-1 {
		lineage[i], lineage[j] = lineage[j], lineage[i]
	}
	return lineage, nil
}

// changedFiles diffs a commit against its first parent with rename
// detection. A nil entry means the path was deleted; a rename shows up
// as a deletion of the source plus a copyFrom on the destination.
func changedFiles(c *object.Commit) (map[string]*wire.ExportedFile, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(context.Background(), parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, err
	}

	files := make(map[string]*wire.ExportedFile, len(changes))
	for _, change := range changes {
		fromPath, toPath := change.From.Name, change.To.Name
		switch {
		case toPath == "": // delete
			files[fromPath] = nil
		default:
			f, err := exportTreeFile(tree, toPath)
			if err != nil {
				return nil, err
			}
			if fromPath != "" && fromPath != toPath { // rename
				f.CopyFrom = fromPath
				files[fromPath] = nil
			}
			files[toPath] = f
		}
	}
	return files, nil
}

// filesAt resolves the given paths against a commit's tree; missing
// paths map to nil.
func filesAt(c *object.Commit, paths map[string]bool) (map[string]*wire.ExportedFile, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	files := make(map[string]*wire.ExportedFile, len(paths))
	for path := range paths {
		f, err := exportTreeFile(tree, path)
		if err == object.ErrFileNotFound {
			files[path] = nil
			continue
		}
		if err != nil {
			return nil, err
		}
		files[path] = f
	}
	return files, nil
}

func exportTreeFile(tree *object.Tree, path string) (*wire.ExportedFile, error) {
	f, err := tree.File(path)
	if err != nil {
		return nil, err
	}
	r, err := f.Blob.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	ef := &wire.ExportedFile{Flags: flagsOf(f.Mode)}
	if utf8.Valid(data) {
		ef.Data = string(data)
	} else {
		ef.DataBase85 = wire.EncodeBase85(data)
	}
	return ef, nil
}

func exportCommit(c *object.Commit, files, relevantFiles map[string]*wire.ExportedFile, requested bool) wire.ExportedCommit {
	parents := make([]string, 0, c.NumParents())
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	_, offset := c.Author.When.Zone()
	return wire.ExportedCommit{
		Node:          c.Hash.String(),
		Parents:       parents,
		Author:        fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
		Date:          wire.DateTuple{UnixSec: c.Author.When.Unix(), TZOffsetSec: offset},
		Text:          c.Message,
		Requested:     requested,
		Immutable:     !requested,
		Files:         files,
		RelevantFiles: relevantFiles,
	}
}

func flagsOf(mode filemode.FileMode) string {
	switch mode {
	case filemode.Executable:
		return "x"
	case filemode.Symlink:
		return "l"
	case filemode.Submodule:
		return "m"
	}
	return ""
}
