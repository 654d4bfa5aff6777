package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grit-vcs/grit/pkg/object"
)

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path string // slash-separated, relative to the tree root
	Mode string
	ID   object.Hash
}

// BuildTree converts the flat index into a hierarchical tree, writing
// TreeObj objects to the store and returning the root hash.
//
// Two-phase algorithm: entries are first grouped into an in-memory map of
// directory nodes keyed by directory path, then the directories are stored
// bottom-up in order of decreasing depth. No recursion, so pathological
// directory depth cannot exhaust the call stack.
func (r *Repo) BuildTree(ix *Index) (object.Hash, error) {
	// Phase 1: group entries by containing directory.
	dirs := map[string][]object.TreeEntry{"": nil}
	var dirPaths []string

	ensureDir := func(dir string) {
		for dir != "" {
			if _, ok := dirs[dir]; ok {
				return
			}
			dirs[dir] = nil
			dirPaths = append(dirPaths, dir)
			dir = parentDir(dir)
		}
	}

	for _, e := range ix.Entries() {
		dir := parentDir(e.Path)
		ensureDir(dir)
		dirs[dir] = append(dirs[dir], object.TreeEntry{
			Mode: treeModeString(e.Mode),
			Name: baseName(e.Path),
			ID:   e.ID,
		})
	}

	// Phase 2: store subtrees bottom-up. Deeper directories first, so each
	// parent sees its children's hashes when its own turn comes.
	sort.Slice(dirPaths, func(i, j int) bool {
		di, dj := strings.Count(dirPaths[i], "/"), strings.Count(dirPaths[j], "/")
		if di != dj {
			return di > dj
		}
		return dirPaths[i] < dirPaths[j]
	})
	dirPaths = append(dirPaths, "")

	for _, dir := range dirPaths {
		h, err := r.Store.WriteTree(&object.TreeObj{Entries: dirs[dir]})
		if err != nil {
			return "", fmt.Errorf("build tree %q: %w", dir, err)
		}
		if dir == "" {
			return h, nil
		}
		parent := parentDir(dir)
		dirs[parent] = append(dirs[parent], object.TreeEntry{
			Mode: object.TreeModeDir,
			Name: baseName(dir),
			ID:   h,
		})
	}
	// The loop always returns at the root ("") entry appended last.
	return "", fmt.Errorf("build tree: no root produced")
}

func parentDir(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

func baseName(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// FlattenTree walks a tree object, returning all file entries with their
// full slash-separated paths, sorted by path. The walk is iterative over an
// explicit stack.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	type frame struct {
		hash   object.Hash
		prefix string
	}

	var result []TreeFileEntry
	stack := []frame{{hash: h}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tree, err := r.Store.ReadTree(fr.hash)
		if err != nil {
			return nil, fmt.Errorf("flatten tree %s: %w", fr.hash, err)
		}
		for _, e := range tree.Entries {
			full := e.Name
			if fr.prefix != "" {
				full = fr.prefix + "/" + e.Name
			}
			if e.IsDir() {
				stack = append(stack, frame{hash: e.ID, prefix: full})
			} else {
				result = append(result, TreeFileEntry{Path: full, Mode: e.Mode, ID: e.ID})
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// LsTreeEntry is one line of ls-tree output.
type LsTreeEntry struct {
	Mode string
	Type object.ObjectType
	ID   object.Hash
	Path string
}

// LsTree lists a tree's direct entries, or every reachable entry (trees
// included) when recursive. Paths are prefixed when recursing.
func (r *Repo) LsTree(h object.Hash, recursive bool) ([]LsTreeEntry, error) {
	return r.lsTree(h, "", recursive)
}

func (r *Repo) lsTree(h object.Hash, prefix string, recursive bool) ([]LsTreeEntry, error) {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("ls-tree %s: %w", h, err)
	}

	var out []LsTreeEntry
	for _, e := range tree.Entries {
		full := e.Name
		if prefix != "" {
			full = prefix + "/" + e.Name
		}
		if e.IsDir() && recursive {
			sub, err := r.lsTree(e.ID, full, recursive)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		typ := object.TypeBlob
		if e.IsDir() {
			typ = object.TypeTree
		}
		out = append(out, LsTreeEntry{Mode: e.Mode, Type: typ, ID: e.ID, Path: full})
	}
	return out, nil
}
