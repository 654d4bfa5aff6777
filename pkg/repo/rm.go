package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Rm unstages the given paths. When cached is false the working-tree files
// are deleted as well (empty parent directories are cleaned up); when true
// only the index entries are removed. Paths not present in the index are an
// error and leave the index untouched.
func (r *Repo) Rm(paths []string, cached bool) error {
	ix, err := r.ReadIndex()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	var rels []string
	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("rm: resolve path %q: %w", p, err)
		}
		if _, ok := ix.Get(relPath); !ok {
			return fmt.Errorf("rm: %q is not tracked", relPath)
		}
		rels = append(rels, relPath)
	}

	for _, relPath := range rels {
		ix.Remove(relPath)
	}

	if err := r.WriteIndex(ix); err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	if cached {
		return nil
	}

	for _, relPath := range rels {
		absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
		if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("rm: remove %q: %w", relPath, err)
		}
		r.removeEmptyParents(filepath.Dir(absPath))
	}
	return nil
}

// removeEmptyParents removes empty directories up to (but not including)
// the repository root.
func (r *Repo) removeEmptyParents(dir string) {
	for {
		if dir == r.RootDir || !strings.HasPrefix(dir, r.RootDir) {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}
