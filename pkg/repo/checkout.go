package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grit-vcs/grit/pkg/object"
)

// Checkout materializes the tree of the given commit (or a tree object
// directly) into dest, creating directories as needed and overwriting
// existing files. It deliberately does not touch HEAD or the index: this
// behaves like an export into a directory, not a branch switch.
func (r *Repo) Checkout(target object.Hash, dest string) error {
	objType, _, err := r.Store.Read(target)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	var treeHash object.Hash
	switch objType {
	case object.TypeCommit:
		commit, err := r.Store.ReadCommit(target)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		treeHash = commit.TreeHash
	case object.TypeTree:
		treeHash = target
	default:
		return fmt.Errorf("checkout: %s is a %s, want commit or tree", target, objType)
	}

	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		return fmt.Errorf("checkout: %q is not a directory", dest)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("checkout: mkdir %q: %w", dest, err)
	}

	files, err := r.FlattenTree(treeHash)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	for _, f := range files {
		absPath := filepath.Join(dest, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir for %q: %w", f.Path, err)
		}

		blob, err := r.Store.ReadBlob(f.ID)
		if err != nil {
			return fmt.Errorf("checkout: read blob for %q: %w", f.Path, err)
		}
		if err := os.WriteFile(absPath, blob.Data, filePermFromTreeMode(f.Mode)); err != nil {
			return fmt.Errorf("checkout: write %q: %w", f.Path, err)
		}
	}
	return nil
}
