package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grit-vcs/grit/pkg/object"
)

// ErrPathConflict indicates a staged path collides with an existing entry of
// the other kind: a file where tracked files live underneath, or vice versa.
var ErrPathConflict = errors.New("path conflict")

// Add stages the given paths. For each file the raw content is written as a
// blob to the object store and the index entry is inserted or replaced with
// the new hash and file metadata. The updated index is flushed once at the
// end.
func (r *Repo) Add(paths []string) error {
	ix, err := r.ReadIndex()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("add: resolve path %q: %w", p, err)
		}

		absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
		info, err := os.Stat(absPath)
		if err != nil {
			return fmt.Errorf("add: stat %q: %w", relPath, err)
		}
		if info.IsDir() {
			return fmt.Errorf("add: %q is a directory (stage files individually)", relPath)
		}

		if err := checkPathConflict(ix, relPath); err != nil {
			return fmt.Errorf("add: %w", err)
		}

		content, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("add: read %q: %w", relPath, err)
		}

		blobHash, err := r.Store.WriteBlob(&object.Blob{Data: content})
		if err != nil {
			return fmt.Errorf("add: write blob %q: %w", relPath, err)
		}

		mtime := info.ModTime()
		ix.Upsert(IndexEntry{
			Path:      relPath,
			ID:        blobHash,
			Mode:      modeFromFileInfo(info),
			Size:      uint32(info.Size()),
			MtimeSec:  uint32(mtime.Unix()),
			MtimeNsec: uint32(mtime.Nanosecond()),
		})
	}

	if err := r.WriteIndex(ix); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// checkPathConflict rejects staging a path when one of its ancestors is
// already tracked as a file, or when tracked files already live underneath
// it (the same name cannot be both a blob and a tree in one commit).
func checkPathConflict(ix *Index, path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if _, ok := ix.Get(path[:i]); ok {
				return fmt.Errorf("%q: ancestor %q is a tracked file: %w", path, path[:i], ErrPathConflict)
			}
		}
	}
	for _, e := range ix.Entries() {
		if strings.HasPrefix(e.Path, path+"/") {
			return fmt.Errorf("%q: tracked file %q lives underneath it: %w", path, e.Path, ErrPathConflict)
		}
	}
	return nil
}

// repoRelPath converts a path (absolute, or relative to CWD) into a
// slash-separated path relative to the repository root. A relative path that
// does not resolve inside the repo is treated as already repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return "", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err)
		}
		return filepath.ToSlash(rel), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	abs := filepath.Join(cwd, p)
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	return filepath.ToSlash(rel), nil
}
