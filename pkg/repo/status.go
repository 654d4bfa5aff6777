package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/grit-vcs/grit/pkg/object"
)

// ChangeKind classifies a single status change.
type ChangeKind int

const (
	ChangeAdded    ChangeKind = iota // in index, not in HEAD tree
	ChangeModified                   // present in both sides with different content
	ChangeRemoved                    // in HEAD tree, not in index
	ChangeDeleted                    // in index, gone from the working tree
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	case ChangeDeleted:
		return "deleted"
	}
	return "unknown"
}

// Change is one path-level status change.
type Change struct {
	Path string
	Kind ChangeKind
}

// WorktreeStatus is the three-way comparison result. Each set is sorted by
// path, and every path appears in at most one of them: staged classification
// reflects user-declared intent, so a path removed from the index is never
// also reported untracked even if it still exists on disk.
type WorktreeStatus struct {
	Staged    []Change // HEAD tree vs index: added / modified / removed
	Unstaged  []Change // index vs working tree: modified / deleted
	Untracked []string // on disk, not ignored, not in index, not in HEAD
}

type headState struct {
	ID   object.Hash
	Mode string
}

// Status computes the three-way working tree status. isIgnored filters
// candidate untracked paths; nil falls back to the repository's .gritignore
// rules. (.grit/ itself is always skipped.)
//
// Algorithm:
//  1. Read the index and flatten the HEAD commit's tree (empty for a fresh
//     repository).
//  2. Walk the working directory collecting non-ignored files.
//  3. Staged set: classify every path in HEAD tree ∪ index.
//  4. Unstaged set: compare each index entry to the file on disk, using the
//     recorded size/mtime as a fast path before rehashing content.
//  5. Untracked set: on-disk files known to neither index nor HEAD.
func (r *Repo) Status(isIgnored IgnoreFunc) (*WorktreeStatus, error) {
	if isIgnored == nil {
		isIgnored = NewIgnoreChecker(r.RootDir).IsIgnored
	}

	ix, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	head, err := r.headTreeEntries()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	workFiles := make(map[string]bool)
	err = filepath.WalkDir(r.RootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if rel == ".grit" || isIgnored(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			workFiles[rel] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("status: walk: %w", err)
	}

	st := &WorktreeStatus{}

	// --- HEAD tree vs index (staged changes) ---
	for _, e := range ix.Entries() {
		hs, inHead := head[e.Path]
		switch {
		case !inHead:
			st.Staged = append(st.Staged, Change{Path: e.Path, Kind: ChangeAdded})
		case hs.ID != e.ID || hs.Mode != treeModeString(e.Mode):
			st.Staged = append(st.Staged, Change{Path: e.Path, Kind: ChangeModified})
		}
	}
	for path := range head {
		if _, ok := ix.Get(path); !ok {
			st.Staged = append(st.Staged, Change{Path: path, Kind: ChangeRemoved})
		}
	}

	// --- Index vs working tree (unstaged changes) ---
	for _, e := range ix.Entries() {
		if !workFiles[e.Path] {
			st.Unstaged = append(st.Unstaged, Change{Path: e.Path, Kind: ChangeDeleted})
			continue
		}

		absPath := filepath.Join(r.RootDir, filepath.FromSlash(e.Path))
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("status: stat %q: %w", e.Path, err)
		}

		if indexStatMatches(e, info) {
			continue
		}

		// Fast path inconclusive: rehash the working file.
		content, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("status: read %q: %w", e.Path, err)
		}
		workHash := object.HashObject(object.TypeBlob, content)
		if workHash != e.ID || modeFromFileInfo(info) != e.Mode {
			st.Unstaged = append(st.Unstaged, Change{Path: e.Path, Kind: ChangeModified})
		}
	}

	// --- Untracked files ---
	for path := range workFiles {
		_, inIndex := ix.Get(path)
		_, inHead := head[path]
		if !inIndex && !inHead {
			st.Untracked = append(st.Untracked, path)
		}
	}

	sort.Slice(st.Staged, func(i, j int) bool { return st.Staged[i].Path < st.Staged[j].Path })
	sort.Slice(st.Unstaged, func(i, j int) bool { return st.Unstaged[i].Path < st.Unstaged[j].Path })
	sort.Strings(st.Untracked)

	return st, nil
}

// indexStatMatches reports whether the recorded metadata proves the working
// file is unchanged. A zero nanosecond field means the filesystem exposes
// coarse mtimes, so same-second edits could hide; those always rehash.
func indexStatMatches(e *IndexEntry, info os.FileInfo) bool {
	if modeFromFileInfo(info) != e.Mode {
		return false
	}
	if uint32(info.Size()) != e.Size {
		return false
	}
	mtime := info.ModTime()
	if mtime.Nanosecond() == 0 {
		return false
	}
	return uint32(mtime.Unix()) == e.MtimeSec && uint32(mtime.Nanosecond()) == e.MtimeNsec
}

// headTreeEntries flattens the HEAD commit's tree into path → state. A
// repository with no commits yet (dangling HEAD) yields an empty map.
func (r *Repo) headTreeEntries() (map[string]headState, error) {
	result := make(map[string]headState)

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		if isNoCommitsErr(err) {
			return result, nil
		}
		return nil, err
	}

	commit, err := r.Store.ReadCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("read HEAD commit: %w", err)
	}

	files, err := r.FlattenTree(commit.TreeHash)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		result[f.Path] = headState{ID: f.ID, Mode: f.Mode}
	}
	return result, nil
}
