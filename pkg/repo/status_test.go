package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func findChange(changes []Change, path string) (Change, bool) {
	for _, c := range changes {
		if c.Path == path {
			return c, true
		}
	}
	return Change{}, false
}

// Fresh repo with one file on disk: it is untracked and nothing else.
func TestStatus_FreshRepoUntracked(t *testing.T) {
	r := initTestRepo(t)
	writeWorkFile(t, r, "notes.txt", "some data\n")

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(st.Staged) != 0 || len(st.Unstaged) != 0 {
		t.Errorf("expected no staged/unstaged changes, got %+v / %+v", st.Staged, st.Unstaged)
	}
	if len(st.Untracked) != 1 || st.Untracked[0] != "notes.txt" {
		t.Errorf("Untracked = %v, want [notes.txt]", st.Untracked)
	}
}

// After Add the file moves from untracked to staged-added.
func TestStatus_AddShowsStagedAdded(t *testing.T) {
	r := initTestRepo(t)
	writeWorkFile(t, r, "main.go", "package main\n")
	if err := r.Add([]string{"main.go"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	c, ok := findChange(st.Staged, "main.go")
	if !ok || c.Kind != ChangeAdded {
		t.Errorf("Staged = %+v, want main.go added", st.Staged)
	}
	if len(st.Unstaged) != 0 {
		t.Errorf("Unstaged = %+v, want empty", st.Unstaged)
	}
	if len(st.Untracked) != 0 {
		t.Errorf("Untracked = %v, want empty", st.Untracked)
	}
}

// After commit with an unchanged worktree everything is clean.
func TestStatus_CleanAfterCommit(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "initial", map[string]string{
		"main.go":     "package main\n",
		"docs/ref.md": "# reference\n",
	})

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(st.Staged) != 0 || len(st.Unstaged) != 0 || len(st.Untracked) != 0 {
		t.Errorf("expected clean status, got %+v", st)
	}
}

// Modifying a committed file without re-adding shows unstaged-modified.
func TestStatus_ModifyAfterCommit(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "initial", map[string]string{"main.go": "package main\n"})

	writeWorkFile(t, r, "main.go", "package main\n\nfunc main() {}\n")

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(st.Staged) != 0 {
		t.Errorf("Staged = %+v, want empty", st.Staged)
	}
	c, ok := findChange(st.Unstaged, "main.go")
	if !ok || c.Kind != ChangeModified {
		t.Errorf("Unstaged = %+v, want main.go modified", st.Unstaged)
	}
}

// Restaging the modified file moves the change to staged-modified.
func TestStatus_ModifyAndRestage(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "initial", map[string]string{"main.go": "package main\n"})

	writeWorkFile(t, r, "main.go", "package main\n\nfunc main() {}\n")
	if err := r.Add([]string{"main.go"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	c, ok := findChange(st.Staged, "main.go")
	if !ok || c.Kind != ChangeModified {
		t.Errorf("Staged = %+v, want main.go modified", st.Staged)
	}
	if len(st.Unstaged) != 0 {
		t.Errorf("Unstaged = %+v, want empty", st.Unstaged)
	}
}

// Deleting a staged file from disk shows unstaged-deleted.
func TestStatus_WorktreeDelete(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "initial", map[string]string{"gone.txt": "bye\n"})

	if err := os.Remove(filepath.Join(r.RootDir, "gone.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	c, ok := findChange(st.Unstaged, "gone.txt")
	if !ok || c.Kind != ChangeDeleted {
		t.Errorf("Unstaged = %+v, want gone.txt deleted", st.Unstaged)
	}
}

// A path removed from the index but still committed and on disk is reported
// staged-removed only, never untracked: staged classification reflects
// declared intent.
func TestStatus_RemovedBeatsUntracked(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "initial", map[string]string{"keep.txt": "data\n"})

	if err := r.Rm([]string{"keep.txt"}, true); err != nil {
		t.Fatalf("Rm --cached: %v", err)
	}

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	c, ok := findChange(st.Staged, "keep.txt")
	if !ok || c.Kind != ChangeRemoved {
		t.Errorf("Staged = %+v, want keep.txt removed", st.Staged)
	}
	for _, u := range st.Untracked {
		if u == "keep.txt" {
			t.Error("keep.txt reported untracked despite being in HEAD")
		}
	}
}

// Ignored files never appear as untracked, and .grit/ is skipped always.
func TestStatus_IgnoredFilesSkipped(t *testing.T) {
	r := initTestRepo(t)
	writeWorkFile(t, r, ".gritignore", "*.log\nbuild/\n")
	writeWorkFile(t, r, "debug.log", "noise\n")
	writeWorkFile(t, r, "build/out.bin", "binary\n")
	writeWorkFile(t, r, "src/main.go", "package main\n")

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	want := map[string]bool{".gritignore": true, "src/main.go": true}
	if len(st.Untracked) != len(want) {
		t.Fatalf("Untracked = %v, want exactly %v", st.Untracked, want)
	}
	for _, u := range st.Untracked {
		if !want[u] {
			t.Errorf("unexpected untracked path %q", u)
		}
	}
}

// Every reported set is sorted by path.
func TestStatus_SortedOutput(t *testing.T) {
	r := initTestRepo(t)
	for _, p := range []string{"c.txt", "a.txt", "b.txt"} {
		writeWorkFile(t, r, p, p+"\n")
	}
	if err := r.Add([]string{"c.txt", "a.txt", "b.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	st, err := r.Status(nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(st.Staged) != len(want) {
		t.Fatalf("Staged has %d entries, want %d", len(st.Staged), len(want))
	}
	for i, w := range want {
		if st.Staged[i].Path != w {
			t.Errorf("Staged[%d] = %q, want %q", i, st.Staged[i].Path, w)
		}
	}
}
