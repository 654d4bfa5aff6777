package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grit-vcs/grit/pkg/object"
)

func TestCheckoutExportsCommitTree(t *testing.T) {
	r := initTestRepo(t)
	files := map[string]string{
		"README.md":   "docs\n",
		"src/main.go": "package main\n",
	}
	h := stageAndCommit(t, r, "initial", files)

	dest := t.TempDir()
	if err := r.Checkout(h, dest); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	for rel, want := range files {
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("read exported %s: %v", rel, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", rel, got, want)
		}
	}
}

func TestCheckoutAcceptsTreeDirectly(t *testing.T) {
	r := initTestRepo(t)
	h := stageAndCommit(t, r, "initial", map[string]string{"f.txt": "data\n"})

	commit, err := r.Store.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}

	dest := t.TempDir()
	if err := r.Checkout(commit.TreeHash, dest); err != nil {
		t.Fatalf("Checkout of tree: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "f.txt")); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestCheckoutRejectsBlobTarget(t *testing.T) {
	r := initTestRepo(t)
	h := stageAndCommit(t, r, "initial", map[string]string{"f.txt": "data\n"})

	flat, err := r.FlattenTree(mustCommitTree(t, r, h))
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	if err := r.Checkout(flat[0].ID, t.TempDir()); err == nil {
		t.Error("checkout of a blob should fail")
	}
}

func TestCheckoutLeavesHeadAndIndexAlone(t *testing.T) {
	r := initTestRepo(t)
	h := stageAndCommit(t, r, "initial", map[string]string{"f.txt": "data\n"})

	headBefore, err := os.ReadFile(filepath.Join(r.GritDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	indexBefore, err := os.ReadFile(r.indexPath())
	if err != nil {
		t.Fatalf("read index: %v", err)
	}

	if err := r.Checkout(h, t.TempDir()); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	headAfter, _ := os.ReadFile(filepath.Join(r.GritDir, "HEAD"))
	indexAfter, _ := os.ReadFile(r.indexPath())
	if string(headBefore) != string(headAfter) {
		t.Error("Checkout rewrote HEAD")
	}
	if string(indexBefore) != string(indexAfter) {
		t.Error("Checkout rewrote the index")
	}
}

func TestCheckoutRejectsFileDest(t *testing.T) {
	r := initTestRepo(t)
	h := stageAndCommit(t, r, "initial", map[string]string{"f.txt": "data\n"})

	dest := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(dest, []byte("in the way"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.Checkout(h, dest); err == nil {
		t.Error("checkout into a non-directory should fail")
	}
}

func mustCommitTree(t *testing.T, r *Repo, commitHash object.Hash) object.Hash {
	t.Helper()
	c, err := r.Store.ReadCommit(commitHash)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	return c.TreeHash
}
