package repo

import (
	"testing"
)

func TestCreateAndListBranches(t *testing.T) {
	r := initTestRepo(t)
	h := stageAndCommit(t, r, "initial", map[string]string{"f.txt": "x\n"})

	if err := r.CreateBranch("feature", h); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	branches, err := r.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	want := []string{"feature", "main"}
	if len(branches) != len(want) {
		t.Fatalf("ListBranches = %v, want %v", branches, want)
	}
	for i, w := range want {
		if branches[i] != w {
			t.Errorf("branch %d = %q, want %q", i, branches[i], w)
		}
	}

	got, err := r.ResolveRef("refs/heads/feature")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if got != h {
		t.Errorf("feature points at %s, want %s", got, h)
	}
}

func TestCreateBranchDuplicateFails(t *testing.T) {
	r := initTestRepo(t)
	h := stageAndCommit(t, r, "initial", map[string]string{"f.txt": "x\n"})

	if err := r.CreateBranch("dup", h); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.CreateBranch("dup", h); err == nil {
		t.Error("duplicate branch should fail")
	}
}

func TestDeleteBranch(t *testing.T) {
	r := initTestRepo(t)
	h := stageAndCommit(t, r, "initial", map[string]string{"f.txt": "x\n"})

	if err := r.CreateBranch("victim", h); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.DeleteBranch("victim"); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if _, err := r.ResolveRef("refs/heads/victim"); err == nil {
		t.Error("deleted branch still resolves")
	}
}

func TestDeleteCurrentBranchFails(t *testing.T) {
	r := initTestRepo(t)
	stageAndCommit(t, r, "initial", map[string]string{"f.txt": "x\n"})

	if err := r.DeleteBranch("main"); err == nil {
		t.Error("deleting the current branch should fail")
	}
}

func TestCurrentBranch(t *testing.T) {
	r := initTestRepo(t)

	name, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if name != "main" {
		t.Errorf("CurrentBranch = %q, want main", name)
	}
}
