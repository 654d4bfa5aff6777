package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grit-vcs/grit/pkg/object"
)

func TestResolveRefDanglingOnFreshRepo(t *testing.T) {
	r := initTestRepo(t)

	// HEAD points at refs/heads/main, which does not exist yet.
	if _, err := r.ResolveRef("HEAD"); !errors.Is(err, ErrDanglingRef) {
		t.Errorf("ResolveRef(HEAD): got %v, want ErrDanglingRef", err)
	}
	if _, err := r.ResolveRef("refs/heads/nope"); !errors.Is(err, ErrDanglingRef) {
		t.Errorf("ResolveRef(missing branch): got %v, want ErrDanglingRef", err)
	}
}

func TestUpdateRefThroughHEADAdvancesBranch(t *testing.T) {
	r := initTestRepo(t)
	h := object.HashObject(object.TypeBlob, []byte("x"))

	if err := r.UpdateRef("HEAD", h); err != nil {
		t.Fatalf("UpdateRef(HEAD): %v", err)
	}

	// The branch ref received the hash and HEAD stayed symbolic.
	got, err := r.ResolveRef("refs/heads/main")
	if err != nil {
		t.Fatalf("ResolveRef(refs/heads/main): %v", err)
	}
	if got != h {
		t.Errorf("branch ref = %s, want %s", got, h)
	}
	headData, err := os.ReadFile(filepath.Join(r.GritDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if !strings.HasPrefix(string(headData), "ref: refs/heads/main") {
		t.Errorf("HEAD was detached by the update: %q", headData)
	}

	// HEAD resolves through the chain.
	viaHead, err := r.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if viaHead != h {
		t.Errorf("ResolveRef(HEAD) = %s, want %s", viaHead, h)
	}
}

func TestResolveRefByBareName(t *testing.T) {
	r := initTestRepo(t)
	h := object.HashObject(object.TypeBlob, []byte("y"))

	if err := r.UpdateRef("refs/heads/feature", h); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}

	got, err := r.ResolveRef("feature")
	if err != nil {
		t.Fatalf("ResolveRef(bare name): %v", err)
	}
	if got != h {
		t.Errorf("ResolveRef(feature) = %s, want %s", got, h)
	}
}

func TestResolveRefDetectsCycle(t *testing.T) {
	r := initTestRepo(t)

	a := filepath.Join(r.GritDir, "refs", "heads", "a")
	b := filepath.Join(r.GritDir, "refs", "heads", "b")
	if err := os.WriteFile(a, []byte("ref: refs/heads/b\n"), 0o644); err != nil {
		t.Fatalf("write ref a: %v", err)
	}
	if err := os.WriteFile(b, []byte("ref: refs/heads/a\n"), 0o644); err != nil {
		t.Fatalf("write ref b: %v", err)
	}

	if _, err := r.ResolveRef("refs/heads/a"); !errors.Is(err, ErrReferenceCycle) {
		t.Errorf("ResolveRef on a loop: got %v, want ErrReferenceCycle", err)
	}
}

func TestUpdateRefAppendsLog(t *testing.T) {
	r := initTestRepo(t)
	h1 := object.HashObject(object.TypeBlob, []byte("one"))
	h2 := object.HashObject(object.TypeBlob, []byte("two"))

	if err := r.UpdateRef("HEAD", h1); err != nil {
		t.Fatalf("first UpdateRef: %v", err)
	}
	if err := r.UpdateRef("HEAD", h2); err != nil {
		t.Fatalf("second UpdateRef: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(r.GritDir, "logs", "refs", "heads", "main"))
	if err != nil {
		t.Fatalf("read ref log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("ref log has %d lines, want 2:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], zeroHash+" "+string(h1)) {
		t.Errorf("first log line = %q, want zero-hash -> %s", lines[0], h1)
	}
	if !strings.HasPrefix(lines[1], string(h1)+" "+string(h2)) {
		t.Errorf("second log line = %q, want %s -> %s", lines[1], h1, h2)
	}
}

func TestListRefs(t *testing.T) {
	r := initTestRepo(t)
	h := object.HashObject(object.TypeBlob, []byte("z"))

	for _, name := range []string{"refs/heads/main", "refs/heads/dev", "refs/tags/v1"} {
		if err := r.UpdateRef(name, h); err != nil {
			t.Fatalf("UpdateRef(%s): %v", name, err)
		}
	}

	all, err := r.ListRefs("")
	if err != nil {
		t.Fatalf("ListRefs: %v", err)
	}
	wantAll := []string{"heads/dev", "heads/main", "tags/v1"}
	if len(all) != len(wantAll) {
		t.Fatalf("ListRefs returned %d refs, want %d", len(all), len(wantAll))
	}
	for i, want := range wantAll {
		if all[i].Name != want {
			t.Errorf("ref %d = %q, want %q (sorted)", i, all[i].Name, want)
		}
		if all[i].Hash != h {
			t.Errorf("ref %q hash = %s, want %s", all[i].Name, all[i].Hash, h)
		}
	}

	heads, err := r.ListRefs("heads")
	if err != nil {
		t.Fatalf("ListRefs(heads): %v", err)
	}
	if len(heads) != 2 {
		t.Errorf("ListRefs(heads) returned %d refs, want 2", len(heads))
	}
}

func TestListRefsSkipsLockFiles(t *testing.T) {
	r := initTestRepo(t)
	h := object.HashObject(object.TypeBlob, []byte("w"))

	if err := r.UpdateRef("refs/heads/main", h); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	stale := filepath.Join(r.GritDir, "refs", "heads", "main.lock")
	if err := os.WriteFile(stale, []byte("leftover"), 0o644); err != nil {
		t.Fatalf("write stale lock: %v", err)
	}

	refs, err := r.ListRefs("heads")
	if err != nil {
		t.Fatalf("ListRefs: %v", err)
	}
	if len(refs) != 1 || refs[0].Name != "heads/main" {
		t.Errorf("ListRefs = %+v, want just heads/main", refs)
	}
}
