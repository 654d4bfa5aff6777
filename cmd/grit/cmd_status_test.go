package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func chdirForTest(t *testing.T, dir string) func() {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s): %v", dir, err)
	}
	return func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore cwd %s: %v", wd, err)
		}
	}
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SilenceUsage = true
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute %v: %v", args, err)
	}
	return out.String()
}

func writeTestFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestStatusCmd_FreshRepoUntracked(t *testing.T) {
	dir := t.TempDir()
	if _, err := repo.Init(dir); err != nil {
		t.Fatalf("repo.Init: %v", err)
	}
	writeTestFile(t, dir, "notes.txt", "data\n")

	restore := chdirForTest(t, dir)
	defer restore()

	out := runCmd(t, newStatusCmd())

	if !strings.Contains(out, "on main (no commits yet)") {
		t.Errorf("missing no-commits header:\n%s", out)
	}
	if !strings.Contains(out, "untracked:") || !strings.Contains(out, "notes.txt") {
		t.Errorf("missing untracked section:\n%s", out)
	}
}

func TestStatusCmd_StagedMarker(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("repo.Init: %v", err)
	}
	writeTestFile(t, dir, "main.go", "package main\n")
	if err := r.Add([]string{"main.go"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	restore := chdirForTest(t, dir)
	defer restore()

	out := runCmd(t, newStatusCmd())

	if !strings.Contains(out, "staged:") || !strings.Contains(out, "+ main.go") {
		t.Errorf("missing staged-added marker:\n%s", out)
	}
}

func TestStatusCmd_CleanAfterCommit(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("repo.Init: %v", err)
	}
	writeTestFile(t, dir, "main.go", "package main\n")
	if err := r.Add([]string{"main.go"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("initial", "dev"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	restore := chdirForTest(t, dir)
	defer restore()

	out := runCmd(t, newStatusCmd())

	if !strings.Contains(out, "on main\n") {
		t.Errorf("missing branch header:\n%s", out)
	}
	for _, section := range []string{"staged:", "unstaged:", "untracked:"} {
		if strings.Contains(out, section) {
			t.Errorf("clean repo printed %q section:\n%s", section, out)
		}
	}
}
