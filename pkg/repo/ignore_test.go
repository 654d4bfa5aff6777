package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func checkerWith(t *testing.T, lines string) *IgnoreChecker {
	t.Helper()
	dir := t.TempDir()
	if lines != "" {
		if err := os.WriteFile(filepath.Join(dir, ".gritignore"), []byte(lines), 0o644); err != nil {
			t.Fatalf("write .gritignore: %v", err)
		}
	}
	return NewIgnoreChecker(dir)
}

func TestIgnoreAlwaysSkipsMetaDirs(t *testing.T) {
	ic := checkerWith(t, "")

	for _, p := range []string{".grit", ".grit/index", ".git", ".git/HEAD"} {
		if !ic.IsIgnored(p) {
			t.Errorf("%q should be ignored unconditionally", p)
		}
	}
	if ic.IsIgnored("src/main.go") {
		t.Error("ordinary files should not be ignored by default")
	}
}

func TestIgnoreGlobPatterns(t *testing.T) {
	ic := checkerWith(t, "*.log\ntmp-??\n")

	cases := map[string]bool{
		"debug.log":        true,
		"nested/trace.log": true, // basename match for slashless patterns
		"tmp-01":           true,
		"tmp-001":          false,
		"logfile.txt":      false,
	}
	for p, want := range cases {
		if got := ic.IsIgnored(p); got != want {
			t.Errorf("IsIgnored(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestIgnoreDirOnlyPatterns(t *testing.T) {
	ic := checkerWith(t, "build/\n")

	cases := map[string]bool{
		"build":            true,
		"build/out.bin":    true,
		"build/sub/x.o":    true,
		"building/out.bin": false,
		"src/build.go":     false,
	}
	for p, want := range cases {
		if got := ic.IsIgnored(p); got != want {
			t.Errorf("IsIgnored(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestIgnoreNegationLastMatchWins(t *testing.T) {
	ic := checkerWith(t, "*.log\n!important.log\n")

	if !ic.IsIgnored("debug.log") {
		t.Error("debug.log should stay ignored")
	}
	if ic.IsIgnored("important.log") {
		t.Error("important.log should be re-included by the negation")
	}
}

func TestIgnoreCommentsAndBlankLines(t *testing.T) {
	ic := checkerWith(t, "# build artifacts\n\n*.o\n")

	if !ic.IsIgnored("main.o") {
		t.Error("*.o should be ignored")
	}
	if ic.IsIgnored("# build artifacts") {
		t.Error("comment lines must not become patterns")
	}
}

func TestIgnoreSlashedPatternMatchesFullPath(t *testing.T) {
	ic := checkerWith(t, "docs/*.tmp\n")

	if !ic.IsIgnored("docs/draft.tmp") {
		t.Error("docs/draft.tmp should match the slashed pattern")
	}
	if ic.IsIgnored("other/draft.tmp") {
		t.Error("slashed patterns must not fall back to basename matching")
	}
}
