package repo

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFunc reports whether a repo-relative, slash-separated path should be
// excluded from status scans. The status engine treats it as an opaque
// predicate; NewIgnoreChecker provides the default implementation.
type IgnoreFunc func(string) bool

// IgnoreChecker determines if a path should be ignored based on .gritignore
// patterns. .grit/ and .git/ are always ignored.
type IgnoreChecker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	negated  bool
	dirOnly  bool
	hasSlash bool // pattern contains a slash, so match against full path
}

// NewIgnoreChecker creates an IgnoreChecker for the given repository root,
// reading .gritignore from it when present.
func NewIgnoreChecker(repoRoot string) *IgnoreChecker {
	ic := &IgnoreChecker{}

	ic.patterns = append(ic.patterns,
		ignorePattern{pattern: ".grit", dirOnly: true},
		ignorePattern{pattern: ".git", dirOnly: true},
	)

	f, err := os.Open(filepath.Join(repoRoot, ".gritignore"))
	if err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if p := parseIgnoreLine(scanner.Text()); p != nil {
				ic.patterns = append(ic.patterns, *p)
			}
		}
	}
	return ic
}

// parseIgnoreLine parses one .gritignore line. Returns nil for empty lines
// and comments.
func parseIgnoreLine(line string) *ignorePattern {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &ignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	p.hasSlash = strings.Contains(line, "/")
	p.pattern = line
	return p
}

// IsIgnored checks whether a relative path should be ignored. The path uses
// forward slashes and is relative to the repository root. Last matching
// pattern wins, so negations can re-include earlier matches.
func (ic *IgnoreChecker) IsIgnored(p string) bool {
	p = filepath.ToSlash(p)

	ignored := false
	for i := range ic.patterns {
		if ic.patterns[i].matches(p) {
			ignored = !ic.patterns[i].negated
		}
	}
	return ignored
}

// matches checks the given relative path against this pattern.
func (p *ignorePattern) matches(target string) bool {
	if p.dirOnly {
		// The path itself or any ancestor directory matches the pattern.
		if target == p.pattern || strings.HasPrefix(target, p.pattern+"/") {
			return true
		}
		for i := 0; i < len(target); i++ {
			if target[i] == '/' && p.globMatch(path.Base(target[:i])) {
				return true
			}
		}
		return false
	}

	if p.hasSlash {
		return p.globMatch(target)
	}
	return p.globMatch(path.Base(target))
}

func (p *ignorePattern) globMatch(target string) bool {
	matched, _ := path.Match(p.pattern, target)
	return matched || target == p.pattern
}
