package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/grit-vcs/grit/pkg/object"
)

// Sentinel errors for reference resolution and update.
var (
	// ErrDanglingRef indicates a reference (or the target of a symbolic
	// chain) points at a file that does not exist.
	ErrDanglingRef = errors.New("dangling reference")

	// ErrReferenceCycle indicates symbolic resolution exceeded the depth
	// bound, which only happens when refs point at each other in a loop.
	ErrReferenceCycle = errors.New("reference cycle")
)

// maxSymbolicDepth bounds symbolic indirection so a ref loop terminates
// with ErrReferenceCycle instead of spinning.
const maxSymbolicDepth = 5

const symbolicRefPrefix = "ref: "

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

// Head reads .grit/HEAD. If the content starts with "ref: ", it returns the
// ref path (e.g., "refs/heads/main"). Otherwise it returns the raw content
// as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GritDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	return strings.TrimPrefix(content, symbolicRefPrefix), nil
}

// refFilePath maps a ref name to the file under .grit/ that backs it.
// "HEAD" and names starting with "refs/" are used directly; a bare name is
// tried under refs/heads/ and then refs/tags/.
func (r *Repo) refFilePath(name string) string {
	if name == "HEAD" || strings.HasPrefix(name, "refs/") {
		return filepath.Join(r.GritDir, filepath.FromSlash(name))
	}
	headsPath := filepath.Join(r.GritDir, "refs", "heads", filepath.FromSlash(name))
	if _, err := os.Stat(headsPath); err == nil {
		return headsPath
	}
	tagsPath := filepath.Join(r.GritDir, "refs", "tags", filepath.FromSlash(name))
	if _, err := os.Stat(tagsPath); err == nil {
		return tagsPath
	}
	return headsPath
}

// ResolveRef resolves a ref name to an object hash, following symbolic
// indirection up to maxSymbolicDepth levels. A missing target yields
// ErrDanglingRef; exceeding the depth bound yields ErrReferenceCycle.
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	cur := name
	for depth := 0; depth < maxSymbolicDepth; depth++ {
		data, err := os.ReadFile(r.refFilePath(cur))
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("resolve ref %q: %q: %w", name, cur, ErrDanglingRef)
			}
			return "", fmt.Errorf("resolve ref %q: %w", name, err)
		}
		content := strings.TrimRight(string(data), "\n")

		if strings.HasPrefix(content, symbolicRefPrefix) {
			cur = strings.TrimPrefix(content, symbolicRefPrefix)
			continue
		}
		return object.Hash(strings.TrimSpace(content)), nil
	}
	return "", fmt.Errorf("resolve ref %q: depth %d exceeded: %w", name, maxSymbolicDepth, ErrReferenceCycle)
}

// finalRefName follows symbolic indirection from name and returns the name
// of the direct ref at the end of the chain. A symbolic ref whose target
// file does not exist yet resolves to that target name (an unborn branch).
func (r *Repo) finalRefName(name string) (string, error) {
	cur := name
	for depth := 0; depth < maxSymbolicDepth; depth++ {
		data, err := os.ReadFile(r.refFilePath(cur))
		if err != nil {
			if os.IsNotExist(err) {
				return cur, nil
			}
			return "", fmt.Errorf("ref %q: %w", name, err)
		}
		content := strings.TrimRight(string(data), "\n")
		if !strings.HasPrefix(content, symbolicRefPrefix) {
			return cur, nil
		}
		cur = strings.TrimPrefix(content, symbolicRefPrefix)
	}
	return "", fmt.Errorf("ref %q: depth %d exceeded: %w", name, maxSymbolicDepth, ErrReferenceCycle)
}

// UpdateRef writes a hash to the named ref. If name is symbolic (HEAD
// attached to a branch), the reference it ultimately points to is the one
// updated, so committing on a branch advances the branch rather than
// detaching HEAD. The write uses lockfile + rename atomic semantics, and an
// entry is appended to the ref's update log afterwards; if the log append
// fails the ref update remains committed and a RefUpdateLogError is
// returned.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	target, err := r.finalRefName(name)
	if err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}

	refPath := r.refFilePath(target)
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", target, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", target, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	oldHash, err := readRefHash(refPath)
	if err != nil {
		return fmt.Errorf("update ref %q: read old hash: %w", target, err)
	}

	if _, err := lockFile.WriteString(string(h) + "\n"); err != nil {
		return fmt.Errorf("update ref %q: write: %w", target, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", target, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", target, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", target, err)
	}
	cleanupLock = false

	if err := r.appendRefLog(target, oldHash, h, "update"); err != nil {
		return &RefUpdateLogError{Ref: target, OldHash: oldHash, NewHash: h, Err: err}
	}
	return nil
}

// RefEntry is one reference in a listing.
type RefEntry struct {
	Name string // relative to refs/, e.g. "heads/main", "tags/v1"
	Hash object.Hash
}

// ListRefs lists references under .grit/refs whose name starts with prefix
// (empty prefix lists everything), sorted by name.
func (r *Repo) ListRefs(prefix string) ([]RefEntry, error) {
	root := filepath.Join(r.GritDir, "refs")
	dir := root
	if strings.TrimSpace(prefix) != "" {
		dir = filepath.Join(root, filepath.FromSlash(prefix))
	}

	var refs []RefEntry
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(path, ".lock") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		refs = append(refs, RefEntry{
			Name: filepath.ToSlash(rel),
			Hash: object.Hash(strings.TrimSpace(string(data))),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// isNoCommitsErr reports whether a HEAD resolution failure just means the
// repository has no commits yet (HEAD attached to an unborn branch).
func isNoCommitsErr(err error) bool {
	return errors.Is(err, ErrDanglingRef)
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}

func readRefHash(refPath string) (object.Hash, error) {
	data, err := os.ReadFile(refPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}
