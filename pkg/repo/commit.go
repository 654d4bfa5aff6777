package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grit-vcs/grit/pkg/object"
)

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be persisted in CommitObj.Signature.
type CommitSigner func(payload []byte) (string, error)

// Commit creates a new commit from the current index.
//
//  1. Read the index (empty index is an error, nothing to commit)
//  2. BuildTree from the index
//  3. Resolve HEAD to get the parent commit hash (none for the first commit)
//  4. Create a CommitObj with tree, parent, identity, timestamp, message
//  5. Write the commit to the store
//  6. Advance the current branch ref (or detached HEAD) to the new hash
func (r *Repo) Commit(message, author string) (object.Hash, error) {
	return r.CommitWithSigner(message, author, nil)
}

// CommitWithSigner creates a new commit and signs it when signer is provided.
// An empty author falls back to the configured identity.
func (r *Repo) CommitWithSigner(message, author string, signer CommitSigner) (object.Hash, error) {
	ix, err := r.ReadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if ix.Len() == 0 {
		return "", fmt.Errorf("commit: nothing staged")
	}

	treeHash, err := r.BuildTree(ix)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	if strings.TrimSpace(author) == "" {
		cfg, err := r.ReadConfig()
		if err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
		author = cfg.Identity()
	}

	var parents []object.Hash
	parentHash, err := r.ResolveRef("HEAD")
	switch {
	case err == nil && parentHash != "":
		parents = append(parents, parentHash)
	case err != nil && !isNoCommitsErr(err):
		return "", fmt.Errorf("commit: resolve HEAD: %w", err)
	}

	now := time.Now().Unix()
	commitObj := &object.CommitObj{
		TreeHash:           treeHash,
		Parents:            parents,
		Author:             author,
		Timestamp:          now,
		Committer:          author,
		CommitterTimestamp: now,
		Message:            message,
	}
	if signer != nil {
		signature, err := signer(object.CommitSigningPayload(commitObj))
		if err != nil {
			return "", fmt.Errorf("commit: sign commit: %w", err)
		}
		commitObj.Signature = signature
	}

	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	// HEAD is symbolic for an attached branch, so this advances the branch;
	// for a detached HEAD it rewrites HEAD itself.
	if err := r.UpdateRef("HEAD", commitHash); err != nil {
		var logErr *RefUpdateLogError
		if !errors.As(err, &logErr) {
			return "", fmt.Errorf("commit: %w", err)
		}
		// Ref advanced; a failed log append does not lose the commit.
	}

	return commitHash, nil
}

// LogEntry pairs a commit with its hash during history walks.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// LogWalker lazily walks commit history first-parent, newest first. It is
// finite (stops at the root commit) and not restartable; create a new
// walker to traverse again.
type LogWalker struct {
	r    *Repo
	next object.Hash
	done bool
}

// NewLogWalker starts a walk at the given commit hash.
func (r *Repo) NewLogWalker(start object.Hash) *LogWalker {
	return &LogWalker{r: r, next: start, done: start == ""}
}

// Next returns the next commit in the walk, or (nil, nil) when exhausted.
func (w *LogWalker) Next() (*LogEntry, error) {
	if w.done {
		return nil, nil
	}

	c, err := w.r.Store.ReadCommit(w.next)
	if err != nil {
		w.done = true
		return nil, fmt.Errorf("log: read commit %s: %w", w.next, err)
	}

	entry := &LogEntry{Hash: w.next, Commit: c}
	if len(c.Parents) == 0 {
		w.done = true
	} else {
		w.next = c.Parents[0]
	}
	return entry, nil
}

// Log collects up to limit commits starting at start, following first-parent
// links. A limit <= 0 means no bound.
func (r *Repo) Log(start object.Hash, limit int) ([]*LogEntry, error) {
	var entries []*LogEntry
	w := r.NewLogWalker(start)
	for limit <= 0 || len(entries) < limit {
		e, err := w.Next()
		if err != nil {
			return nil, err
		}
		if e == nil {
			break
		}
		entries = append(entries, e)
	}
	return entries, nil
}
