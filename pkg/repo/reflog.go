package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grit-vcs/grit/pkg/object"
)

const zeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// ErrRefUpdatedButLogAppendFailed marks the partial-failure case where a ref
// file was updated but its log entry could not be written.
var ErrRefUpdatedButLogAppendFailed = errors.New("ref updated but log append failed")

// RefUpdateLogError indicates the ref file update succeeded, but appending
// the corresponding log entry failed.
type RefUpdateLogError struct {
	Ref     string
	OldHash object.Hash
	NewHash object.Hash
	Err     error
}

func (e *RefUpdateLogError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf(
		"update ref %q: %s (old=%s new=%s): %v",
		e.Ref, ErrRefUpdatedButLogAppendFailed, e.OldHash, e.NewHash, e.Err,
	)
}

func (e *RefUpdateLogError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *RefUpdateLogError) Is(target error) bool {
	return target == ErrRefUpdatedButLogAppendFailed
}

// appendRefLog appends "old new timestamp reason" to .grit/logs/<ref>.
// Empty hashes are recorded as the zero hash.
func (r *Repo) appendRefLog(ref string, oldHash, newHash object.Hash, reason string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if strings.TrimSpace(reason) == "" {
		reason = "update"
	}

	logPath := filepath.Join(r.GritDir, "logs", filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("ref log mkdir: %w", err)
	}

	old := string(oldHash)
	if strings.TrimSpace(old) == "" {
		old = zeroHash
	}
	next := string(newHash)
	if strings.TrimSpace(next) == "" {
		next = zeroHash
	}
	line := fmt.Sprintf("%s %s %d %s\n", old, next, time.Now().Unix(), reason)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("ref log open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("ref log write: %w", err)
	}
	return nil
}
