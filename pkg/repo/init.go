package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grit-vcs/grit/pkg/object"
)

// Init creates a new grit repository at path. It creates the .grit/
// directory structure: HEAD, objects/, refs/heads/, refs/tags/, logs/, and a
// default config. Returns an error if a .grit/ directory already exists.
func Init(path string) (*Repo, error) {
	gritDir := filepath.Join(path, ".grit")

	if _, err := os.Stat(gritDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gritDir)
	}

	dirs := []string{
		filepath.Join(gritDir, "objects"),
		filepath.Join(gritDir, "refs", "heads"),
		filepath.Join(gritDir, "refs", "tags"),
		filepath.Join(gritDir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	r := &Repo{
		RootDir: path,
		GritDir: gritDir,
		Store:   object.NewStore(gritDir),
	}

	cfg := DefaultConfig()
	if err := r.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	// HEAD starts attached to the default branch; the branch ref itself does
	// not exist until the first commit.
	headPath := filepath.Join(gritDir, "HEAD")
	head := "ref: refs/heads/" + cfg.Core.DefaultBranch + "\n"
	if err := os.WriteFile(headPath, []byte(head), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return r, nil
}

// Open searches upward from path for a .grit/ directory and opens the
// repository. Returns an error if no .grit/ directory is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gritDir := filepath.Join(cur, ".grit")
		info, err := os.Stat(gritDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				GritDir: gritDir,
				Store:   object.NewStore(gritDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a grit repository (or any parent up to /)")
		}
		cur = parent
	}
}
