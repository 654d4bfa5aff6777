package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grit-vcs/grit/pkg/object"
	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var staged bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show unified diffs (index vs working tree, or HEAD vs index with --staged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			if staged {
				return diffStaged(cmd, r)
			}
			return diffWorktree(cmd, r)
		},
	}

	cmd.Flags().BoolVar(&staged, "staged", false, "compare the index against HEAD instead of the working tree")
	return cmd
}

// diffWorktree prints one unified diff per unstaged-modified or deleted file.
func diffWorktree(cmd *cobra.Command, r *repo.Repo) error {
	st, err := r.Status(nil)
	if err != nil {
		return err
	}

	ix, err := r.ReadIndex()
	if err != nil {
		return err
	}

	for _, c := range st.Unstaged {
		entry, ok := ix.Get(c.Path)
		if !ok {
			continue
		}
		blob, err := r.Store.ReadBlob(entry.ID)
		if err != nil {
			return err
		}

		var work []byte
		if c.Kind != repo.ChangeDeleted {
			work, err = os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(c.Path)))
			if err != nil {
				return err
			}
		}

		if err := printUnified(cmd, c.Path, blob.Data, work); err != nil {
			return err
		}
	}
	return nil
}

// diffStaged prints one unified diff per staged change against HEAD.
func diffStaged(cmd *cobra.Command, r *repo.Repo) error {
	st, err := r.Status(nil)
	if err != nil {
		return err
	}

	ix, err := r.ReadIndex()
	if err != nil {
		return err
	}

	head := make(map[string]object.Hash)
	if headHash, err := r.ResolveRef("HEAD"); err == nil {
		commit, err := r.Store.ReadCommit(headHash)
		if err != nil {
			return err
		}
		files, err := r.FlattenTree(commit.TreeHash)
		if err != nil {
			return err
		}
		for _, f := range files {
			head[f.Path] = f.ID
		}
	}

	for _, c := range st.Staged {
		var oldData, newData []byte
		if h, ok := head[c.Path]; ok {
			blob, err := r.Store.ReadBlob(h)
			if err != nil {
				return err
			}
			oldData = blob.Data
		}
		if entry, ok := ix.Get(c.Path); ok {
			blob, err := r.Store.ReadBlob(entry.ID)
			if err != nil {
				return err
			}
			newData = blob.Data
		}

		if err := printUnified(cmd, c.Path, oldData, newData); err != nil {
			return err
		}
	}
	return nil
}

func printUnified(cmd *cobra.Command, path string, oldData, newData []byte) error {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldData)),
		B:        difflib.SplitLines(string(newData)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return fmt.Errorf("diff %q: %w", path, err)
	}
	if text != "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
	}
	return nil
}
