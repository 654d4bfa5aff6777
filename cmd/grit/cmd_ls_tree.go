package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/object"
	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree-ish>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := resolveCommitish(r, args[0])
			if err != nil {
				return err
			}

			// Accept a commit and peel to its tree.
			objType, _, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if objType == object.TypeCommit {
				commit, err := r.Store.ReadCommit(h)
				if err != nil {
					return err
				}
				h = commit.TreeHash
			}

			entries, err := r.LsTree(h, recursive)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s %s %s\t%s\n", e.Mode, e.Type, e.ID, e.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into sub-trees")
	return cmd
}
