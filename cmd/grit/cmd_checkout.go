package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <commit-or-tree> <dir>",
		Short: "Materialize a commit's tree into a directory",
		Long: "Checkout writes the files of a commit (or tree) into the given " +
			"directory, overwriting existing files. It does not move HEAD and " +
			"does not touch the staging index.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			target, err := resolveTarget(r, args[0])
			if err != nil {
				return err
			}

			if err := r.Checkout(target, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked out %s into %s\n", target.Short(), args[1])
			return nil
		},
	}
}
