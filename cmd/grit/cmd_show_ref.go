package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowRefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-ref",
		Short: "List references and the hashes they point at",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			refs, err := r.ListRefs("")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range refs {
				fmt.Fprintf(out, "%s refs/%s\n", ref.Hash, ref.Name)
			}
			return nil
		},
	}
}
