package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsFilesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ls-files",
		Short: "List the paths in the staging index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			ix, err := r.ReadIndex()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range ix.Entries() {
				if verbose {
					fmt.Fprintf(out, "%06o %s %s\n", e.Mode, e.ID, e.Path)
				} else {
					fmt.Fprintln(out, e.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show mode and object ID for each entry")
	return cmd
}
