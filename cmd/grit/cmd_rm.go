package main

import (
	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "rm <files...>",
		Short: "Unstage files and remove them from the working tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.Rm(args, cached)
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "only remove from the index, keep working tree files")
	return cmd
}
