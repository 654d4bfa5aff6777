package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var del bool

	cmd := &cobra.Command{
		Use:   "branch [name] [start-point]",
		Short: "Create, list, or delete branches",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if len(args) == 0 {
				branches, err := r.ListBranches()
				if err != nil {
					return err
				}
				current, _ := r.CurrentBranch()

				out := cmd.OutOrStdout()
				for _, b := range branches {
					marker := " "
					if b == current {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\n", marker, b)
				}
				return nil
			}

			name := args[0]
			if del {
				return r.DeleteBranch(name)
			}

			startName := "HEAD"
			if len(args) == 2 {
				startName = args[1]
			}
			start, err := resolveCommitish(r, startName)
			if err != nil {
				return err
			}
			return r.CreateBranch(name, start)
		},
	}

	cmd.Flags().BoolVarP(&del, "delete", "d", false, "delete the named branch")
	return cmd
}
