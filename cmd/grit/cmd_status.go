package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			st, err := r.Status(nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			branch, err := r.CurrentBranch()
			if err != nil || branch == "" {
				branch = "HEAD (detached)"
			}
			if _, err := r.ResolveRef("HEAD"); err != nil {
				fmt.Fprintf(out, "on %s (no commits yet)\n", branch)
			} else {
				fmt.Fprintf(out, "on %s\n", branch)
			}

			if len(st.Staged) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "staged:")
				for _, c := range st.Staged {
					fmt.Fprintf(out, "  %s %s\n", changeMarker(c.Kind), c.Path)
				}
			}

			if len(st.Unstaged) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "unstaged:")
				for _, c := range st.Unstaged {
					fmt.Fprintf(out, "  %s %s\n", changeMarker(c.Kind), c.Path)
				}
			}

			if len(st.Untracked) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "untracked:")
				for _, p := range st.Untracked {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}

			return nil
		},
	}
}

func changeMarker(k repo.ChangeKind) string {
	switch k {
	case repo.ChangeAdded:
		return "+"
	case repo.ChangeModified:
		return "~"
	case repo.ChangeRemoved, repo.ChangeDeleted:
		return "-"
	}
	return "?"
}
