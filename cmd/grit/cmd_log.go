package main

import (
	"fmt"
	"time"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log [commit]",
		Short: "Show commit history (first-parent, newest first)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			start := "HEAD"
			if len(args) == 1 {
				start = args[0]
			}
			startHash, err := resolveCommitish(r, start)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := r.NewLogWalker(startHash)
			for n := 0; limit <= 0 || n < limit; n++ {
				e, err := w.Next()
				if err != nil {
					return err
				}
				if e == nil {
					break
				}

				when := time.Unix(e.Commit.Timestamp, 0).UTC().Format(time.RFC1123)
				fmt.Fprintf(out, "commit %s\n", e.Hash)
				fmt.Fprintf(out, "author %s\n", e.Commit.Author)
				fmt.Fprintf(out, "date   %s\n", when)
				fmt.Fprintf(out, "\n    %s\n\n", e.Commit.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many commits (0 = all)")
	return cmd
}
