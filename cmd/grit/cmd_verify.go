package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/object"
	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <commit>",
		Short: "Verify a commit's SSH signature",
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

			commit, err := r.Store.ReadCommit(h)
			if err != nil {
				return err
			}
			if commit.Signature == "" {
				return fmt.Errorf("commit %s is not signed", h.Short())
			}

			keyType, err := verifyCommitSignature(commit.Signature, object.CommitSigningPayload(commit))
			if err != nil {
				return fmt.Errorf("commit %s: %w", h.Short(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "good signature on %s (%s)\n", h.Short(), keyType)
			return nil
		},
	}
}
