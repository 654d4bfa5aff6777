package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var annotate bool
	var message string
	var force bool
	var del bool

	cmd := &cobra.Command{
		Use:   "tag [name] [object]",
		Short: "Create, list, or delete tags",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			// No arguments: list tags.
			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, t := range tags {
					fmt.Fprintf(out, "%s %s\n", t.Hash, t.Name)
				}
				return nil
			}

			name := args[0]
			if del {
				return r.DeleteTag(name)
			}

			targetName := "HEAD"
			if len(args) == 2 {
				targetName = args[1]
			}
			target, err := resolveTarget(r, targetName)
			if err != nil {
				return err
			}

			if annotate {
				_, err = r.CreateAnnotatedTag(name, target, "", message, force)
				return err
			}
			return r.CreateTag(name, target, force)
		},
	}

	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "create an annotated tag object")
	cmd.Flags().StringVarP(&message, "message", "m", "", "annotated tag message")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing tag")
	cmd.Flags().BoolVarP(&del, "delete", "d", false, "delete the named tag")
	return cmd
}
