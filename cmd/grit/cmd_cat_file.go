package main

import (
	"fmt"

	"github.com/grit-vcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Print the content (or type) of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := resolveTarget(r, args[0])
			if err != nil {
				return err
			}

			objType, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showType {
				fmt.Fprintln(out, objType)
				return nil
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "show the object's type instead of its content")
	return cmd
}
