package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail if a generated file is missing or out of date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stale, err := generator.Check(cmd.Context())
			out := cmd.OutOrStdout()
			for _, s := range stale {
				fmt.Fprintf(out, "%s: %s\n", s.File, s.Reason)
				for _, c := range s.Changes {
					fmt.Fprintf(out, "\t%s %s\n", c.Status, c.Path)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "generated files are up to date")
			return nil
		},
	}
}
