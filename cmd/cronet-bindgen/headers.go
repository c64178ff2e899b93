package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHeadersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "headers",
		Short: "List the headers reachable from the entry header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := cfg.ResolveHeaders(generator.Root())
			if err != nil {
				return err
			}
			for _, h := range set.Headers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", h.Sum[:12], h.Rel)
			}
			return nil
		},
	}
}
