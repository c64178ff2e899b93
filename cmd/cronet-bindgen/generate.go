package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the link preamble and the declaration file",
		Long: `generate runs the whole pipeline and writes every configured output.
The declaration file is left alone when the recorded header sums still
match, unless --force is given. Nothing is written if any stage fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := generator.Generate(cmd.Context(), force)
			if err != nil {
				return err
			}
			logger.Info("generation finished",
				zap.String("library", report.Artifact.Path),
				zap.Int("headers", len(report.Headers.Headers)),
				zap.Int("symbols", report.Symbols),
				zap.Strings("written", report.Written),
				zap.Strings("unchanged", report.Unchanged))

			for _, f := range report.Written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
			}
			for _, f := range report.Unchanged {
				fmt.Fprintf(cmd.OutOrStdout(), "unchanged %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "regenerate even if the headers did not change")
	return cmd
}
