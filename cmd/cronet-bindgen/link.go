package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/XOR-op/cronet-go/internal/bindgen"
)

func newLinkCmd() *cobra.Command {
	var goos, goarch string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print the linker directives for a target OS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			artifact, err := cfg.LocateArtifact(generator.Root())
			if err != nil {
				return err
			}
			if err := checkTarget(goos, goarch); err != nil {
				logger.Warn("no known cronet_static build for target", zap.Error(err))
			}
			for _, d := range cfg.Directives(goos, artifact.Dir) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", d.Kind, d.Flags())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&goos, "goos", runtime.GOOS, "target operating system")
	cmd.Flags().StringVar(&goarch, "goarch", runtime.GOARCH, "target architecture")
	return cmd
}

// checkTarget reports whether goos/goarch has a known prebuilt library.
func checkTarget(goos, goarch string) error {
	target := goos + "_" + goarch
	if _, ok := bindgen.SupportedPlatform(target); !ok {
		return fmt.Errorf("%s is not one of %s", target, strings.Join(bindgen.SupportedPlatforms(), ", "))
	}
	return nil
}
