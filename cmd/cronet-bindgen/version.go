package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/XOR-op/cronet-go/internal/bindgen"
)

// version is set at build time via -ldflags "-X main.version=x.y.z"
var version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show cronet-bindgen and toolchain versions",
		Args:  cobra.NoArgs,
		// version needs neither a module nor a config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cronet-bindgen version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", runtime.Version(), bindgen.HostPlatform())
			return nil
		},
	}
}
