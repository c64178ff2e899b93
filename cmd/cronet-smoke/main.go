// Command cronet-smoke starts a Cronet engine against the linked static
// library and prints its version. It is the quickest way to see that the
// link directives and the native ABI agree.
//
// Build the native library first:
//
//	cd ../chromium && autoninja -C out/Release cronet_static
//
// Then run:
//
//	go run ./cmd/cronet-smoke
//
// QUIC is on by default; pass --quic=false to start the engine without it.
package main

import (
	"fmt"
	"os"
	// the engine is a static C++ library; fail the build without cgo
	_ "runtime/cgo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cronet "github.com/XOR-op/cronet-go"
)

func main() {
	if err := newSmokeCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newSmokeCmd() *cobra.Command {
	var (
		userAgent string
		quic      bool
		netLog    string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:          "cronet-smoke",
		Short:        "Start a Cronet engine and print its version",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
				cronet.SetLogger(logger)
			}

			engine, err := cronet.NewEngine(
				cronet.WithUserAgent(userAgent),
				cronet.WithQuic(quic),
			)
			if err != nil {
				return fmt.Errorf("start engine: %w", err)
			}
			defer engine.Close()

			if netLog != "" {
				if err := engine.StartNetLog(netLog, false); err != nil {
					return err
				}
				defer engine.StopNetLog()
			}

			version, err := engine.Version()
			if err != nil {
				return err
			}
			ua, err := engine.DefaultUserAgent()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cronet version: %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Default user agent: %s\n", ua)
			return nil
		},
	}

	cmd.Flags().StringVar(&userAgent, "user-agent", "CronetSample/1", "User-Agent header for the engine")
	cmd.Flags().BoolVar(&quic, "quic", true, "enable QUIC")
	cmd.Flags().StringVar(&netLog, "netlog", "", "write a NetLog to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log engine lifecycle events")
	return cmd
}
