package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/XOR-op/cronet-go/internal/bindgen"
)

var (
	// Shared state set during PersistentPreRun
	logger    *zap.Logger
	cfg       *bindgen.Config
	generator *bindgen.Generator
)

type rootFlags struct {
	config     string
	root       string
	translator string
	verbose    bool
}

// newRootCmd builds the command tree. Every call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "cronet-bindgen",
		Short: "Generate cgo bindings for the prebuilt Cronet static library",
		Long: `cronet-bindgen locates libcronet_static.a in the sibling Chromium release
build, emits the linker directives the target platform needs, and renders
Go declarations for every function and type reachable from
include/cronet_wrapper.h.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if logger, err = newLogger(flags.verbose); err != nil {
				return err
			}
			bindgen.SetLogger(logger)

			dir, err := bindgen.ModuleRoot(cmd.Context(), flags.root)
			if err != nil {
				return err
			}
			path := flags.config
			if path == "" {
				path = filepath.Join(dir, bindgen.DefaultConfigFile)
			}
			if cfg, err = bindgen.LoadConfig(path); err != nil {
				return err
			}

			// Override config with flags
			if flags.translator != "" {
				cfg.Translator = flags.translator
			}
			generator, err = bindgen.New(cfg, dir, bindgen.WithLogger(logger))
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default is bindgen.yaml in the module root)")
	root.PersistentFlags().StringVar(&flags.root, "root", "", "module root (default is found with go list)")
	root.PersistentFlags().StringVar(&flags.translator, "translator", "", "header translator: builtin or clang (default from config)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every pipeline stage")

	root.AddCommand(
		newGenerateCmd(),
		newCheckCmd(),
		newLinkCmd(),
		newHeadersCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)
	return root
}

// newLogger builds a console logger on stderr. Debug output is enabled by
// --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.DisableStacktrace = true
	zc.DisableCaller = true
	zc.EncoderConfig.TimeKey = ""
	zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		zc.Level.SetLevel(zapcore.DebugLevel)
	}
	return zc.Build()
}
