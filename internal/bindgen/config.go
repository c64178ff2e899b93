package bindgen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up in the module root.
const DefaultConfigFile = "bindgen.yaml"

// Translator names accepted in Config.Translator.
const (
	TranslatorBuiltin = "builtin"
	TranslatorClang   = "clang"
)

// Platform lists the extra link inputs a target GOOS needs on top of the
// prebuilt library.
type Platform struct {
	SystemLibs []string `yaml:"system_libs"`
	Frameworks []string `yaml:"frameworks"`
}

// Output is one package that receives generated code.
type Output struct {
	// Dir is the package directory relative to the module root.
	Dir string `yaml:"dir"`
	// Package is the Go package name written into the file.
	Package string `yaml:"package"`
	// File is the generated file name inside Dir.
	File string `yaml:"file"`
	// Declarations selects whether the file carries the translated header
	// declarations or only the link preamble.
	Declarations bool `yaml:"declarations"`
}

// Config describes where the prebuilt native library and its headers live
// and what gets generated from them. Relative paths are resolved against
// the module root.
type Config struct {
	ArtifactDir  string              `yaml:"artifact_dir"`
	Library      string              `yaml:"library"`
	EntryHeader  string              `yaml:"entry_header"`
	IncludeDirs  []string            `yaml:"include_dirs"`
	ClangArgs    []string            `yaml:"clang_args"`
	Clang        string              `yaml:"clang"`
	Translator   string              `yaml:"translator"`
	ExportMacros []string            `yaml:"export_macros"`
	ExtraLDFlags []string            `yaml:"extra_ldflags"`
	Platforms    map[string]Platform `yaml:"platforms"`
	Outputs      []Output            `yaml:"outputs"`
}

// DefaultConfig returns the layout of a Chromium release build checked out
// next to this module.
func DefaultConfig() *Config {
	return &Config{
		ArtifactDir: "../chromium/out/Release/obj/components/cronet",
		Library:     "cronet_static",
		EntryHeader: "include/cronet_wrapper.h",
		IncludeDirs: []string{
			"include",
			"../chromium/components/cronet/native/include",
			"../chromium/components/cronet/native/generated",
			"../chromium/components/grpc_support/include",
		},
		ClangArgs:    []string{"-x", "c++", "-std=c++11", "-stdlib=libc++"},
		Clang:        "clang",
		Translator:   TranslatorBuiltin,
		ExportMacros: []string{"CRONET_EXPORT", "GRPC_SUPPORT_EXPORT"},
		Platforms: map[string]Platform{
			"darwin": {
				SystemLibs: []string{"objc"},
				Frameworks: []string{
					"CoreFoundation",
					"CFNetwork",
					"AppKit",
					"Security",
					"SystemConfiguration",
				},
			},
		},
		Outputs: []Output{
			{Dir: "internal/ffi", Package: "ffi", File: "zlink_generated.go"},
			{Dir: "capi", Package: "capi", File: "zcapi_generated.go", Declarations: true},
		},
	}
}

// LoadConfig reads the configuration from the given YAML file path.
// If the file does not exist, it returns DefaultConfig with no error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, wrapError(PhaseConfig, KindIO, path, err, "read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, wrapError(PhaseConfig, KindSyntax, path, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the pipeline relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Library) == "":
		return newError(PhaseConfig, KindInvalid, "", "library name is empty")
	case strings.HasPrefix(c.Library, "lib") || strings.HasSuffix(c.Library, ".a"):
		return newError(PhaseConfig, KindInvalid, "", "library %q must be given without lib prefix or .a suffix", c.Library)
	case c.ArtifactDir == "":
		return newError(PhaseConfig, KindInvalid, "", "artifact_dir is empty")
	case c.EntryHeader == "":
		return newError(PhaseConfig, KindInvalid, "", "entry_header is empty")
	case len(c.IncludeDirs) != 4:
		return newError(PhaseConfig, KindInvalid, "", "expected 4 include_dirs, got %d", len(c.IncludeDirs))
	case len(c.Outputs) == 0:
		return newError(PhaseConfig, KindInvalid, "", "no outputs configured")
	}

	switch c.Translator {
	case TranslatorBuiltin, TranslatorClang:
	default:
		return newError(PhaseConfig, KindInvalid, "", "unknown translator %q", c.Translator)
	}

	seen := make(map[string]bool, len(c.Outputs))
	for _, out := range c.Outputs {
		if out.Dir == "" || out.Package == "" || out.File == "" {
			return newError(PhaseConfig, KindInvalid, out.Dir, "output needs dir, package and file")
		}
		if !strings.HasSuffix(out.File, ".go") {
			return newError(PhaseConfig, KindInvalid, out.Dir, "output file %q is not a .go file", out.File)
		}
		key := filepath.ToSlash(filepath.Join(out.Dir, out.File))
		if seen[key] {
			return newError(PhaseConfig, KindInvalid, key, "output listed twice")
		}
		seen[key] = true
	}
	return nil
}

// ArchiveName returns the file name of the static library on disk.
func (c *Config) ArchiveName() string {
	return "lib" + c.Library + ".a"
}

// abs resolves p against root unless it is already absolute.
func abs(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
