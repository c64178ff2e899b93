package bindgen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// supportedPlatforms maps GOOS_GOARCH to a human description of the
// targets Chromium ships a cronet_static build for.
var supportedPlatforms = map[string]string{
	"darwin_arm64":  "macOS Apple Silicon",
	"darwin_amd64":  "macOS Intel",
	"linux_arm64":   "Linux ARM64",
	"linux_amd64":   "Linux x86_64",
	"windows_amd64": "Windows x86_64 (MinGW)",
}

// HostPlatform returns the GOOS_GOARCH pair of the running binary.
func HostPlatform() string {
	return fmt.Sprintf("%s_%s", runtime.GOOS, runtime.GOARCH)
}

// SupportedPlatform reports whether platform has a known native build and
// returns its description.
func SupportedPlatform(platform string) (string, bool) {
	desc, ok := supportedPlatforms[platform]
	return desc, ok
}

// SupportedPlatforms returns the known platforms in sorted order.
func SupportedPlatforms() []string {
	out := make([]string, 0, len(supportedPlatforms))
	for p := range supportedPlatforms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ModuleRoot finds the directory holding this module's go.mod. A non-empty
// hint wins; otherwise the go tool is asked, and as a last resort the
// working directory's parents are searched.
func ModuleRoot(ctx context.Context, hint string) (string, error) {
	if hint != "" {
		root, err := filepath.Abs(hint)
		if err != nil {
			return "", wrapError(PhaseLocate, KindInvalid, hint, err, "resolve module root")
		}
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
			return "", wrapError(PhaseLocate, KindNotFound, root, err, "no go.mod in module root")
		}
		return root, nil
	}

	// Run: go list -m -f '{{.Dir}}'
	cmd := exec.CommandContext(ctx, "go", "list", "-m", "-f", "{{.Dir}}")
	if output, err := cmd.Output(); err == nil {
		if dir := strings.TrimSpace(string(output)); dir != "" {
			return dir, nil
		}
	} else {
		Logger().Debug("go list failed, searching parents for go.mod")
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", wrapError(PhaseLocate, KindIO, "", err, "get working directory")
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", newError(PhaseLocate, KindNotFound, "", "go.mod not found above working directory")
		}
		dir = parent
	}
}

// Artifact is the prebuilt static library found on disk.
type Artifact struct {
	Dir  string
	Path string
	Size int64
}

// LocateArtifact checks that the configured artifact directory exists and
// holds the static library.
func (c *Config) LocateArtifact(root string) (*Artifact, error) {
	dir := abs(root, c.ArtifactDir)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, wrapError(PhaseLocate, KindNotFound, dir, err,
			"artifact directory missing; build cronet_static in the sibling chromium checkout first")
	}
	if !info.IsDir() {
		return nil, newError(PhaseLocate, KindInvalid, dir, "artifact path is not a directory")
	}

	path := filepath.Join(dir, c.ArchiveName())
	info, err = os.Stat(path)
	if err != nil {
		return nil, wrapError(PhaseLocate, KindNotFound, path, err, "static library missing")
	}
	if info.IsDir() {
		return nil, newError(PhaseLocate, KindInvalid, path, "static library path is a directory")
	}

	return &Artifact{Dir: dir, Path: path, Size: info.Size()}, nil
}

// CheckIncludeDirs reports the first configured include directory that
// does not exist.
func (c *Config) CheckIncludeDirs(root string) error {
	for _, d := range c.IncludeDirs {
		dir := abs(root, d)
		info, err := os.Stat(dir)
		if err != nil {
			return wrapError(PhaseResolve, KindNotFound, dir, err, "include directory missing")
		}
		if !info.IsDir() {
			return newError(PhaseResolve, KindInvalid, dir, "include path is not a directory")
		}
	}
	return nil
}
