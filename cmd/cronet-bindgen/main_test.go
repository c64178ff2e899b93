package main

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/XOR-op/cronet-go/internal/bindgen"
)

const fixtureDir = "../../internal/bindgen/testdata"

// fixtureModule copies the bindgen fixture into a temporary directory and
// turns its module directory into a Go module.
func fixtureModule(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	err := filepath.WalkDir(fixtureDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(fixtureDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(tmp, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
	if err != nil {
		t.Fatalf("copy fixture: %v", err)
	}
	root := filepath.Join(tmp, "module")
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/fixture\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func executeCommand(root string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd := newRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "cronet-bindgen version "+version) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestGenerateAndCheck(t *testing.T) {
	root := fixtureModule(t)

	if _, err := executeCommand(root, "check"); !errors.Is(err, bindgen.ErrStale) {
		t.Fatalf("check before generate: %v, want ErrStale", err)
	}

	out, err := executeCommand(root, "generate")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, f := range []string{"wrote internal/ffi/zlink_generated.go", "wrote capi/zcapi_generated.go"} {
		if !strings.Contains(out, f) {
			t.Errorf("generate output missing %q:\n%s", f, out)
		}
	}

	out, err = executeCommand(root, "check")
	if err != nil {
		t.Fatalf("check after generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("unexpected check output: %s", out)
	}

	out, err = executeCommand(root, "generate")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if strings.Contains(out, "wrote") {
		t.Errorf("second generate rewrote files:\n%s", out)
	}

	header := filepath.Join(root, "include", "cronet_wrapper.h")
	f, err := os.OpenFile(header, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("\n#define CRONET_GO_WRAPPER_REVISION 2\n")
	f.Close()

	out, err = executeCommand(root, "check")
	if !errors.Is(err, bindgen.ErrStale) {
		t.Fatalf("check after header edit: %v, want ErrStale", err)
	}
	if !strings.Contains(out, "capi/zcapi_generated.go: headers changed") || !strings.Contains(out, "modified include/cronet_wrapper.h") {
		t.Errorf("unexpected check output:\n%s", out)
	}
}

func TestGenerateMissingLibrary(t *testing.T) {
	root := fixtureModule(t)
	lib := filepath.Join(root, "..", "chromium", "out", "Release", "obj", "components", "cronet", "libcronet_static.a")
	if err := os.Remove(lib); err != nil {
		t.Fatal(err)
	}

	_, err := executeCommand(root, "generate")
	if !errors.Is(err, &bindgen.Error{Phase: bindgen.PhaseLocate, Kind: bindgen.KindNotFound}) {
		t.Fatalf("generate error = %v, want locate/not_found", err)
	}
	if _, err := os.Stat(filepath.Join(root, "capi")); !os.IsNotExist(err) {
		t.Errorf("capi written despite failure: %v", err)
	}
}

func TestLinkCommand(t *testing.T) {
	root := fixtureModule(t)

	out, err := executeCommand(root, "link", "--goos", "darwin")
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("darwin directives = %d, want 8:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[1], "-lcronet_static") || !strings.HasSuffix(lines[2], "-lobjc") {
		t.Errorf("unexpected directive order:\n%s", out)
	}
	if !strings.Contains(out, "-framework SystemConfiguration") {
		t.Errorf("missing framework:\n%s", out)
	}

	out, err = executeCommand(root, "link", "--goos", "linux")
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if n := len(strings.Split(strings.TrimSpace(out), "\n")); n != 2 {
		t.Errorf("linux directives = %d, want 2:\n%s", n, out)
	}
}

func TestLinkCommandTargetArch(t *testing.T) {
	root := fixtureModule(t)

	out, err := executeCommand(root, "link", "--goos", "darwin", "--goarch", "arm64")
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if !strings.Contains(out, "-framework CFNetwork") {
		t.Errorf("missing darwin framework:\n%s", out)
	}

	if _, err := executeCommand(root, "link", "--goos", "linux", "--goarch", "riscv64"); err != nil {
		t.Errorf("unsupported target should only warn: %v", err)
	}
}

func TestCheckTarget(t *testing.T) {
	for _, tt := range []struct {
		goos, goarch string
		ok           bool
	}{
		{"darwin", "arm64", true},
		{"darwin", "amd64", true},
		{"linux", "amd64", true},
		{"windows", "amd64", true},
		{"windows", "arm64", false},
		{"linux", "386", false},
		{"plan9", "amd64", false},
	} {
		err := checkTarget(tt.goos, tt.goarch)
		if (err == nil) != tt.ok {
			t.Errorf("checkTarget(%s, %s) = %v, want ok=%v", tt.goos, tt.goarch, err, tt.ok)
		}
	}
}

func TestHeadersCommand(t *testing.T) {
	root := fixtureModule(t)

	out, err := executeCommand(root, "headers")
	if err != nil {
		t.Fatalf("headers failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("headers = %d, want 5:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[0], "include/cronet_wrapper.h") {
		t.Errorf("entry header not first:\n%s", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	root := fixtureModule(t)

	out, _ := executeCommand(root, "doctor")
	for _, want := range []string{"static library", "include dirs", "headers", "clang"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "run go generate ./capi") {
		t.Errorf("doctor did not report missing generated files:\n%s", out)
	}

	if err := os.RemoveAll(filepath.Join(root, "..", "chromium", "out")); err != nil {
		t.Fatal(err)
	}
	out, err := executeCommand(root, "doctor")
	if !errors.Is(err, errDoctor) {
		t.Fatalf("doctor error = %v, want errDoctor", err)
	}
	if !strings.Contains(out, "fix the failures above first") {
		t.Errorf("generated files check not skipped:\n%s", out)
	}
}

func TestTranslatorFlag(t *testing.T) {
	root := fixtureModule(t)

	_, err := executeCommand(root, "--translator", "gcc", "headers")
	if !errors.Is(err, &bindgen.Error{Phase: bindgen.PhaseConfig, Kind: bindgen.KindInvalid}) {
		t.Fatalf("error = %v, want config/invalid", err)
	}
	if _, err := executeCommand(root, "--translator", "builtin", "headers"); err != nil {
		t.Fatalf("builtin translator rejected: %v", err)
	}
}
