package bindgen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// fixtureRoot copies testdata into a temporary directory and returns the
// module root inside it. The chromium checkout sits next to the module,
// matching DefaultConfig.
func fixtureRoot(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	err := filepath.WalkDir("testdata", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("testdata", path)
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
	return filepath.Join(tmp, "module")
}

// chromiumPath returns a file inside the fixture's chromium checkout.
func chromiumPath(root string, elem ...string) string {
	return filepath.Join(append([]string{root, "..", "chromium"}, elem...)...)
}

func appendFile(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}

func assertErrorClass(t *testing.T, err error, phase Phase, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s/%s error, got nil", phase, kind)
	}
	if !errors.Is(err, &Error{Phase: phase, Kind: kind}) {
		t.Fatalf("expected %s/%s error, got %v", phase, kind, err)
	}
}

func TestErrorFormat(t *testing.T) {
	err := wrapError(PhaseResolve, KindNotFound, "include/a.h", errors.New("boom"), "read header")
	err.Line = 12

	want := "bindgen: [resolve] not_found at include/a.h:12: read header (caused by: boom)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(err).Error() != "boom" {
		t.Errorf("Unwrap did not return the cause")
	}
	if errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindIO}) {
		t.Errorf("errors.Is matched a different kind")
	}
}
