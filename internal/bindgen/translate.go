package bindgen

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Translator turns a resolved header set into per-header source units the
// scanner can read.
type Translator interface {
	Translate(ctx context.Context, set *HeaderSet) ([]Unit, error)
}

// NewTranslator returns the translator selected by the configuration.
func (c *Config) NewTranslator(root string) Translator {
	if c.Translator == TranslatorClang {
		return &ClangTranslator{Config: c, Root: root}
	}
	return BuiltinTranslator{}
}

// BuiltinTranslator hands the raw header text to the scanner. Macros other
// than integer #defines and the configured export macros are not expanded.
type BuiltinTranslator struct{}

// Translate implements Translator.
func (BuiltinTranslator) Translate(_ context.Context, set *HeaderSet) ([]Unit, error) {
	units := make([]Unit, len(set.Headers))
	for i, h := range set.Headers {
		units[i] = Unit{Header: h.Rel, Source: h.Data}
	}
	return units, nil
}

// ClangTranslator runs the configured clang as a preprocessor in C++ mode
// and keeps only the lines that come from headers of the set, so system
// headers contribute no declarations.
type ClangTranslator struct {
	Config *Config
	Root   string
}

// lineMarkerRe matches preprocessor line markers: # 12 "path" 1 3
var lineMarkerRe = regexp.MustCompile(`^#\s*(?:line\s+)?(\d+)\s+"((?:[^"\\]|\\.)*)"`)

// Args returns the clang command line used for set.
func (t *ClangTranslator) Args(set *HeaderSet) []string {
	args := []string{"-E", "-dD"}
	args = append(args, t.Config.ClangArgs...)
	for _, d := range t.Config.IncludeDirs {
		args = append(args, "-I"+abs(t.Root, d))
	}
	return append(args, abs(t.Root, set.Entry))
}

// Translate implements Translator.
func (t *ClangTranslator) Translate(ctx context.Context, set *HeaderSet) ([]Unit, error) {
	bin := t.Config.Clang
	if bin == "" {
		bin = "clang"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, wrapError(PhaseParse, KindExec, bin, err, "clang translator selected but compiler not found")
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, t.Args(set)...)
	cmd.Dir = t.Root
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, wrapError(PhaseParse, KindExec, set.Entry, err, strings.TrimSpace(stderr.String()))
	}

	Logger().Debug("preprocessed entry header")
	return splitPreprocessed(out, t.Root, set)
}

// maxPreprocessedLine bounds a single line of clang -E output.
var maxPreprocessedLine = 16 * 1024 * 1024

// splitPreprocessed attributes preprocessed output to the headers of set
// using line markers. Output from other files is dropped.
func splitPreprocessed(out []byte, root string, set *HeaderSet) ([]Unit, error) {
	byPath := make(map[string]int, len(set.Headers))
	for i, h := range set.Headers {
		byPath[filepath.Clean(h.Path)] = i
	}

	bufs := make([]bytes.Buffer, len(set.Headers))
	cur := -1
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), maxPreprocessedLine)
	for sc.Scan() {
		line := sc.Text()
		if m := lineMarkerRe.FindStringSubmatch(line); m != nil {
			p := m[2]
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			idx, ok := byPath[filepath.Clean(p)]
			if !ok {
				idx = -1
			}
			cur = idx
			continue
		}
		if cur >= 0 {
			bufs[cur].WriteString(line)
			bufs[cur].WriteByte('\n')
		}
	}
	if err := sc.Err(); err != nil {
		return nil, wrapError(PhaseParse, KindIO, set.Entry, err, "read preprocessed output")
	}

	units := make([]Unit, len(set.Headers))
	for i, h := range set.Headers {
		units[i] = Unit{Header: h.Rel, Source: bufs[i].Bytes()}
	}
	return units, nil
}
