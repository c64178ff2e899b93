package bindgen

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ConfigInput is the manifest entry fingerprinting everything besides the
// headers that shapes a declaration file: link preamble, package name,
// translator settings and output format.
const ConfigInput = "(config)"

// declFormat is bumped whenever the rendering of declarations changes, so
// files written by an older generator are not skipped.
const declFormat = 2

// Generator runs the build configuration pipeline for one module:
// locate the prebuilt library, resolve headers, translate and scan them,
// and render the configured outputs.
type Generator struct {
	cfg        *Config
	root       string
	translator Translator
	log        *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTranslator overrides the translator selected by the configuration.
func WithTranslator(t Translator) Option {
	return func(g *Generator) {
		g.translator = t
	}
}

// WithLogger sets the logger. Default is the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// New validates cfg and returns a Generator for the module at root.
func New(cfg *Config, root string, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, wrapError(PhaseLocate, KindInvalid, root, err, "resolve module root")
	}

	g := &Generator{cfg: cfg, root: absRoot, log: Logger()}
	for _, opt := range opts {
		opt(g)
	}
	if g.translator == nil {
		g.translator = cfg.NewTranslator(absRoot)
	}
	return g, nil
}

// Root returns the absolute module root.
func (g *Generator) Root() string {
	return g.root
}

// File is one rendered output.
type File struct {
	Output  Output
	Path    string
	Rel     string
	Content []byte
	// Inputs is the header manifest embedded in Content; empty for link
	// files.
	Inputs []Input
}

// Plan is everything the pipeline computed before touching the disk.
type Plan struct {
	Artifact *Artifact
	Headers  *HeaderSet
	Decls    *DeclSet
	Files    []File
}

// Plan runs the whole pipeline without writing anything.
func (g *Generator) Plan(ctx context.Context) (*Plan, error) {
	artifact, headers, err := g.prepare()
	if err != nil {
		return nil, err
	}
	plan := &Plan{Artifact: artifact, Headers: headers}

	for _, out := range g.cfg.Outputs {
		if !out.Declarations {
			f, err := g.renderLink(out)
			if err != nil {
				return nil, err
			}
			plan.Files = append(plan.Files, *f)
			continue
		}
		if plan.Decls == nil {
			if plan.Decls, err = g.scan(ctx, headers); err != nil {
				return nil, err
			}
		}
		preamble, err := g.cfg.Preamble(g.root, out.Dir)
		if err != nil {
			return nil, err
		}
		f, err := g.renderDecls(out, preamble, g.declInputs(out, headers, preamble), headers, plan.Decls)
		if err != nil {
			return nil, err
		}
		plan.Files = append(plan.Files, *f)
	}
	return plan, nil
}

func (g *Generator) prepare() (*Artifact, *HeaderSet, error) {
	artifact, err := g.cfg.LocateArtifact(g.root)
	if err != nil {
		return nil, nil, err
	}
	g.log.Debug("located prebuilt library",
		zap.String("path", artifact.Path),
		zap.Int64("bytes", artifact.Size))

	headers, err := g.cfg.ResolveHeaders(g.root)
	if err != nil {
		return nil, nil, err
	}
	g.log.Debug("resolved header set",
		zap.String("entry", headers.Entry),
		zap.Int("headers", len(headers.Headers)))
	return artifact, headers, nil
}

// scan translates and parses the header set.
func (g *Generator) scan(ctx context.Context, headers *HeaderSet) (*DeclSet, error) {
	units, err := g.translator.Translate(ctx, headers)
	if err != nil {
		return nil, err
	}

	perHeader := make([][]*Decl, 0, len(units))
	for _, u := range units {
		decls, err := ParseUnit(u, g.cfg.ExportMacros)
		if err != nil {
			return nil, err
		}
		g.log.Debug("scanned header", zap.String("header", u.Header), zap.Int("decls", len(decls)))
		perHeader = append(perHeader, decls)
	}

	set, err := Collect(perHeader)
	if err != nil {
		return nil, err
	}
	if len(set.Decls) == 0 {
		return nil, newError(PhaseParse, KindInvalid, headers.Entry, "header set declares nothing")
	}
	return set, nil
}

func (g *Generator) outputPath(out Output) (string, string) {
	path := abs(g.root, filepath.Join(out.Dir, out.File))
	return path, relTo(g.root, path)
}

func (g *Generator) renderLink(out Output) (*File, error) {
	content, err := g.cfg.RenderLinkFile(g.root, out)
	if err != nil {
		return nil, err
	}
	path, rel := g.outputPath(out)
	return &File{Output: out, Path: path, Rel: rel, Content: content}, nil
}

// declInputs returns the manifest of a declaration output: every header
// of the set followed by the ConfigInput fingerprint.
func (g *Generator) declInputs(out Output, headers *HeaderSet, preamble string) []Input {
	h := sha256.New()
	fmt.Fprintf(h, "format=%d\x00package=%s\x00translator=%s\x00exports=%s\x00",
		declFormat, out.Package, g.cfg.Translator, strings.Join(g.cfg.ExportMacros, ","))
	if g.cfg.Translator == TranslatorClang {
		fmt.Fprintf(h, "clang=%s %s\x00", g.cfg.Clang, strings.Join(g.cfg.ClangArgs, " "))
	}
	h.Write([]byte(preamble))
	return append(headers.Inputs(), Input{Path: ConfigInput, Sum: hex.EncodeToString(h.Sum(nil))})
}

func (g *Generator) renderDecls(out Output, preamble string, inputs []Input, headers *HeaderSet, set *DeclSet) (*File, error) {
	content, err := RenderDeclarations(out.Package, headers.Entry, preamble, inputs, set)
	if err != nil {
		return nil, err
	}
	path, rel := g.outputPath(out)
	return &File{Output: out, Path: path, Rel: rel, Content: content, Inputs: inputs}, nil
}

// Report summarizes a Generate run.
type Report struct {
	Artifact  *Artifact
	Headers   *HeaderSet
	Symbols   int
	Written   []string
	Unchanged []string
}

// Generate writes every configured output. Declaration outputs whose
// recorded manifest still matches, headers and configuration alike, are
// left alone unless force is set; link outputs are rewritten only when
// their content differs. Nothing is written if any stage fails, and all
// outputs are staged before the first one is replaced.
func (g *Generator) Generate(ctx context.Context, force bool) (*Report, error) {
	artifact, headers, err := g.prepare()
	if err != nil {
		return nil, err
	}
	report := &Report{Artifact: artifact, Headers: headers}

	var files []File
	var set *DeclSet
	for _, out := range g.cfg.Outputs {
		if !out.Declarations {
			f, err := g.renderLink(out)
			if err != nil {
				return nil, err
			}
			files = append(files, *f)
			continue
		}

		preamble, err := g.cfg.Preamble(g.root, out.Dir)
		if err != nil {
			return nil, err
		}
		inputs := g.declInputs(out, headers, preamble)

		path, rel := g.outputPath(out)
		if !force {
			recorded, err := ReadInputs(path)
			if err != nil {
				return nil, err
			}
			if recorded != nil && len(DiffInputs(recorded, inputs)) == 0 {
				g.log.Debug("inputs unchanged, skipping", zap.String("file", rel))
				report.Unchanged = append(report.Unchanged, rel)
				continue
			}
		}

		if set == nil {
			if set, err = g.scan(ctx, headers); err != nil {
				return nil, err
			}
			report.Symbols = len(set.Symbols())
		}
		f, err := g.renderDecls(out, preamble, inputs, headers, set)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}

	written, unchanged, err := writeAll(files)
	if err != nil {
		return nil, err
	}
	for _, f := range written {
		g.log.Info("wrote generated file", zap.String("file", f.Rel), zap.Int("bytes", len(f.Content)))
		report.Written = append(report.Written, f.Rel)
	}
	report.Unchanged = append(report.Unchanged, unchanged...)
	return report, nil
}

// Stale describes a generated file that does not match a fresh render.
type Stale struct {
	File    string
	Reason  string
	Changes []Change
}

// Check renders every output and compares it with the file on disk. It
// returns the stale files and an error wrapping ErrStale when there are any.
func (g *Generator) Check(ctx context.Context) ([]Stale, error) {
	plan, err := g.Plan(ctx)
	if err != nil {
		return nil, err
	}

	var stale []Stale
	for _, f := range plan.Files {
		current, err := os.ReadFile(f.Path)
		switch {
		case os.IsNotExist(err):
			stale = append(stale, Stale{File: f.Rel, Reason: "missing"})
			continue
		case err != nil:
			return nil, wrapError(PhaseWrite, KindIO, f.Path, err, "read generated file")
		}
		if bytes.Equal(current, f.Content) {
			continue
		}
		s := Stale{File: f.Rel, Reason: "content differs"}
		if f.Output.Declarations {
			if changes := DiffInputs(parseInputs(current), f.Inputs); len(changes) > 0 {
				s.Reason = "config changed"
				for _, c := range changes {
					if c.Path != ConfigInput {
						s.Reason = "headers changed"
					}
				}
				s.Changes = changes
			}
		}
		stale = append(stale, s)
	}

	if len(stale) > 0 {
		return stale, fmt.Errorf("%w: %d of %d files", ErrStale, len(stale), len(plan.Files))
	}
	return nil, nil
}

// staged is an output written to a temporary file next to its target.
type staged struct {
	file    File
	tmp     string
	old     []byte
	existed bool
}

// writeAll stages every changed file, then renames them into place. A
// failure while staging leaves all targets untouched; a failure while
// renaming restores the targets already replaced.
func writeAll(files []File) (written []File, unchanged []string, err error) {
	var stage []staged
	defer func() {
		for _, s := range stage {
			os.Remove(s.tmp)
		}
	}()

	for _, f := range files {
		current, readErr := os.ReadFile(f.Path)
		if readErr == nil && bytes.Equal(current, f.Content) {
			unchanged = append(unchanged, f.Rel)
			continue
		}
		tmp, err := stageFile(f.Path, f.Content)
		if err != nil {
			return nil, nil, err
		}
		stage = append(stage, staged{file: f, tmp: tmp, old: current, existed: readErr == nil})
	}

	for i, s := range stage {
		if err := os.Rename(s.tmp, s.file.Path); err != nil {
			restore(stage[:i])
			return nil, nil, wrapError(PhaseWrite, KindIO, s.file.Path, err, "replace generated file")
		}
		written = append(written, s.file)
	}
	return written, unchanged, nil
}

// stageFile writes content to a temporary file in the directory of path
// and returns its name.
func stageFile(path string, content []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", wrapError(PhaseWrite, KindIO, dir, err, "create output directory")
	}
	tmp, err := os.CreateTemp(dir, ".cronet-bindgen-*")
	if err != nil {
		return "", wrapError(PhaseWrite, KindIO, dir, err, "create temporary file")
	}

	fail := func(err error, detail string) (string, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", wrapError(PhaseWrite, KindIO, path, err, detail)
	}
	if _, err := tmp.Write(content); err != nil {
		return fail(err, "write generated file")
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err, "chmod generated file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", wrapError(PhaseWrite, KindIO, path, err, "close generated file")
	}
	return tmp.Name(), nil
}

// restore puts back the previous content of replaced targets.
func restore(replaced []staged) {
	for _, s := range replaced {
		var err error
		if s.existed {
			err = os.WriteFile(s.file.Path, s.old, 0o644)
		} else {
			err = os.Remove(s.file.Path)
		}
		if err != nil {
			Logger().Error("restore generated file", zap.String("file", s.file.Rel), zap.Error(err))
		}
	}
}
