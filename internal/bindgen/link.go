package bindgen

import (
	"path/filepath"
	"sort"
	"strings"
)

// DirectiveKind is the kind of a linker directive.
type DirectiveKind int

const (
	// SearchPath adds the prebuilt artifact directory to the library search path.
	SearchPath DirectiveKind = iota
	// StaticLibrary links the prebuilt archive.
	StaticLibrary
	// SystemLibrary links a library shipped with the target OS.
	SystemLibrary
	// Framework links an Apple framework.
	Framework
	// RawFlag passes a configured flag through unchanged.
	RawFlag
)

// String returns the string representation of the directive kind.
func (k DirectiveKind) String() string {
	switch k {
	case SearchPath:
		return "search-path"
	case StaticLibrary:
		return "static-lib"
	case SystemLibrary:
		return "system-lib"
	case Framework:
		return "framework"
	case RawFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Directive is one instruction to the linker. An empty GOOS applies to
// every target.
type Directive struct {
	GOOS  string
	Kind  DirectiveKind
	Value string
}

// Flags renders the directive as linker flags.
func (d Directive) Flags() string {
	switch d.Kind {
	case SearchPath:
		return "-L" + d.Value
	case StaticLibrary, SystemLibrary:
		return "-l" + d.Value
	case Framework:
		return "-framework " + d.Value
	default:
		return d.Value
	}
}

// String returns the directive in "kind=value" form.
func (d Directive) String() string {
	return d.Kind.String() + "=" + d.Value
}

// Directives returns the link directives for goos in emission order:
// search path, static library, configured extra flags, then the target's
// system libraries and frameworks. searchDir is used verbatim as the
// search path value.
func (c *Config) Directives(goos, searchDir string) []Directive {
	out := []Directive{
		{Kind: SearchPath, Value: searchDir},
		{Kind: StaticLibrary, Value: c.Library},
	}
	for _, f := range c.ExtraLDFlags {
		out = append(out, Directive{Kind: RawFlag, Value: f})
	}

	p, ok := c.Platforms[goos]
	if !ok {
		return out
	}
	for _, lib := range p.SystemLibs {
		out = append(out, Directive{GOOS: goos, Kind: SystemLibrary, Value: lib})
	}
	for _, fw := range p.Frameworks {
		out = append(out, Directive{GOOS: goos, Kind: Framework, Value: fw})
	}
	return out
}

// srcdirPath expresses target relative to the package directory pkgDir
// using cgo's ${SRCDIR} variable, so rendered preambles do not depend on
// where the module is checked out.
func srcdirPath(root, pkgDir, target string) (string, error) {
	rel, err := filepath.Rel(abs(root, pkgDir), abs(root, target))
	if err != nil {
		return "", wrapError(PhaseEmit, KindInvalid, target, err, "make path relative to package")
	}
	if rel == "." {
		return "${SRCDIR}", nil
	}
	return "${SRCDIR}/" + filepath.ToSlash(rel), nil
}

// Preamble renders the #cgo lines a package in pkgDir needs to compile
// against the headers and link the prebuilt library. Every directive gets
// its own line.
func (c *Config) Preamble(root, pkgDir string) (string, error) {
	var b strings.Builder

	for _, dir := range c.IncludeDirs {
		p, err := srcdirPath(root, pkgDir, dir)
		if err != nil {
			return "", err
		}
		b.WriteString("#cgo CFLAGS: -I")
		b.WriteString(p)
		b.WriteByte('\n')
	}

	search, err := srcdirPath(root, pkgDir, c.ArtifactDir)
	if err != nil {
		return "", err
	}
	for _, d := range c.Directives("", search) {
		b.WriteString("#cgo LDFLAGS: ")
		b.WriteString(d.Flags())
		b.WriteByte('\n')
	}

	goosList := make([]string, 0, len(c.Platforms))
	for goos := range c.Platforms {
		goosList = append(goosList, goos)
	}
	sort.Strings(goosList)

	for _, goos := range goosList {
		for _, d := range c.Directives(goos, search) {
			if d.GOOS == "" {
				continue
			}
			b.WriteString("#cgo ")
			b.WriteString(goos)
			b.WriteString(" LDFLAGS: ")
			b.WriteString(d.Flags())
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// RenderLinkFile renders a Go file that carries only the cgo preamble for
// out. The result is a pure function of the configuration.
func (c *Config) RenderLinkFile(root string, out Output) ([]byte, error) {
	preamble, err := c.Preamble(root, out.Dir)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("// Code generated by cronet-bindgen. DO NOT EDIT.\n\n")
	b.WriteString("package ")
	b.WriteString(out.Package)
	b.WriteString("\n\n/*\n")
	b.WriteString(preamble)
	b.WriteString("*/\nimport \"C\"\n")
	return []byte(b.String()), nil
}
