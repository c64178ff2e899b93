package bindgen

import (
	"bytes"
	"go/format"
	gotoken "go/token"
	"go/types"
	"sort"
	"strings"
)

// cScalar is a C scalar type and the Go builtin that exported
// signatures use in its place.
type cScalar struct {
	cgo    string
	goType string
	// sized is set when goType has the C type's size on every target, so
	// pointers may be converted through unsafe.Pointer.
	sized bool
}

// cScalars maps C scalar spellings to their cgo and Go names.
var cScalars = map[string]cScalar{
	"char":               {"C.char", "byte", true},
	"signed char":        {"C.schar", "int8", true},
	"unsigned char":      {"C.uchar", "uint8", true},
	"short":              {"C.short", "int16", true},
	"unsigned short":     {"C.ushort", "uint16", true},
	"int":                {"C.int", "int32", true},
	"unsigned int":       {"C.uint", "uint32", true},
	"long":               {"C.long", "int64", false},
	"unsigned long":      {"C.ulong", "uint64", false},
	"long long":          {"C.longlong", "int64", true},
	"unsigned long long": {"C.ulonglong", "uint64", true},
	"float":              {"C.float", "float32", true},
	"double":             {"C.double", "float64", true},
	"bool":               {"C.bool", "bool", true},
	"int8_t":             {"C.int8_t", "int8", true},
	"int16_t":            {"C.int16_t", "int16", true},
	"int32_t":            {"C.int32_t", "int32", true},
	"int64_t":            {"C.int64_t", "int64", true},
	"uint8_t":            {"C.uint8_t", "uint8", true},
	"uint16_t":           {"C.uint16_t", "uint16", true},
	"uint32_t":           {"C.uint32_t", "uint32", true},
	"uint64_t":           {"C.uint64_t", "uint64", true},
	"size_t":             {"C.size_t", "uintptr", true},
	"intptr_t":           {"C.intptr_t", "int", true},
	"uintptr_t":          {"C.uintptr_t", "uintptr", true},
	"ptrdiff_t":          {"C.ptrdiff_t", "int", true},
}

// GoName returns the Go identifier a C name is declared under. Names keep
// their spelling; only a leading lower-case letter or underscore is
// adjusted, since Go exports upper-case identifiers only.
func GoName(cName string) string {
	if cName == "" {
		return ""
	}
	c := cName[0]
	switch {
	case c >= 'a' && c <= 'z':
		return string(c-'a'+'A') + cName[1:]
	case c == '_':
		return "X" + cName
	default:
		return cName
	}
}

// DeclSet is the merged, de-duplicated declaration list of a header set.
type DeclSet struct {
	Decls []*Decl
	// goNames maps every declared C type name to its Go name.
	goNames map[string]string
	// typeNames holds the Go names of declared types.
	typeNames map[string]bool
}

// Collect merges per-header declarations in order. A name declared twice
// with the same kind keeps its first declaration. Two different kinds of
// declaration, an enumerator reusing any other name, or two C names
// mapping to one Go name are errors.
func Collect(perHeader [][]*Decl) (*DeclSet, error) {
	set := &DeclSet{goNames: make(map[string]string), typeNames: make(map[string]bool)}

	// claimed records the declaration owning a name; enumerator is set when
	// the name is one of its enumerators rather than the declaration itself.
	type claimed struct {
		decl       *Decl
		enumerator bool
	}
	byName := make(map[string]claimed)
	byGoName := make(map[string]string)

	conflict := func(d *Decl, detail string) error {
		return &Error{Phase: PhaseEmit, Kind: KindInvalid, Path: d.Header, Line: d.Line, Detail: detail}
	}

	claim := func(d *Decl, cName string, enumerator bool) (bool, error) {
		if prev, ok := byName[cName]; ok {
			switch {
			case enumerator || prev.enumerator:
				return false, conflict(d, cName+" redeclared as "+kindOf(d, enumerator)+
					" (first "+kindOf(prev.decl, prev.enumerator)+" in "+prev.decl.Header+")")
			case prev.decl.Kind != d.Kind:
				return false, conflict(d, cName+" redeclared as "+d.Kind.String()+
					" (first "+prev.decl.Kind.String()+" in "+prev.decl.Header+")")
			}
			return false, nil
		}
		goName := GoName(cName)
		if other, ok := byGoName[goName]; ok {
			return false, conflict(d, cName+" and "+other+" both map to Go name "+goName)
		}
		byName[cName] = claimed{decl: d, enumerator: enumerator}
		byGoName[goName] = cName
		return true, nil
	}

	for _, decls := range perHeader {
		for _, d := range decls {
			keep := d.Name == ""
			if d.Name != "" {
				ok, err := claim(d, d.Name, false)
				if err != nil {
					return nil, err
				}
				keep = ok
			}
			if !keep {
				continue
			}
			for _, v := range d.Values {
				if _, err := claim(d, v.Name, true); err != nil {
					return nil, err
				}
			}
			switch d.Kind {
			case DeclRecord, DeclTypedef, DeclEnum, DeclFuncPtr:
				if d.Name != "" {
					set.goNames[d.Name] = GoName(d.Name)
					set.typeNames[GoName(d.Name)] = true
				}
			}
			set.Decls = append(set.Decls, d)
		}
	}
	return set, nil
}

func kindOf(d *Decl, enumerator bool) string {
	if enumerator {
		return "enumerator"
	}
	return d.Kind.String()
}

// Symbols returns every C symbol in the set, in declaration order.
func (s *DeclSet) Symbols() []string {
	var out []string
	for _, d := range s.Decls {
		out = append(out, d.Symbols()...)
	}
	return out
}

// scalar reports whether t is a C scalar, or a pointer to one, that is
// exported with a Go builtin type. cgo's scalar types are private to the
// generated package, so signatures using them could not be called with
// variables from other packages.
func (s *DeclSet) scalar(t CType) (cScalar, bool) {
	if _, ok := s.goNames[t.Name]; ok {
		return cScalar{}, false
	}
	sc, ok := cScalars[t.Name]
	if !ok || (t.Pointers > 0 && !sc.sized) {
		return cScalar{}, false
	}
	return sc, true
}

// goType renders the Go spelling of t in an exported signature.
// usesUnsafe is set when the result refers to unsafe.Pointer.
func (s *DeclSet) goType(t CType, usesUnsafe *bool) string {
	ptr := strings.Repeat("*", t.Pointers)
	if sc, ok := s.scalar(t); ok {
		return ptr + sc.goType
	}
	return ptr + s.cgoType(t, usesUnsafe)
}

// cgoType renders t as cgo spells it.
func (s *DeclSet) cgoType(t CType, usesUnsafe *bool) string {
	ptr := strings.Repeat("*", t.Pointers)

	switch {
	case t.Name == "void":
		if t.Pointers == 0 {
			return ""
		}
		*usesUnsafe = true
		return ptr[1:] + "unsafe.Pointer"
	case strings.HasPrefix(t.Name, "struct "):
		return ptr + "C.struct_" + strings.TrimPrefix(t.Name, "struct ")
	case strings.HasPrefix(t.Name, "union "):
		return ptr + "C.union_" + strings.TrimPrefix(t.Name, "union ")
	case strings.HasPrefix(t.Name, "enum "):
		return ptr + "C.enum_" + strings.TrimPrefix(t.Name, "enum ")
	}

	if g, ok := s.goNames[t.Name]; ok {
		return ptr + g
	}
	if sc, ok := cScalars[t.Name]; ok {
		return ptr + sc.cgo
	}
	return ptr + "C." + strings.ReplaceAll(t.Name, " ", "")
}

// toC converts the Go value expr of type t for a cgo call.
func (s *DeclSet) toC(t CType, expr string, usesUnsafe *bool) string {
	sc, ok := s.scalar(t)
	switch {
	case !ok:
		return expr
	case t.Pointers == 0:
		return sc.cgo + "(" + expr + ")"
	default:
		*usesUnsafe = true
		return "(" + strings.Repeat("*", t.Pointers) + sc.cgo + ")(unsafe.Pointer(" + expr + "))"
	}
}

// fromC converts the result of a cgo call to the exported type of t.
func (s *DeclSet) fromC(t CType, expr string, usesUnsafe *bool) string {
	sc, ok := s.scalar(t)
	switch {
	case !ok:
		return expr
	case t.Pointers == 0:
		return sc.goType + "(" + expr + ")"
	default:
		*usesUnsafe = true
		return "(" + strings.Repeat("*", t.Pointers) + sc.goType + ")(unsafe.Pointer(" + expr + "))"
	}
}

// RenderDeclarations renders the Go file that re-exports every declaration
// of set under its native name. The output is gofmt-formatted and a pure
// function of its arguments.
func RenderDeclarations(pkg, entry, preamble string, inputs []Input, set *DeclSet) ([]byte, error) {
	var body bytes.Buffer
	usesUnsafe := false

	header := ""
	for _, d := range set.Decls {
		if d.Header != header {
			header = d.Header
			body.WriteString("\n// Declarations from " + header + ".\n")
		}
		if err := set.renderDecl(&body, d, &usesUnsafe); err != nil {
			return nil, err
		}
	}

	var b bytes.Buffer
	b.WriteString("// Code generated by cronet-bindgen from " + entry + ". DO NOT EDIT.\n")
	b.WriteString(renderInputs(inputs))
	b.WriteString("\n//lint:file-ignore ST1003 declarations keep the native library's names.\n\n")
	b.WriteString("//nolint:revive,stylecheck\n")
	b.WriteString("package " + pkg + "\n\n")
	b.WriteString("/*\n" + preamble)
	b.WriteString("#include <stdbool.h>\n#include <stdint.h>\n")
	b.WriteString("#include \"" + baseName(entry) + "\"\n")
	b.WriteString("*/\nimport \"C\"\n")
	if usesUnsafe {
		b.WriteString("\nimport \"unsafe\"\n")
	}
	b.Write(body.Bytes())

	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, wrapError(PhaseEmit, KindSyntax, pkg, err, "format generated declarations")
	}
	return out, nil
}

func (s *DeclSet) renderDecl(b *bytes.Buffer, d *Decl, usesUnsafe *bool) error {
	switch d.Kind {
	case DeclRecord, DeclTypedef, DeclFuncPtr:
		b.WriteString("type " + GoName(d.Name) + " = C." + d.Name + "\n")
	case DeclEnum:
		// anonymous enums leave their constants untyped
		typ := ""
		switch {
		case d.Name != "":
			b.WriteString("type " + GoName(d.Name) + " = C." + d.Name + "\n")
			typ = " " + GoName(d.Name)
		case d.Tag != "":
			typ = " C.enum_" + d.Tag
		}
		b.WriteString("\nconst (\n")
		for _, v := range d.Values {
			b.WriteString("\t" + GoName(v.Name) + typ + " = C." + v.Name + "\n")
		}
		b.WriteString(")\n")
	case DeclConst:
		b.WriteString("const " + GoName(d.Name) + " = C." + d.Name + "\n")
	case DeclFunc:
		return s.renderFunc(b, d, usesUnsafe)
	default:
		return newError(PhaseEmit, KindUnsupported, d.Header, "declaration kind %s", d.Kind)
	}
	return nil
}

func (s *DeclSet) renderFunc(b *bytes.Buffer, d *Decl, usesUnsafe *bool) error {
	names := make([]string, len(d.Params))
	used := make(map[string]bool, len(d.Params))
	for i, p := range d.Params {
		n := p.Name
		// predeclared names would shadow the conversions in the body
		if gotoken.IsKeyword(n) || n == "C" || n == "unsafe" || s.typeNames[n] || types.Universe.Lookup(n) != nil {
			n += "_"
		}
		for used[n] {
			n += "_"
		}
		used[n] = true
		names[i] = n
	}

	args := make([]string, len(d.Params))
	b.WriteString("\nfunc " + GoName(d.Name) + "(")
	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(names[i] + " " + s.goType(p.Type, usesUnsafe))
		args[i] = s.toC(p.Type, names[i], usesUnsafe)
	}
	b.WriteString(")")

	call := "C." + d.Name + "(" + strings.Join(args, ", ") + ")"
	if d.Type.IsVoid() {
		b.WriteString(" {\n\t" + call + "\n}\n")
		return nil
	}
	b.WriteString(" " + s.goType(d.Type, usesUnsafe))
	b.WriteString(" {\n\treturn " + s.fromC(d.Type, call, usesUnsafe) + "\n}\n")
	return nil
}

// Summary counts declarations per kind, sorted by kind name.
func (s *DeclSet) Summary() []KindCount {
	counts := make(map[DeclKind]int)
	for _, d := range s.Decls {
		counts[d.Kind]++
	}
	out := make([]KindCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, KindCount{Kind: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind.String() < out[j].Kind.String() })
	return out
}

// KindCount is one row of DeclSet.Summary.
type KindCount struct {
	Kind  DeclKind
	Count int
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
