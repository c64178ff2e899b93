package bindgen

import (
	"strings"
)

// DeclKind is the kind of a scanned C declaration.
type DeclKind int

const (
	DeclRecord  DeclKind = iota // typedef of a struct or union
	DeclTypedef                 // typedef of a scalar or pointer type
	DeclEnum                    // enum, with or without a typedef name
	DeclFuncPtr                 // typedef of a function pointer
	DeclFunc                    // function prototype
	DeclConst                   // integer #define
)

// String returns the string representation of the kind.
func (k DeclKind) String() string {
	switch k {
	case DeclRecord:
		return "record"
	case DeclTypedef:
		return "typedef"
	case DeclEnum:
		return "enum"
	case DeclFuncPtr:
		return "funcptr"
	case DeclFunc:
		return "func"
	case DeclConst:
		return "const"
	default:
		return "unknown"
	}
}

// CType is a C type as spelled in a declaration, reduced to its base name,
// pointer depth and constness.
type CType struct {
	// Name is the base spelling: "int", "unsigned long", "Cronet_String",
	// "struct stream_engine".
	Name     string
	Pointers int
	Const    bool
}

// String renders the type in C syntax.
func (t CType) String() string {
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	b.WriteString(t.Name)
	for i := 0; i < t.Pointers; i++ {
		b.WriteByte('*')
	}
	return b.String()
}

// IsVoid reports whether t is plain void.
func (t CType) IsVoid() bool {
	return t.Name == "void" && t.Pointers == 0
}

// Param is a function parameter.
type Param struct {
	Name string
	Type CType
}

// EnumValue is one enumerator. Value is the initializer as written, empty
// when implicit.
type EnumValue struct {
	Name  string
	Value string
}

// Decl is one top-level declaration of the native API.
type Decl struct {
	Kind   DeclKind
	Name   string // C name; empty for untagged-typedef-less enums
	Tag    string // struct/union/enum tag, if any
	Header string // root-relative header path
	Line   int

	// Type is the typedef target or the function return type.
	Type   CType
	Params []Param
	Values []EnumValue
	// Value is the literal of a DeclConst.
	Value string
}

// Symbols returns every C name the declaration introduces, enumerators
// included.
func (d *Decl) Symbols() []string {
	var out []string
	if d.Name != "" {
		out = append(out, d.Name)
	}
	for _, v := range d.Values {
		out = append(out, v.Name)
	}
	return out
}

// Unit is the source text attributed to one header of the set.
type Unit struct {
	Header string
	Source []byte
}
