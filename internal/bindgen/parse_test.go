package bindgen

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

var exportMacros = []string{"CRONET_EXPORT", "GRPC_SUPPORT_EXPORT"}

const sampleHeader = `// Sample API.
#ifndef SAMPLE_H_
#define SAMPLE_H_

#define CRONET_EXPORT __attribute__((visibility("default")))
#define MAX_HINTS 16
#define FLAG_MASK (0x10u)
#define NEGATIVE -1
#define NAME "cronet"
#define TWICE(x) ((x) * 2)
#define LONG_VALUE \
    42

#ifdef __cplusplus
extern "C" {
#endif

typedef const char* Cronet_String;
typedef struct Cronet_Engine Cronet_Engine;
typedef struct Cronet_Engine* Cronet_EnginePtr;

/* Modes. */
typedef enum Cronet_MODE {
  Cronet_MODE_A = 0,
  Cronet_MODE_B,
} Cronet_MODE;

typedef void (*Cronet_RunFunc)(Cronet_EnginePtr self, unsigned size);

CRONET_EXPORT Cronet_EnginePtr Cronet_Engine_Create(void);
CRONET_EXPORT
int Cronet_Engine_Count(const Cronet_EnginePtr self, char buf[], long int);

#ifdef __cplusplus
}
#endif

#endif  // SAMPLE_H_
`

func parseSample(t *testing.T, src string) []*Decl {
	t.Helper()
	decls, err := ParseUnit(Unit{Header: "sample.h", Source: []byte(src)}, exportMacros)
	if err != nil {
		t.Fatalf("ParseUnit: %v", err)
	}
	return decls
}

func TestParseUnit(t *testing.T) {
	decls := parseSample(t, sampleHeader)

	want := []struct {
		kind DeclKind
		name string
	}{
		{DeclTypedef, "Cronet_String"},
		{DeclRecord, "Cronet_Engine"},
		{DeclTypedef, "Cronet_EnginePtr"},
		{DeclEnum, "Cronet_MODE"},
		{DeclFuncPtr, "Cronet_RunFunc"},
		{DeclFunc, "Cronet_Engine_Create"},
		{DeclFunc, "Cronet_Engine_Count"},
		{DeclConst, "MAX_HINTS"},
		{DeclConst, "FLAG_MASK"},
		{DeclConst, "NEGATIVE"},
		{DeclConst, "LONG_VALUE"},
	}
	if len(decls) != len(want) {
		for _, d := range decls {
			t.Logf("%s %s", d.Kind, d.Name)
		}
		t.Fatalf("got %d decls, want %d", len(decls), len(want))
	}
	for i, w := range want {
		if decls[i].Kind != w.kind || decls[i].Name != w.name {
			t.Errorf("decl %d = %s %s, want %s %s", i, decls[i].Kind, decls[i].Name, w.kind, w.name)
		}
		if decls[i].Header != "sample.h" {
			t.Errorf("decl %s has header %q", decls[i].Name, decls[i].Header)
		}
	}

	if got := decls[0].Type; got != (CType{Name: "char", Pointers: 1, Const: true}) {
		t.Errorf("Cronet_String type = %v", got)
	}
	if got := decls[2].Type; got != (CType{Name: "struct Cronet_Engine", Pointers: 1}) {
		t.Errorf("Cronet_EnginePtr type = %v", got)
	}
	if decls[1].Tag != "Cronet_Engine" {
		t.Errorf("record tag = %q", decls[1].Tag)
	}

	values := []EnumValue{{Name: "Cronet_MODE_A", Value: "0"}, {Name: "Cronet_MODE_B"}}
	if !reflect.DeepEqual(decls[3].Values, values) {
		t.Errorf("enum values = %v", decls[3].Values)
	}

	runParams := []Param{
		{Name: "self", Type: CType{Name: "Cronet_EnginePtr"}},
		{Name: "size", Type: CType{Name: "unsigned int"}},
	}
	if !reflect.DeepEqual(decls[4].Params, runParams) || !decls[4].Type.IsVoid() {
		t.Errorf("funcptr = %v returning %v", decls[4].Params, decls[4].Type)
	}

	if decls[5].Params != nil {
		t.Errorf("(void) should have no params, got %v", decls[5].Params)
	}

	countParams := []Param{
		{Name: "self", Type: CType{Name: "Cronet_EnginePtr", Const: true}},
		{Name: "buf", Type: CType{Name: "char", Pointers: 1}},
		{Name: "p2", Type: CType{Name: "long"}},
	}
	if !reflect.DeepEqual(decls[6].Params, countParams) {
		t.Errorf("Cronet_Engine_Count params = %v", decls[6].Params)
	}
	if decls[6].Type != (CType{Name: "int"}) {
		t.Errorf("Cronet_Engine_Count returns %v", decls[6].Type)
	}

	if decls[8].Value != "(0x10u)" {
		t.Errorf("FLAG_MASK value = %q", decls[8].Value)
	}
}

func TestParseUnitLines(t *testing.T) {
	decls := parseSample(t, "/* a\n * b\n */\ntypedef int A;\n\n#define B 1\nvoid f(\n  int x);\n")
	lines := map[string]int{}
	for _, d := range decls {
		lines[d.Name] = d.Line
	}
	want := map[string]int{"A": 4, "f": 7, "B": 6}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %v, want %v", lines, want)
	}
}

func TestParseUnitForms(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []DeclKind
		names []string
	}{
		{
			name:  "multiple declarators",
			src:   "typedef struct Cronet_Buffer Cronet_Buffer, *Cronet_BufferPtr;",
			kinds: []DeclKind{DeclRecord, DeclTypedef},
			names: []string{"Cronet_Buffer", "Cronet_BufferPtr"},
		},
		{
			name:  "struct with body",
			src:   "typedef struct stream_engine {\n  void* obj;\n  void (*cb)(int);\n} stream_engine;",
			kinds: []DeclKind{DeclRecord},
			names: []string{"stream_engine"},
		},
		{
			name:  "untagged enum typedef",
			src:   "typedef enum { A = 1, B = A + 1 } Mode;",
			kinds: []DeclKind{DeclEnum},
			names: []string{"Mode"},
		},
		{
			name:  "anonymous enum",
			src:   "enum { LIMIT = 8 };",
			kinds: []DeclKind{DeclEnum},
			names: []string{""},
		},
		{
			name:  "forward declarations",
			src:   "struct opaque; enum later; typedef unsigned long long u64;",
			kinds: []DeclKind{DeclTypedef},
			names: []string{"u64"},
		},
		{
			name:  "inline definition",
			src:   "static inline int twice(int x) { return x * 2; }\nint after(void);",
			kinds: []DeclKind{DeclFunc, DeclFunc},
			names: []string{"twice", "after"},
		},
		{
			name:  "attributes and grpc macro",
			src:   "GRPC_SUPPORT_EXPORT\nbool bidirectional_stream_is_done(bidirectional_stream* stream) __attribute__((warn_unused_result));",
			kinds: []DeclKind{DeclFunc},
			names: []string{"bidirectional_stream_is_done"},
		},
		{
			name:  "array typedef",
			src:   "typedef char Cronet_Digest[32];",
			kinds: []DeclKind{DeclTypedef},
			names: []string{"Cronet_Digest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := parseSample(t, tt.src)
			if len(decls) != len(tt.kinds) {
				t.Fatalf("got %d decls, want %d", len(decls), len(tt.kinds))
			}
			for i, d := range decls {
				if d.Kind != tt.kinds[i] || d.Name != tt.names[i] {
					t.Errorf("decl %d = %s %q, want %s %q", i, d.Kind, d.Name, tt.kinds[i], tt.names[i])
				}
			}
		})
	}
}

func TestParseUnitErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind Kind
	}{
		{"variadic", "CRONET_EXPORT void Cronet_Log(const char* fmt, ...);", KindUnsupported},
		{"global variable", "extern int cronet_count;", KindUnsupported},
		{"struct variable", "struct point { int x; } origin;", KindUnsupported},
		{"inline function pointer param", "void set_cb(void (*cb)(int));", KindUnsupported},
		{"returns function pointer", "void (*get_cb(void))(int);", KindUnsupported},
		{"unterminated", "typedef struct X {\n  int a;\n", KindSyntax},
		{"stray brace", "int f(void);\n}\n", KindSyntax},
		{"unterminated extern", "extern \"C\" {\nint f(void);\n", KindSyntax},
		{"anonymous struct param", "void f(struct *p);", KindSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUnit(Unit{Header: "bad.h", Source: []byte(tt.src)}, exportMacros)
			assertErrorClass(t, err, PhaseParse, tt.kind)

			var e *Error
			if errors.As(err, &e) && e.Path != "bad.h" {
				t.Errorf("error path = %q", e.Path)
			}
		})
	}
}

func TestParseFixtureHeaders(t *testing.T) {
	root := fixtureRoot(t)
	set, err := DefaultConfig().ResolveHeaders(root)
	if err != nil {
		t.Fatal(err)
	}
	units, err := BuiltinTranslator{}.Translate(context.Background(), set)
	if err != nil {
		t.Fatal(err)
	}

	counts := make(map[string]int)
	for _, u := range units {
		decls, err := ParseUnit(u, exportMacros)
		if err != nil {
			t.Fatalf("ParseUnit(%s): %v", u.Header, err)
		}
		counts[u.Header] = len(decls)
	}
	if counts["include/cronet_wrapper.h"] != 0 {
		t.Errorf("wrapper header should declare nothing, got %d", counts["include/cronet_wrapper.h"])
	}
	if counts["../chromium/components/cronet/native/generated/cronet.idl_c.h"] < 100 {
		t.Errorf("generated API header too small: %v", counts)
	}
}
