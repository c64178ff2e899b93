package bindgen

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// The scanner understands the subset of C that plain C API headers use:
// typedefs of structs, enums, scalars, pointers and function pointers,
// function prototypes, and integer #defines. Preprocessor conditionals
// are not evaluated; every branch is scanned.

type tokKind int

const (
	tokIdent tokKind = iota
	tokNumber
	tokString
	tokPunct
)

type token struct {
	text string
	kind tokKind
	line int
}

var (
	defineRe  = regexp.MustCompile(`^#\s*define\s+([A-Za-z_][A-Za-z0-9_]*)(\(?)\s*(.*)$`)
	intLitRe  = regexp.MustCompile(`^\(?\s*-?\s*(0[xX][0-9a-fA-F]+|[0-9]+)[uUlL]*\s*\)?$`)
	dropIdent = map[string]bool{
		"__extension__": true,
		"__inline":      true,
		"__inline__":    true,
		"__restrict":    true,
		"__restrict__":  true,
		"restrict":      true,
	}
	// identifiers followed by a parenthesized group that carries no
	// declaration information
	dropGroup = map[string]bool{
		"__attribute__": true,
		"__attribute":   true,
		"__declspec":    true,
		"__asm__":       true,
		"__asm":         true,
	}
	storageClass = map[string]bool{
		"extern":   true,
		"static":   true,
		"inline":   true,
		"register": true,
	}
	typeKeyword = map[string]bool{
		"void": true, "char": true, "short": true, "int": true, "long": true,
		"float": true, "double": true, "signed": true, "unsigned": true,
		"_Bool": true, "bool": true, "const": true, "volatile": true,
		"struct": true, "union": true, "enum": true,
	}
)

// ParseUnit scans one header's source and returns its declarations in
// source order. Identifiers listed in exportMacros are ignored wherever
// they appear.
func ParseUnit(u Unit, exportMacros []string) ([]*Decl, error) {
	p := &parser{
		header: u.Header,
		macros: make(map[string]bool, len(exportMacros)),
	}
	for _, m := range exportMacros {
		p.macros[m] = true
	}

	body, defines := p.splitDirectives(stripComments(u.Source))
	toks, err := p.filter(tokenize(body))
	if err != nil {
		return nil, err
	}

	stmts, err := p.statements(toks)
	if err != nil {
		return nil, err
	}
	for _, st := range stmts {
		if err := p.statement(st); err != nil {
			return nil, err
		}
	}

	// #defines go after the declarations they usually refer to.
	p.decls = append(p.decls, defines...)
	return p.decls, nil
}

type parser struct {
	header string
	macros map[string]bool
	decls  []*Decl
}

// splitDirectives blanks out preprocessor lines, keeping line count, and
// collects object-like macros whose body is an integer literal.
func (p *parser) splitDirectives(src []byte) ([]byte, []*Decl) {
	lines := bytes.Split(src, []byte("\n"))
	var defines []*Decl

	for i := 0; i < len(lines); i++ {
		trimmed := bytes.TrimSpace(lines[i])
		if len(trimmed) == 0 || trimmed[0] != '#' {
			continue
		}

		start := i
		directive := string(trimmed)
		for bytes.HasSuffix(bytes.TrimRight(lines[i], " \t\r"), []byte("\\")) && i+1 < len(lines) {
			directive = strings.TrimSuffix(strings.TrimSpace(directive), "\\") + " " + string(bytes.TrimSpace(lines[i+1]))
			lines[i] = nil
			i++
		}
		lines[i] = nil
		lines[start] = nil

		m := defineRe.FindStringSubmatch(directive)
		if m == nil || m[2] == "(" || p.macros[m[1]] {
			continue
		}
		value := strings.TrimSpace(m[3])
		if !intLitRe.MatchString(value) {
			continue
		}
		defines = append(defines, &Decl{
			Kind:   DeclConst,
			Name:   m[1],
			Header: p.header,
			Line:   start + 1,
			Value:  value,
		})
	}
	return bytes.Join(lines, []byte("\n")), defines
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func tokenize(src []byte) []token {
	var toks []token
	line := 1
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, token{text: string(src[i:j]), kind: tokIdent, line: line})
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(src) && (isIdentPart(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, token{text: string(src[i:j]), kind: tokNumber, line: line})
			i = j
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(src) && src[j] != c && src[j] != '\n' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(src) && src[j] == c {
				j++
			}
			if j > len(src) {
				j = len(src)
			}
			toks = append(toks, token{text: string(src[i:j]), kind: tokString, line: line})
			i = j
		case c == '.' && i+2 < len(src) && src[i+1] == '.' && src[i+2] == '.':
			toks = append(toks, token{text: "...", kind: tokPunct, line: line})
			i += 3
		case c == ':' && i+1 < len(src) && src[i+1] == ':':
			toks = append(toks, token{text: "::", kind: tokPunct, line: line})
			i += 2
		default:
			toks = append(toks, token{text: string(c), kind: tokPunct, line: line})
			i++
		}
	}
	return toks
}

// filter drops export macros, attributes and extern "C" wrappers.
func (p *parser) filter(toks []token) ([]token, error) {
	out := make([]token, 0, len(toks))
	depth := 0
	var externs []int

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.kind == tokIdent && (p.macros[t.text] || dropIdent[t.text]):
			continue
		case t.kind == tokIdent && dropGroup[t.text]:
			if i+1 < len(toks) && toks[i+1].text == "(" {
				end, ok := matching(toks, i+1, "(", ")")
				if !ok {
					return nil, syntaxError(p.header, t.line, "unbalanced %s", t.text)
				}
				i = end
			}
			continue
		case t.text == "extern" && i+1 < len(toks) && toks[i+1].kind == tokString:
			if i+2 < len(toks) && toks[i+2].text == "{" {
				externs = append(externs, depth)
				i += 2
			} else {
				i++
			}
			continue
		case t.text == "{":
			depth++
		case t.text == "}":
			if n := len(externs); n > 0 && externs[n-1] == depth {
				externs = externs[:n-1]
				continue
			}
			depth--
		}
		out = append(out, t)
	}
	if len(externs) > 0 {
		return nil, syntaxError(p.header, 0, "unterminated extern block")
	}
	return out, nil
}

// matching returns the index of the token closing the group opened at
// toks[open].
func matching(toks []token, open int, lhs, rhs string) (int, bool) {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].text {
		case lhs:
			depth++
		case rhs:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// statements splits the token stream at top-level semicolons. A function
// definition ends at its closing brace.
func (p *parser) statements(toks []token) ([][]token, error) {
	var out [][]token
	var cur []token
	braces, parens := 0, 0

	for _, t := range toks {
		switch t.text {
		case "{":
			braces++
		case "}":
			braces--
			if braces < 0 {
				return nil, syntaxError(p.header, t.line, "unexpected '}'")
			}
		case "(":
			parens++
		case ")":
			parens--
		}

		if t.text == ";" && braces == 0 && parens == 0 {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, t)

		if t.text == "}" && braces == 0 && isFuncDefinition(cur) {
			out = append(out, cur)
			cur = nil
		}
	}
	if braces != 0 || parens != 0 || len(cur) > 0 {
		line := 0
		if len(cur) > 0 {
			line = cur[0].line
		}
		return nil, syntaxError(p.header, line, "unterminated declaration")
	}
	return out, nil
}

func isFuncDefinition(st []token) bool {
	for i, t := range st {
		if t.text == "{" {
			return i > 0 && st[i-1].text == ")"
		}
	}
	return false
}

func (p *parser) statement(st []token) error {
	if st[0].text == "typedef" {
		return p.typedef(st)
	}

	i := 0
	for i < len(st) && storageClass[st[i].text] {
		i++
	}
	if i == len(st) {
		return syntaxError(p.header, st[0].line, "empty declaration")
	}

	switch {
	case hasToken(st[i:], "("):
		return p.function(st[i:])
	case st[i].text == "enum":
		return p.taggedEnum(st[i:])
	case st[i].text == "struct" || st[i].text == "union":
		return p.taggedRecord(st[i:])
	default:
		return &Error{
			Phase:  PhaseParse,
			Kind:   KindUnsupported,
			Path:   p.header,
			Line:   st[0].line,
			Detail: "global variable " + joinTokens(st) + " cannot be declared in Go",
		}
	}
}

func hasToken(st []token, s string) bool {
	for _, t := range st {
		if t.text == s {
			return true
		}
	}
	return false
}

// typedef handles every "typedef ..." statement.
func (p *parser) typedef(st []token) error {
	line := st[0].line
	rest := st[1:]
	if len(rest) == 0 {
		return syntaxError(p.header, line, "empty typedef")
	}

	if kw := rest[0].text; kw == "struct" || kw == "union" || kw == "enum" {
		return p.typedefTagged(rest, line)
	}

	// typedef R (*Name)(params)
	for i := 0; i+4 < len(rest); i++ {
		if rest[i].text != "(" {
			continue
		}
		if rest[i+1].text != "*" || rest[i+2].kind != tokIdent || rest[i+3].text != ")" || rest[i+4].text != "(" {
			return &Error{
				Phase:  PhaseParse,
				Kind:   KindUnsupported,
				Path:   p.header,
				Line:   line,
				Detail: "typedef " + joinTokens(rest) + " is not a plain function pointer",
			}
		}
		ret, err := p.parseType(rest[:i])
		if err != nil {
			return err
		}
		end, ok := matching(rest, i+4, "(", ")")
		if !ok || end != len(rest)-1 {
			return syntaxError(p.header, line, "malformed function pointer typedef")
		}
		params, err := p.params(rest[i+5 : end])
		if err != nil {
			return err
		}
		p.add(&Decl{Kind: DeclFuncPtr, Name: rest[i+2].text, Line: line, Type: ret, Params: params})
		return nil
	}
	if hasToken(rest, "(") {
		return syntaxError(p.header, line, "unrecognized typedef %s", joinTokens(rest))
	}

	typeToks, name, isArray := splitDeclarator(rest)
	if name == "" {
		return syntaxError(p.header, line, "typedef without a name")
	}
	t, err := p.parseType(typeToks)
	if err != nil {
		return err
	}
	if isArray {
		t.Pointers++
	}
	p.add(&Decl{Kind: DeclTypedef, Name: name, Line: line, Type: t})
	return nil
}

// typedefTagged handles typedef struct/union/enum with optional tag, body
// and one or more declarators.
func (p *parser) typedefTagged(rest []token, line int) error {
	kw := rest[0].text
	i := 1
	tag := ""
	if i < len(rest) && rest[i].kind == tokIdent {
		tag = rest[i].text
		i++
	}

	var body []token
	hasBody := false
	if i < len(rest) && rest[i].text == "{" {
		end, ok := matching(rest, i, "{", "}")
		if !ok {
			return syntaxError(p.header, line, "unbalanced %s body", kw)
		}
		body = rest[i+1 : end]
		hasBody = true
		i = end + 1
	}

	declarators := splitTop(rest[i:], ",")
	if len(declarators) == 0 {
		return syntaxError(p.header, line, "typedef %s %s without a name", kw, tag)
	}

	base := kw
	if tag != "" {
		base = kw + " " + tag
	}

	var values []EnumValue
	if kw == "enum" && hasBody {
		var err error
		if values, err = p.enumValues(body, line); err != nil {
			return err
		}
	}

	for _, d := range declarators {
		stars := 0
		for stars < len(d) && d[stars].text == "*" {
			stars++
		}
		if stars != len(d)-1 || d[stars].kind != tokIdent {
			return &Error{
				Phase:  PhaseParse,
				Kind:   KindUnsupported,
				Path:   p.header,
				Line:   line,
				Detail: "typedef declarator " + joinTokens(d) + " is not supported",
			}
		}
		name := d[stars].text

		switch {
		case stars > 0:
			p.add(&Decl{Kind: DeclTypedef, Name: name, Tag: tag, Line: line, Type: CType{Name: base, Pointers: stars}})
		case kw == "enum":
			p.add(&Decl{Kind: DeclEnum, Name: name, Tag: tag, Line: line, Type: CType{Name: base}, Values: values})
			values = nil
		default:
			p.add(&Decl{Kind: DeclRecord, Name: name, Tag: tag, Line: line, Type: CType{Name: base}})
		}
	}
	return nil
}

// taggedEnum handles "enum tag { ... }" without typedef. Only its
// enumerators become Go declarations.
func (p *parser) taggedEnum(st []token) error {
	line := st[0].line
	i := 1
	tag := ""
	if i < len(st) && st[i].kind == tokIdent {
		tag = st[i].text
		i++
	}
	if i >= len(st) || st[i].text != "{" {
		// forward declaration
		return nil
	}
	end, ok := matching(st, i, "{", "}")
	if !ok {
		return syntaxError(p.header, line, "unbalanced enum body")
	}
	if end != len(st)-1 {
		return &Error{Phase: PhaseParse, Kind: KindUnsupported, Path: p.header, Line: line, Detail: "enum variable declaration"}
	}
	values, err := p.enumValues(st[i+1:end], line)
	if err != nil {
		return err
	}
	typ := CType{Name: "enum"}
	if tag != "" {
		typ.Name = "enum " + tag
	}
	p.add(&Decl{Kind: DeclEnum, Tag: tag, Line: line, Type: typ, Values: values})
	return nil
}

// taggedRecord accepts struct/union forward declarations and definitions
// without typedef. They introduce no name outside the C tag namespace.
func (p *parser) taggedRecord(st []token) error {
	line := st[0].line
	i := 1
	if i < len(st) && st[i].kind == tokIdent {
		i++
	}
	if i == len(st) {
		return nil
	}
	if st[i].text != "{" {
		return &Error{Phase: PhaseParse, Kind: KindUnsupported, Path: p.header, Line: line, Detail: "global variable " + joinTokens(st)}
	}
	end, ok := matching(st, i, "{", "}")
	if !ok {
		return syntaxError(p.header, line, "unbalanced %s body", st[0].text)
	}
	if end != len(st)-1 {
		return &Error{Phase: PhaseParse, Kind: KindUnsupported, Path: p.header, Line: line, Detail: "global variable " + joinTokens(st)}
	}
	return nil
}

func (p *parser) enumValues(body []token, line int) ([]EnumValue, error) {
	var out []EnumValue
	for _, item := range splitTop(body, ",") {
		if item[0].kind != tokIdent {
			return nil, syntaxError(p.header, item[0].line, "bad enumerator %s", joinTokens(item))
		}
		v := EnumValue{Name: item[0].text}
		if len(item) > 1 {
			if item[1].text != "=" || len(item) < 3 {
				return nil, syntaxError(p.header, item[0].line, "bad enumerator %s", joinTokens(item))
			}
			v.Value = joinTokens(item[2:])
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, syntaxError(p.header, line, "empty enum")
	}
	return out, nil
}

// function handles a prototype or an inline definition.
func (p *parser) function(st []token) error {
	line := st[0].line
	open := -1
	for i, t := range st {
		if t.text == "(" {
			open = i
			break
		}
	}
	if open < 1 || st[open-1].kind != tokIdent || typeKeyword[st[open-1].text] {
		return &Error{
			Phase:  PhaseParse,
			Kind:   KindUnsupported,
			Path:   p.header,
			Line:   line,
			Detail: "declaration " + joinTokens(st) + " is not a plain function prototype",
		}
	}
	name := st[open-1].text

	ret, err := p.parseType(st[:open-1])
	if err != nil {
		return err
	}
	end, ok := matching(st, open, "(", ")")
	if !ok {
		return syntaxError(p.header, line, "unbalanced parameter list of %s", name)
	}
	if end+1 < len(st) && st[end+1].text != "{" {
		return &Error{
			Phase:  PhaseParse,
			Kind:   KindUnsupported,
			Path:   p.header,
			Line:   line,
			Detail: "function " + name + " returns a function pointer",
		}
	}

	params, err := p.params(st[open+1 : end])
	if err != nil {
		return err
	}
	p.add(&Decl{Kind: DeclFunc, Name: name, Line: line, Type: ret, Params: params})
	return nil
}

func (p *parser) params(toks []token) ([]Param, error) {
	if len(toks) == 0 || (len(toks) == 1 && toks[0].text == "void") {
		return nil, nil
	}

	var out []Param
	for i, item := range splitTop(toks, ",") {
		if item[0].text == "..." {
			return nil, &Error{Phase: PhaseParse, Kind: KindUnsupported, Path: p.header, Line: item[0].line, Detail: "variadic functions cannot be called through cgo"}
		}
		if hasToken(item, "(") {
			return nil, &Error{Phase: PhaseParse, Kind: KindUnsupported, Path: p.header, Line: item[0].line, Detail: "inline function pointer parameter " + joinTokens(item) + "; use a typedef"}
		}
		typeToks, name, isArray := splitDeclarator(item)
		t, err := p.parseType(typeToks)
		if err != nil {
			return nil, err
		}
		if isArray {
			t.Pointers++
		}
		if t.IsVoid() {
			return nil, syntaxError(p.header, item[0].line, "void parameter in a list")
		}
		if name == "" {
			name = "p" + strconv.Itoa(i)
		}
		out = append(out, Param{Name: name, Type: t})
	}
	return out, nil
}

// splitDeclarator separates the type tokens from a trailing declarator
// name. Array suffixes are reported so callers can decay them to pointers.
func splitDeclarator(toks []token) ([]token, string, bool) {
	isArray := false
	if n := len(toks); n > 0 && toks[n-1].text == "]" {
		for j := n - 1; j >= 0; j-- {
			if toks[j].text == "[" {
				toks = toks[:j]
				isArray = true
				break
			}
		}
	}

	n := len(toks)
	if n < 2 {
		return toks, "", isArray
	}
	last := toks[n-1]
	prev := toks[n-2].text
	if last.kind != tokIdent || typeKeyword[last.text] || prev == "struct" || prev == "union" || prev == "enum" {
		return toks, "", isArray
	}
	return toks[:n-1], last.text, isArray
}

var typeAliases = map[string]string{
	"signed":                 "int",
	"signed int":             "int",
	"short int":              "short",
	"signed short":           "short",
	"signed short int":       "short",
	"unsigned short int":     "unsigned short",
	"unsigned":               "unsigned int",
	"long int":               "long",
	"signed long":            "long",
	"signed long int":        "long",
	"unsigned long int":      "unsigned long",
	"long long int":          "long long",
	"signed long long":       "long long",
	"signed long long int":   "long long",
	"unsigned long long int": "unsigned long long",
	"_Bool":                  "bool",
}

func (p *parser) parseType(toks []token) (CType, error) {
	var t CType
	var names []string
	for i := 0; i < len(toks); i++ {
		s := toks[i].text
		switch {
		case s == "const" || s == "volatile":
			if t.Pointers == 0 {
				t.Const = t.Const || s == "const"
			}
		case s == "*":
			t.Pointers++
		case s == "struct" || s == "union" || s == "enum":
			if i+1 >= len(toks) || toks[i+1].kind != tokIdent {
				return t, syntaxError(p.header, toks[i].line, "anonymous %s in type position", s)
			}
			names = append(names, s+" "+toks[i+1].text)
			i++
		case storageClass[s]:
		case toks[i].kind == tokIdent:
			if t.Pointers > 0 {
				return t, syntaxError(p.header, toks[i].line, "unexpected %q after '*'", s)
			}
			names = append(names, s)
		default:
			return t, syntaxError(p.header, toks[i].line, "unexpected %q in type", s)
		}
	}
	if len(names) == 0 {
		line := 0
		if len(toks) > 0 {
			line = toks[0].line
		}
		return t, syntaxError(p.header, line, "missing type")
	}
	t.Name = strings.Join(names, " ")
	if alias, ok := typeAliases[t.Name]; ok {
		t.Name = alias
	}
	return t, nil
}

func (p *parser) add(d *Decl) {
	d.Header = p.header
	p.decls = append(p.decls, d)
}

// splitTop splits toks at sep outside of any brackets, dropping empty parts.
func splitTop(toks []token, sep string) [][]token {
	var out [][]token
	var cur []token
	depth := 0
	for _, t := range toks {
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		}
		if t.text == sep && depth == 0 {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// joinTokens renders tokens back to text, separating only words.
func joinTokens(toks []token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			prev := toks[i-1]
			if (prev.kind == tokIdent || prev.kind == tokNumber) && (t.kind == tokIdent || t.kind == tokNumber) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.text)
	}
	return b.String()
}
