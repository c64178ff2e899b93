package bindgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which pipeline stage failed.
type Phase string

const (
	PhaseConfig  Phase = "config"  // bindgen.yaml loading and validation
	PhaseLocate  Phase = "locate"  // module root and prebuilt artifact
	PhaseResolve Phase = "resolve" // transitive header set
	PhaseParse   Phase = "parse"   // declaration scanning
	PhaseEmit    Phase = "emit"    // Go source rendering
	PhaseWrite   Phase = "write"   // output files
)

// Kind categorizes the error.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindInvalid     Kind = "invalid"
	KindSyntax      Kind = "syntax"
	KindUnsupported Kind = "unsupported"
	KindIO          Kind = "io"
	KindExec        Kind = "exec"
)

// ErrStale is returned by Check when a generated file no longer matches
// its inputs.
var ErrStale = errors.New("bindgen: generated files are stale")

// Error is the structured error returned by every pipeline stage.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Path   string
	Line   int
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("bindgen: [")
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(e.Line))
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same phase and kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

func newError(phase Phase, kind Kind, path string, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
	}
}

func wrapError(phase Phase, kind Kind, path string, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Path:   path,
		Detail: detail,
		Cause:  cause,
	}
}

func syntaxError(path string, line int, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Path:   path,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	}
}
