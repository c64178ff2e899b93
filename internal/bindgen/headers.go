package bindgen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
)

// Header is one file of the transitive include set.
type Header struct {
	// Path is the absolute file path.
	Path string
	// Rel is Path relative to the module root, slash separated.
	Rel string
	// Sum is the SHA-256 of Data.
	Sum  string
	Data []byte
}

// HeaderSet is the entry header plus everything it includes with quotes,
// in first-seen depth-first order.
type HeaderSet struct {
	Entry   string
	Headers []Header
}

// Inputs returns the manifest of the set.
func (s *HeaderSet) Inputs() []Input {
	out := make([]Input, len(s.Headers))
	for i, h := range s.Headers {
		out[i] = Input{Path: h.Rel, Sum: h.Sum}
	}
	return out
}

// Lookup returns the header with the given root-relative path.
func (s *HeaderSet) Lookup(rel string) (*Header, bool) {
	for i := range s.Headers {
		if s.Headers[i].Rel == rel {
			return &s.Headers[i], true
		}
	}
	return nil, false
}

var includeRe = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*include[ \t]*([<"])([^>"\n]+)[>"]`)

// ResolveHeaders walks the quoted includes of the entry header. Quoted
// includes are searched in the including file's directory first and then
// in the configured include directories; angle-bracket includes are
// system headers and are not followed. A quoted include that cannot be
// found is an error.
func (c *Config) ResolveHeaders(root string) (*HeaderSet, error) {
	if err := c.CheckIncludeDirs(root); err != nil {
		return nil, err
	}

	dirs := make([]string, len(c.IncludeDirs))
	for i, d := range c.IncludeDirs {
		dirs[i] = abs(root, d)
	}

	entry := abs(root, c.EntryHeader)
	set := &HeaderSet{Entry: relTo(root, entry)}
	seen := make(map[string]bool)

	var visit func(path, from string) error
	visit = func(path, from string) error {
		if seen[path] {
			return nil
		}
		seen[path] = true

		data, err := os.ReadFile(path)
		if err != nil {
			return wrapError(PhaseResolve, KindNotFound, path, err, "read header (included from "+from+")")
		}
		sum := sha256.Sum256(data)
		set.Headers = append(set.Headers, Header{
			Path: path,
			Rel:  relTo(root, path),
			Sum:  hex.EncodeToString(sum[:]),
			Data: data,
		})

		for _, m := range includeRe.FindAllSubmatch(stripComments(data), -1) {
			if string(m[1]) == "<" {
				continue
			}
			name := string(m[2])
			next, ok := findInclude(name, filepath.Dir(path), dirs)
			if !ok {
				return newError(PhaseResolve, KindNotFound, relTo(root, path),
					"cannot find included header %q in %d include dirs", name, len(dirs))
			}
			if err := visit(next, relTo(root, path)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(entry, "config"); err != nil {
		return nil, err
	}
	Logger().Debug("resolved headers")
	return set, nil
}

func findInclude(name, curDir string, dirs []string) (string, bool) {
	candidates := append([]string{curDir}, dirs...)
	for _, d := range candidates {
		p := filepath.Join(d, filepath.FromSlash(name))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return filepath.Clean(p), true
		}
	}
	return "", false
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// stripComments blanks out C and C++ comments while keeping newlines, so
// line numbers stay valid. String and character literals are left alone.
func stripComments(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		ch := src[i]
		switch {
		case ch == '"' || ch == '\'':
			j := i + 1
			for j < len(src) && src[j] != ch && src[j] != '\n' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				j = len(src) - 1
			}
			out = append(out, src[i:j+1]...)
			i = j
		case ch == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				out = append(out, '\n')
			}
		case ch == '/' && i+1 < len(src) && src[i+1] == '*':
			end := bytes.Index(src[i+2:], []byte("*/"))
			var body []byte
			if end < 0 {
				body = src[i:]
				i = len(src)
			} else {
				body = src[i : i+2+end+2]
				i += 2 + end + 1
			}
			out = append(out, ' ')
			for _, b := range body {
				if b == '\n' {
					out = append(out, '\n')
				}
			}
		default:
			out = append(out, ch)
		}
	}
	return out
}
