package bindgen

import (
	"bufio"
	"bytes"
	"os"
	"regexp"
	"strings"
)

// Input is one hashed header recorded in a generated file.
type Input struct {
	Path string
	Sum  string
}

var inputLineRe = regexp.MustCompile(`^//\tsha256:([0-9a-f]{64}) (\S+)$`)

// renderInputs writes the manifest block that follows the generated-code
// banner.
func renderInputs(inputs []Input) string {
	var b strings.Builder
	b.WriteString("//\n// Inputs:\n")
	for _, in := range inputs {
		b.WriteString("//\tsha256:")
		b.WriteString(in.Sum)
		b.WriteByte(' ')
		b.WriteString(in.Path)
		b.WriteByte('\n')
	}
	return b.String()
}

// parseInputs extracts the manifest from a generated file. It stops at the
// first line that is not a comment.
func parseInputs(src []byte) []Input {
	var out []Input
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "//") {
			break
		}
		if m := inputLineRe.FindStringSubmatch(line); m != nil {
			out = append(out, Input{Path: m[2], Sum: m[1]})
		}
	}
	return out
}

// ReadInputs returns the manifest recorded in the generated file at path.
// A missing file yields a nil manifest and no error.
func ReadInputs(path string) ([]Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, wrapError(PhaseWrite, KindIO, path, err, "read generated file")
	}
	return parseInputs(data), nil
}

// Change describes how one input differs between two manifests.
type Change struct {
	Path string
	// Status is "added", "removed" or "modified".
	Status string
}

// DiffInputs compares a recorded manifest with the current one. Order
// changes count as modifications of the moved entries.
func DiffInputs(recorded, current []Input) []Change {
	old := make(map[string]string, len(recorded))
	for _, in := range recorded {
		old[in.Path] = in.Sum
	}

	var out []Change
	seen := make(map[string]bool, len(current))
	for i, in := range current {
		seen[in.Path] = true
		sum, ok := old[in.Path]
		switch {
		case !ok:
			out = append(out, Change{Path: in.Path, Status: "added"})
		case sum != in.Sum:
			out = append(out, Change{Path: in.Path, Status: "modified"})
		case i >= len(recorded) || recorded[i].Path != in.Path:
			out = append(out, Change{Path: in.Path, Status: "modified"})
		}
	}
	for _, in := range recorded {
		if !seen[in.Path] {
			out = append(out, Change{Path: in.Path, Status: "removed"})
		}
	}
	return out
}
