package main

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/XOR-op/cronet-go/internal/bindgen"
)

var errDoctor = errors.New("doctor checks failed")

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true) // green
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true) // red
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // grey
	nameStyle = lipgloss.NewStyle().Width(18)
)

// checkStatus is the outcome of one doctor check.
type checkStatus int

const (
	statusPass checkStatus = iota
	statusFail
	statusSkip
)

type checkResult struct {
	name   string
	status checkStatus
	detail string
}

func (r checkResult) render() string {
	var mark string
	switch r.status {
	case statusPass:
		mark = passStyle.Render("ok  ")
	case statusFail:
		mark = failStyle.Render("FAIL")
	default:
		mark = skipStyle.Render("skip")
	}
	return mark + " " + nameStyle.Render(r.name) + " " + r.detail
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the native build setup",
		Long: `doctor checks each precondition of generate in turn: a supported host,
the prebuilt library, the include directories, the header set, the
translator and the freshness of the generated files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runDoctor(cmd)
			return printResults(cmd.OutOrStdout(), results)
		},
	}
}

func runDoctor(cmd *cobra.Command) []checkResult {
	root := generator.Root()
	var results []checkResult
	add := func(name string, err error, ok string) bool {
		if err != nil {
			results = append(results, checkResult{name: name, status: statusFail, detail: err.Error()})
			return false
		}
		results = append(results, checkResult{name: name, status: statusPass, detail: ok})
		return true
	}
	skip := func(name, why string) {
		results = append(results, checkResult{name: name, status: statusSkip, detail: why})
	}

	host := bindgen.HostPlatform()
	if desc, ok := bindgen.SupportedPlatform(host); ok {
		add("host platform", nil, desc)
	} else {
		add("host platform", fmt.Errorf("%s has no known build; supported: %s",
			host, strings.Join(bindgen.SupportedPlatforms(), ", ")), "")
	}

	artifact, err := cfg.LocateArtifact(root)
	detail := ""
	if artifact != nil {
		detail = fmt.Sprintf("%s (%d bytes)", artifact.Path, artifact.Size)
	}
	ready := add("static library", err, detail)

	ready = add("include dirs", cfg.CheckIncludeDirs(root), fmt.Sprintf("%d directories", len(cfg.IncludeDirs))) && ready

	set, err := cfg.ResolveHeaders(root)
	detail = ""
	if set != nil {
		detail = fmt.Sprintf("%d headers from %s", len(set.Headers), set.Entry)
	}
	ready = add("headers", err, detail) && ready

	if cfg.Translator == bindgen.TranslatorClang {
		path, err := exec.LookPath(cfg.Clang)
		ready = add("clang", err, path) && ready
	} else {
		skip("clang", "builtin translator selected")
	}

	if !ready {
		skip("generated files", "fix the failures above first")
		return results
	}
	stale, err := generator.Check(cmd.Context())
	if err != nil && len(stale) > 0 {
		files := make([]string, len(stale))
		for i, s := range stale {
			files[i] = s.File + " (" + s.Reason + ")"
		}
		err = fmt.Errorf("%s; run go generate ./capi", strings.Join(files, ", "))
	}
	add("generated files", err, "up to date")
	return results
}

func printResults(w io.Writer, results []checkResult) error {
	failed := 0
	for _, r := range results {
		fmt.Fprintln(w, r.render())
		if r.status == statusFail {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d failed", errDoctor, failed)
	}
	return nil
}
