// Package bindgen configures the build of the Cronet bindings against a
// prebuilt libcronet_static.a.
//
// # Main Types
//
//   - Config: artifact location, include dirs, platforms and outputs,
//     loaded from bindgen.yaml
//   - Generator: runs the pipeline and writes or checks its outputs
//   - Translator: turns the header set into scannable source units
//   - DeclSet: the merged declarations of every header
//
// # Pipeline
//
//  1. Locate the static library in the artifact directory
//  2. Resolve the headers reachable from the entry header
//  3. Translate them (raw text, or clang -E -dD split by line markers)
//  4. Scan each unit for typedefs, enums, prototypes and integer macros
//  5. Render the link preamble and the declaration file
//
// Every stage returns an *Error carrying its Phase and Kind. Nothing is
// written unless all stages succeed.
//
// # Rebuild Trigger
//
// The declaration file records the SHA-256 of every input header. Generate
// skips it while the recorded sums match; Check reports which headers
// were added, removed or modified.
//
// # Example
//
//	cfg, _ := LoadConfig("bindgen.yaml")
//	g, _ := New(cfg, ".")
//	report, err := g.Generate(ctx, false)
package bindgen
