//go:generate go run ../cmd/cronet-bindgen --root .. generate

package capi

// This file triggers generation of the declarations and the link
// preamble of internal/ffi.
// Run: go generate ./capi
//
// The generation process:
// 1. locate libcronet_static.a in the chromium release build
// 2. resolve every header reachable from include/cronet_wrapper.h
// 3. scan the headers and render one declaration per native symbol
//
// The inputs' SHA-256 sums are recorded in the generated file; a rerun
// with unchanged headers leaves it alone. Use "check" in CI to fail on
// stale output.
