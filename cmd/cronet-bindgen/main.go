// Command cronet-bindgen configures the build against the prebuilt Cronet
// static library: it writes the cgo link preamble of internal/ffi and the
// verbatim declarations of package capi.
//
// Usage:
//
//	cronet-bindgen generate [--force]
//	cronet-bindgen check
//	cronet-bindgen link [--goos darwin] [--goarch arm64]
//	cronet-bindgen headers
//	cronet-bindgen doctor
//	cronet-bindgen version
//
// It is normally run through go generate ./capi.
package main

import "go.uber.org/zap"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		log := logger
		if log == nil {
			log = zap.NewExample()
		}
		log.Fatal("cronet-bindgen failed", zap.Error(err))
	}
}
