// Package ffi provides CGo bindings to the Cronet native C API.
//
// # Building
//
// The package links the prebuilt static library from a Chromium release
// build checked out next to this module:
//
//	../chromium/out/Release/obj/components/cronet/libcronet_static.a
//
// The search path, library and platform frameworks come from
// zlink_generated.go, which cronet-bindgen renders from bindgen.yaml.
//
// # Build Errors
//
// If you see linker errors about missing Cronet_ symbols, the static
// library has not been built. Run:
//
//	go run ./cmd/cronet-bindgen doctor
package ffi

/*
#include "cronet_wrapper.h"
#include <stdlib.h>
*/
import "C"
import (
	"unsafe"
)

// Engine wraps the native engine handle.
type Engine struct {
	ptr C.Cronet_EnginePtr
}

// NewEngine creates a native engine. It returns nil if the library could
// not allocate one.
func NewEngine() *Engine {
	ptr := C.Cronet_Engine_Create()
	if ptr == nil {
		return nil
	}
	return &Engine{ptr: ptr}
}

// Destroy releases the engine
func (e *Engine) Destroy() {
	if e != nil && e.ptr != nil {
		C.Cronet_Engine_Destroy(e.ptr)
		e.ptr = nil
	}
}

// Valid reports whether the handle has not been destroyed.
func (e *Engine) Valid() bool {
	return e != nil && e.ptr != nil
}

// StartWithParams starts the engine. Params are copied by the library and
// may be destroyed afterwards.
func (e *Engine) StartWithParams(p *EngineParams) Result {
	if !e.Valid() {
		return ResultNullPointerEngine
	}
	if !p.Valid() {
		return ResultNullPointerParams
	}
	return Result(C.Cronet_Engine_StartWithParams(e.ptr, p.ptr))
}

// Shutdown stops the network thread. It must not be called from the
// engine's own network thread.
func (e *Engine) Shutdown() Result {
	if !e.Valid() {
		return ResultNullPointerEngine
	}
	return Result(C.Cronet_Engine_Shutdown(e.ptr))
}

// Version returns the library version string
func (e *Engine) Version() string {
	if !e.Valid() {
		return ""
	}
	return goString(C.Cronet_Engine_GetVersionString(e.ptr))
}

// DefaultUserAgent returns the user agent the engine sends when none is set.
func (e *Engine) DefaultUserAgent() string {
	if !e.Valid() {
		return ""
	}
	return goString(C.Cronet_Engine_GetDefaultUserAgent(e.ptr))
}

// StartNetLogToFile starts writing a NetLog to path. It returns false if
// the file could not be opened.
func (e *Engine) StartNetLogToFile(path string, logAll bool) bool {
	if !e.Valid() {
		return false
	}
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	return bool(C.Cronet_Engine_StartNetLogToFile(e.ptr, C.Cronet_String(cPath), C.bool(logAll)))
}

// StopNetLog stops NetLog recording and flushes the file.
func (e *Engine) StopNetLog() {
	if e.Valid() {
		C.Cronet_Engine_StopNetLog(e.ptr)
	}
}

// EngineParams wraps the native engine parameter object.
type EngineParams struct {
	ptr C.Cronet_EngineParamsPtr
}

// NewEngineParams creates a parameter object with library defaults.
func NewEngineParams() *EngineParams {
	ptr := C.Cronet_EngineParams_Create()
	if ptr == nil {
		return nil
	}
	return &EngineParams{ptr: ptr}
}

// Destroy releases the parameter object
func (p *EngineParams) Destroy() {
	if p != nil && p.ptr != nil {
		C.Cronet_EngineParams_Destroy(p.ptr)
		p.ptr = nil
	}
}

// Valid reports whether the handle has not been destroyed.
func (p *EngineParams) Valid() bool {
	return p != nil && p.ptr != nil
}

// withString passes s to fn as a C string that lives for the call.
func withString(s string, fn func(C.Cronet_String)) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	fn(C.Cronet_String(cs))
}

func goString(s C.Cronet_String) string {
	if s == nil {
		return ""
	}
	return C.GoString((*C.char)(s))
}

// SetUserAgent sets the User-Agent header for all requests.
func (p *EngineParams) SetUserAgent(ua string) {
	withString(ua, func(s C.Cronet_String) {
		C.Cronet_EngineParams_user_agent_set(p.ptr, s)
	})
}

// UserAgent returns the configured User-Agent.
func (p *EngineParams) UserAgent() string {
	return goString(C.Cronet_EngineParams_user_agent_get(p.ptr))
}

// SetAcceptLanguage sets the Accept-Language header for all requests.
func (p *EngineParams) SetAcceptLanguage(lang string) {
	withString(lang, func(s C.Cronet_String) {
		C.Cronet_EngineParams_accept_language_set(p.ptr, s)
	})
}

// SetStoragePath sets the directory used for the disk cache and
// persistent state.
func (p *EngineParams) SetStoragePath(path string) {
	withString(path, func(s C.Cronet_String) {
		C.Cronet_EngineParams_storage_path_set(p.ptr, s)
	})
}

// SetEnableQuic enables the QUIC protocol.
func (p *EngineParams) SetEnableQuic(enable bool) {
	C.Cronet_EngineParams_enable_quic_set(p.ptr, C.bool(enable))
}

// EnableQuic reports whether QUIC is enabled.
func (p *EngineParams) EnableQuic() bool {
	return bool(C.Cronet_EngineParams_enable_quic_get(p.ptr))
}

// SetEnableHTTP2 enables HTTP/2.
func (p *EngineParams) SetEnableHTTP2(enable bool) {
	C.Cronet_EngineParams_enable_http2_set(p.ptr, C.bool(enable))
}

// SetEnableBrotli enables Brotli content decoding.
func (p *EngineParams) SetEnableBrotli(enable bool) {
	C.Cronet_EngineParams_enable_brotli_set(p.ptr, C.bool(enable))
}

// SetEnableCheckResult makes the library abort on API misuse instead of
// returning an error code.
func (p *EngineParams) SetEnableCheckResult(enable bool) {
	C.Cronet_EngineParams_enable_check_result_set(p.ptr, C.bool(enable))
}

// SetHTTPCacheMode selects the HTTP cache backend.
func (p *EngineParams) SetHTTPCacheMode(mode CacheMode) {
	C.Cronet_EngineParams_http_cache_mode_set(p.ptr, C.Cronet_EngineParams_HTTP_CACHE_MODE(mode))
}

// SetHTTPCacheMaxSize sets the cache size limit in bytes.
func (p *EngineParams) SetHTTPCacheMaxSize(bytes int64) {
	C.Cronet_EngineParams_http_cache_max_size_set(p.ptr, C.int64_t(bytes))
}

// AddQuicHint tells the engine that host supports QUIC on port. The hint
// is copied into the parameter object.
func (p *EngineParams) AddQuicHint(host string, port, alternatePort int32) {
	hint := C.Cronet_QuicHint_Create()
	defer C.Cronet_QuicHint_Destroy(hint)

	withString(host, func(s C.Cronet_String) {
		C.Cronet_QuicHint_host_set(hint, s)
	})
	C.Cronet_QuicHint_port_set(hint, C.int32_t(port))
	C.Cronet_QuicHint_alternate_port_set(hint, C.int32_t(alternatePort))
	C.Cronet_EngineParams_quic_hints_add(p.ptr, hint)
}

// AddPublicKeyPins pins host to the given base64 SHA-256 SPKI hashes until
// expirationMs (milliseconds since the Unix epoch).
func (p *EngineParams) AddPublicKeyPins(host string, pinsSHA256 []string, includeSubdomains bool, expirationMs int64) {
	pins := C.Cronet_PublicKeyPins_Create()
	defer C.Cronet_PublicKeyPins_Destroy(pins)

	withString(host, func(s C.Cronet_String) {
		C.Cronet_PublicKeyPins_host_set(pins, s)
	})
	for _, pin := range pinsSHA256 {
		withString(pin, func(s C.Cronet_String) {
			C.Cronet_PublicKeyPins_pins_sha256_add(pins, s)
		})
	}
	C.Cronet_PublicKeyPins_include_subdomains_set(pins, C.bool(includeSubdomains))
	C.Cronet_PublicKeyPins_expiration_date_set(pins, C.int64_t(expirationMs))
	C.Cronet_EngineParams_public_key_pins_add(p.ptr, pins)
}

// SetPublicKeyPinningBypass allows pins to be bypassed for certificates
// chaining to locally installed trust anchors.
func (p *EngineParams) SetPublicKeyPinningBypass(enable bool) {
	C.Cronet_EngineParams_enable_public_key_pinning_bypass_for_local_trust_anchors_set(p.ptr, C.bool(enable))
}

// SetNetworkThreadPriority sets the network thread priority. Values are
// platform specific; NaN keeps the platform default.
func (p *EngineParams) SetNetworkThreadPriority(priority float64) {
	C.Cronet_EngineParams_network_thread_priority_set(p.ptr, C.double(priority))
}

// SetExperimentalOptions passes a JSON object of experimental options.
func (p *EngineParams) SetExperimentalOptions(json string) {
	withString(json, func(s C.Cronet_String) {
		C.Cronet_EngineParams_experimental_options_set(p.ptr, s)
	})
}
