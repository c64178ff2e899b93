// Package capi re-exports the Cronet C API verbatim.
//
// Every function, type, enum and constant reachable from
// include/cronet_wrapper.h is declared under its native name, so code
// written against the C headers reads the same in Go:
//
//	engine := capi.Cronet_Engine_Create()
//	params := capi.Cronet_EngineParams_Create()
//	ua := capi.CString("CronetSample/1")
//	capi.Cronet_EngineParams_user_agent_set(params, ua)
//	capi.Cronet_EngineParams_enable_quic_set(params, true)
//	capi.Cronet_Engine_StartWithParams(engine, params)
//	capi.Cronet_EngineParams_Destroy(params)
//	capi.Free(ua)
//
// Names that start with a lower-case letter, such as the
// bidirectional_stream_ functions, are exported with that letter
// upper-cased. Nothing else is renamed or checked: handle validity and
// thread safety are whatever the native library documents.
//
// The declarations live in zcapi_generated.go, which is not committed.
// Build the native library, then run:
//
//	go generate ./capi
package capi
