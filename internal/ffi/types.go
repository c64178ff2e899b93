package ffi

/*
#include "cronet_wrapper.h"
*/
import "C"

// Result is a Cronet_RESULT code returned by engine calls.
type Result int

const (
	ResultSuccess Result = C.Cronet_RESULT_SUCCESS

	ResultIllegalArgument                     Result = C.Cronet_RESULT_ILLEGAL_ARGUMENT
	ResultIllegalArgumentStoragePathMustExist Result = C.Cronet_RESULT_ILLEGAL_ARGUMENT_STORAGE_PATH_MUST_EXIST
	ResultIllegalArgumentInvalidPin           Result = C.Cronet_RESULT_ILLEGAL_ARGUMENT_INVALID_PIN
	ResultIllegalArgumentInvalidHostname      Result = C.Cronet_RESULT_ILLEGAL_ARGUMENT_INVALID_HOSTNAME
	ResultIllegalArgumentInvalidHTTPMethod    Result = C.Cronet_RESULT_ILLEGAL_ARGUMENT_INVALID_HTTP_METHOD
	ResultIllegalArgumentInvalidHTTPHeader    Result = C.Cronet_RESULT_ILLEGAL_ARGUMENT_INVALID_HTTP_HEADER

	ResultIllegalState                                Result = C.Cronet_RESULT_ILLEGAL_STATE
	ResultIllegalStateStoragePathInUse                Result = C.Cronet_RESULT_ILLEGAL_STATE_STORAGE_PATH_IN_USE
	ResultIllegalStateCannotShutdownFromNetworkThread Result = C.Cronet_RESULT_ILLEGAL_STATE_CANNOT_SHUTDOWN_ENGINE_FROM_NETWORK_THREAD
	ResultIllegalStateEngineAlreadyStarted            Result = C.Cronet_RESULT_ILLEGAL_STATE_ENGINE_ALREADY_STARTED
	ResultIllegalStateRequestAlreadyStarted           Result = C.Cronet_RESULT_ILLEGAL_STATE_REQUEST_ALREADY_STARTED
	ResultIllegalStateRequestNotInitialized           Result = C.Cronet_RESULT_ILLEGAL_STATE_REQUEST_NOT_INITIALIZED
	ResultIllegalStateRequestAlreadyInitialized       Result = C.Cronet_RESULT_ILLEGAL_STATE_REQUEST_ALREADY_INITIALIZED
	ResultIllegalStateRequestNotStarted               Result = C.Cronet_RESULT_ILLEGAL_STATE_REQUEST_NOT_STARTED
	ResultIllegalStateUnexpectedRedirect              Result = C.Cronet_RESULT_ILLEGAL_STATE_UNEXPECTED_REDIRECT
	ResultIllegalStateUnexpectedRead                  Result = C.Cronet_RESULT_ILLEGAL_STATE_UNEXPECTED_READ
	ResultIllegalStateReadFailed                      Result = C.Cronet_RESULT_ILLEGAL_STATE_READ_FAILED

	ResultNullPointer                                Result = C.Cronet_RESULT_NULL_POINTER
	ResultNullPointerHostname                        Result = C.Cronet_RESULT_NULL_POINTER_HOSTNAME
	ResultNullPointerSHA256Pins                      Result = C.Cronet_RESULT_NULL_POINTER_SHA256_PINS
	ResultNullPointerExpirationDate                  Result = C.Cronet_RESULT_NULL_POINTER_EXPIRATION_DATE
	ResultNullPointerEngine                          Result = C.Cronet_RESULT_NULL_POINTER_ENGINE
	ResultNullPointerURL                             Result = C.Cronet_RESULT_NULL_POINTER_URL
	ResultNullPointerCallback                        Result = C.Cronet_RESULT_NULL_POINTER_CALLBACK
	ResultNullPointerExecutor                        Result = C.Cronet_RESULT_NULL_POINTER_EXECUTOR
	ResultNullPointerMethod                          Result = C.Cronet_RESULT_NULL_POINTER_METHOD
	ResultNullPointerHeaderName                      Result = C.Cronet_RESULT_NULL_POINTER_HEADER_NAME
	ResultNullPointerHeaderValue                     Result = C.Cronet_RESULT_NULL_POINTER_HEADER_VALUE
	ResultNullPointerParams                          Result = C.Cronet_RESULT_NULL_POINTER_PARAMS
	ResultNullPointerRequestFinishedListenerExecutor Result = C.Cronet_RESULT_NULL_POINTER_REQUEST_FINISHED_INFO_LISTENER_EXECUTOR
)

// CacheMode is a Cronet_EngineParams_HTTP_CACHE_MODE value.
type CacheMode int

const (
	CacheDisabled   CacheMode = C.Cronet_EngineParams_HTTP_CACHE_MODE_DISABLED
	CacheInMemory   CacheMode = C.Cronet_EngineParams_HTTP_CACHE_MODE_IN_MEMORY
	CacheDiskNoHTTP CacheMode = C.Cronet_EngineParams_HTTP_CACHE_MODE_DISK_NO_HTTP
	CacheDisk       CacheMode = C.Cronet_EngineParams_HTTP_CACHE_MODE_DISK
)
