package cronet

import (
	"fmt"

	"github.com/XOR-op/cronet-go/internal/ffi"
)

// ResultCode is a Cronet_RESULT value. Zero is success; the hundreds digit
// gives the class: -1xx illegal argument, -2xx illegal state, -3xx null
// pointer. The values come from the native headers.
type ResultCode int

const (
	ResultSuccess = ResultCode(ffi.ResultSuccess)

	ResultIllegalArgument                     = ResultCode(ffi.ResultIllegalArgument)
	ResultIllegalArgumentStoragePathMustExist = ResultCode(ffi.ResultIllegalArgumentStoragePathMustExist)
	ResultIllegalArgumentInvalidPin           = ResultCode(ffi.ResultIllegalArgumentInvalidPin)
	ResultIllegalArgumentInvalidHostname      = ResultCode(ffi.ResultIllegalArgumentInvalidHostname)
	ResultIllegalArgumentInvalidHTTPMethod    = ResultCode(ffi.ResultIllegalArgumentInvalidHTTPMethod)
	ResultIllegalArgumentInvalidHTTPHeader    = ResultCode(ffi.ResultIllegalArgumentInvalidHTTPHeader)

	ResultIllegalState                                = ResultCode(ffi.ResultIllegalState)
	ResultIllegalStateStoragePathInUse                = ResultCode(ffi.ResultIllegalStateStoragePathInUse)
	ResultIllegalStateCannotShutdownFromNetworkThread = ResultCode(ffi.ResultIllegalStateCannotShutdownFromNetworkThread)
	ResultIllegalStateEngineAlreadyStarted            = ResultCode(ffi.ResultIllegalStateEngineAlreadyStarted)
	ResultIllegalStateRequestAlreadyStarted           = ResultCode(ffi.ResultIllegalStateRequestAlreadyStarted)
	ResultIllegalStateRequestNotInitialized           = ResultCode(ffi.ResultIllegalStateRequestNotInitialized)
	ResultIllegalStateRequestAlreadyInitialized       = ResultCode(ffi.ResultIllegalStateRequestAlreadyInitialized)
	ResultIllegalStateRequestNotStarted               = ResultCode(ffi.ResultIllegalStateRequestNotStarted)
	ResultIllegalStateUnexpectedRedirect              = ResultCode(ffi.ResultIllegalStateUnexpectedRedirect)
	ResultIllegalStateUnexpectedRead                  = ResultCode(ffi.ResultIllegalStateUnexpectedRead)
	ResultIllegalStateReadFailed                      = ResultCode(ffi.ResultIllegalStateReadFailed)

	ResultNullPointer                                = ResultCode(ffi.ResultNullPointer)
	ResultNullPointerHostname                        = ResultCode(ffi.ResultNullPointerHostname)
	ResultNullPointerSHA256Pins                      = ResultCode(ffi.ResultNullPointerSHA256Pins)
	ResultNullPointerExpirationDate                  = ResultCode(ffi.ResultNullPointerExpirationDate)
	ResultNullPointerEngine                          = ResultCode(ffi.ResultNullPointerEngine)
	ResultNullPointerURL                             = ResultCode(ffi.ResultNullPointerURL)
	ResultNullPointerCallback                        = ResultCode(ffi.ResultNullPointerCallback)
	ResultNullPointerExecutor                        = ResultCode(ffi.ResultNullPointerExecutor)
	ResultNullPointerMethod                          = ResultCode(ffi.ResultNullPointerMethod)
	ResultNullPointerHeaderName                      = ResultCode(ffi.ResultNullPointerHeaderName)
	ResultNullPointerHeaderValue                     = ResultCode(ffi.ResultNullPointerHeaderValue)
	ResultNullPointerParams                          = ResultCode(ffi.ResultNullPointerParams)
	ResultNullPointerRequestFinishedListenerExecutor = ResultCode(ffi.ResultNullPointerRequestFinishedListenerExecutor)
)

var resultNames = map[ResultCode]string{
	ResultSuccess: "SUCCESS",

	ResultIllegalArgument:                     "ILLEGAL_ARGUMENT",
	ResultIllegalArgumentStoragePathMustExist: "ILLEGAL_ARGUMENT_STORAGE_PATH_MUST_EXIST",
	ResultIllegalArgumentInvalidPin:           "ILLEGAL_ARGUMENT_INVALID_PIN",
	ResultIllegalArgumentInvalidHostname:      "ILLEGAL_ARGUMENT_INVALID_HOSTNAME",
	ResultIllegalArgumentInvalidHTTPMethod:    "ILLEGAL_ARGUMENT_INVALID_HTTP_METHOD",
	ResultIllegalArgumentInvalidHTTPHeader:    "ILLEGAL_ARGUMENT_INVALID_HTTP_HEADER",

	ResultIllegalState:                                "ILLEGAL_STATE",
	ResultIllegalStateStoragePathInUse:                "ILLEGAL_STATE_STORAGE_PATH_IN_USE",
	ResultIllegalStateCannotShutdownFromNetworkThread: "ILLEGAL_STATE_CANNOT_SHUTDOWN_ENGINE_FROM_NETWORK_THREAD",
	ResultIllegalStateEngineAlreadyStarted:            "ILLEGAL_STATE_ENGINE_ALREADY_STARTED",
	ResultIllegalStateRequestAlreadyStarted:           "ILLEGAL_STATE_REQUEST_ALREADY_STARTED",
	ResultIllegalStateRequestNotInitialized:           "ILLEGAL_STATE_REQUEST_NOT_INITIALIZED",
	ResultIllegalStateRequestAlreadyInitialized:       "ILLEGAL_STATE_REQUEST_ALREADY_INITIALIZED",
	ResultIllegalStateRequestNotStarted:               "ILLEGAL_STATE_REQUEST_NOT_STARTED",
	ResultIllegalStateUnexpectedRedirect:              "ILLEGAL_STATE_UNEXPECTED_REDIRECT",
	ResultIllegalStateUnexpectedRead:                  "ILLEGAL_STATE_UNEXPECTED_READ",
	ResultIllegalStateReadFailed:                      "ILLEGAL_STATE_READ_FAILED",

	ResultNullPointer:                                "NULL_POINTER",
	ResultNullPointerHostname:                        "NULL_POINTER_HOSTNAME",
	ResultNullPointerSHA256Pins:                      "NULL_POINTER_SHA256_PINS",
	ResultNullPointerExpirationDate:                  "NULL_POINTER_EXPIRATION_DATE",
	ResultNullPointerEngine:                          "NULL_POINTER_ENGINE",
	ResultNullPointerURL:                             "NULL_POINTER_URL",
	ResultNullPointerCallback:                        "NULL_POINTER_CALLBACK",
	ResultNullPointerExecutor:                        "NULL_POINTER_EXECUTOR",
	ResultNullPointerMethod:                          "NULL_POINTER_METHOD",
	ResultNullPointerHeaderName:                      "NULL_POINTER_HEADER_NAME",
	ResultNullPointerHeaderValue:                     "NULL_POINTER_HEADER_VALUE",
	ResultNullPointerParams:                          "NULL_POINTER_PARAMS",
	ResultNullPointerRequestFinishedListenerExecutor: "NULL_POINTER_REQUEST_FINISHED_INFO_LISTENER_EXECUTOR",
}

// String returns the native name of the code without the Cronet_RESULT_
// prefix.
func (c ResultCode) String() string {
	if name, ok := resultNames[c]; ok {
		return name
	}
	return fmt.Sprintf("RESULT(%d)", int(c))
}

// class returns the sentinel error for the code's class, or nil.
func (c ResultCode) class() error {
	switch {
	case c <= -100 && c > -200:
		return ErrIllegalArgument
	case c <= -200 && c > -300:
		return ErrIllegalState
	case c <= -300 && c > -400:
		return ErrNullPointer
	default:
		return nil
	}
}

// ResultError is returned when a native call reports a non-success
// result code.
type ResultError struct {
	Op   string
	Code ResultCode
}

// Error implements the error interface
func (e *ResultError) Error() string {
	return fmt.Sprintf("cronet: %s: %s (%d)", e.Op, e.Code, int(e.Code))
}

// Is reports whether target is the class sentinel of the code, or a
// *ResultError with the same code.
func (e *ResultError) Is(target error) bool {
	if t, ok := target.(*ResultError); ok {
		return e.Code == t.Code
	}
	class := e.Code.class()
	return class != nil && target == class
}

// resultError converts a native result into an error. Success is nil.
func resultError(op string, r ffi.Result) error {
	if r == ffi.ResultSuccess {
		return nil
	}
	return &ResultError{Op: op, Code: ResultCode(r)}
}
