package cronet

import "errors"

// Errors that can be returned by the cronet package.
var (
	// ErrClosed is returned by any method called after Close or Destroy.
	ErrClosed = errors.New("cronet: handle already closed")

	// ErrCreateFailed is returned when the native library cannot allocate
	// a handle.
	ErrCreateFailed = errors.New("cronet: native library returned a null handle")

	// ErrInvalidOption is returned when an option is rejected before it
	// reaches the native library.
	ErrInvalidOption = errors.New("cronet: invalid option")

	// ErrNetLog is returned when the NetLog file cannot be opened.
	ErrNetLog = errors.New("cronet: cannot start netlog")

	// ErrIllegalArgument matches every ILLEGAL_ARGUMENT result code.
	ErrIllegalArgument = errors.New("cronet: illegal argument")

	// ErrIllegalState matches every ILLEGAL_STATE result code.
	ErrIllegalState = errors.New("cronet: illegal state")

	// ErrNullPointer matches every NULL_POINTER result code.
	ErrNullPointer = errors.New("cronet: null pointer")
)
