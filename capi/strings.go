package capi

/*
#include <stdlib.h>
#include "cronet_wrapper.h"
*/
import "C"
import "unsafe"

// CString copies s into C memory. Release it with Free once the native
// call that receives it has returned.
func CString(s string) Cronet_String {
	return Cronet_String(C.CString(s))
}

// GoString copies a native string. A nil string yields "".
func GoString(s Cronet_String) string {
	if s == nil {
		return ""
	}
	return C.GoString((*C.char)(s))
}

// Free releases a string returned by CString.
func Free(s Cronet_String) {
	C.free(unsafe.Pointer(s))
}
