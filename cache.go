package cronet

import (
	"fmt"
	"strings"

	"github.com/XOR-op/cronet-go/internal/ffi"
)

// CacheMode selects the HTTP cache backend of an engine.
type CacheMode int

const (
	// CacheDisabled turns the HTTP cache off. Some data may still be held in
	// memory for the lifetime of a request.
	CacheDisabled = CacheMode(ffi.CacheDisabled)

	// CacheInMemory keeps cached responses in memory only.
	CacheInMemory = CacheMode(ffi.CacheInMemory)

	// CacheDiskNoHTTP stores non-HTTP data such as cookies and alternate
	// protocol hints on disk, but does not cache HTTP responses.
	// Requires a storage path.
	CacheDiskNoHTTP = CacheMode(ffi.CacheDiskNoHTTP)

	// CacheDisk caches HTTP responses and other data on disk.
	// Requires a storage path.
	CacheDisk = CacheMode(ffi.CacheDisk)
)

// String returns the string representation of the cache mode.
func (m CacheMode) String() string {
	switch m {
	case CacheDisabled:
		return "Disabled"
	case CacheInMemory:
		return "InMemory"
	case CacheDiskNoHTTP:
		return "DiskNoHTTP"
	case CacheDisk:
		return "Disk"
	default:
		return "Unknown"
	}
}

// NeedsStorage reports whether the mode writes to the storage path.
func (m CacheMode) NeedsStorage() bool {
	return m == CacheDiskNoHTTP || m == CacheDisk
}

// ParseCacheMode parses a cache mode name as returned by String, ignoring
// case.
func ParseCacheMode(s string) (CacheMode, error) {
	for m := CacheDisabled; m <= CacheDisk; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown cache mode %q", ErrInvalidOption, s)
}
