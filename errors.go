package outputcache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound is returned by stores when no artifact exists at a
	// logical path.
	ErrNotFound = errors.New("outputcache: artifact not found")

	// ErrCacheDirCreate is returned when the cache directory cannot be
	// created at the start of an update cycle.
	ErrCacheDirCreate = errors.New("outputcache: create cache directory")
)
