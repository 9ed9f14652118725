package cache

import "errors"

var (
	// ErrCacheKeyNotFound is returned when a key is not found in the cache
	ErrCacheKeyNotFound = errors.New("cache key not found")

	// ErrCacheClosed is returned when the cache is used after Close
	ErrCacheClosed = errors.New("cache closed")
)
