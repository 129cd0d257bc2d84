package cache

import "errors"

var (
	// ErrRedisNotAvailable means the client is uninitialized or in mock mode
	ErrRedisNotAvailable = errors.New("redis client not available")
	// ErrCacheMiss means the key was not present
	ErrCacheMiss = errors.New("cache miss")
)
