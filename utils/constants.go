// File: utils/constants.go
package utils

// CorrelationCachePrefix is the prefix used for Redis correlation cache keys.
const CorrelationCachePrefix = "corr:"

// Boundary limits enforced at the gateway, counted in characters.
const (
	MaxTitleLength       = 200
	MaxBodyLength        = 2000
	MaxReplyLength       = 1000
	MaxProjectNameLength = 100
	MaxTaskLength        = 200
)
