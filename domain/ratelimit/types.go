// Package ratelimit provides domain types for request rate limiting.
package ratelimit

import "time"

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerWindow is the maximum number of requests allowed in the window.
	RequestsPerWindow int
	// WindowSize is the duration of the sliding window.
	WindowSize time.Duration
}

// DefaultConfig returns the default per-client rate limit: 100 requests
// per minute.
func DefaultConfig() Config {
	return Config{
		RequestsPerWindow: 100,
		WindowSize:        time.Minute,
	}
}

// Result represents the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool
	// Remaining is the number of requests remaining in the current window.
	Remaining int
	// ResetAt is when the rate limit window resets.
	ResetAt time.Time
	// RetryAfter is the duration to wait before retrying (only set when denied).
	RetryAfter time.Duration
}
