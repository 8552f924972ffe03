package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrQueueEmpty is returned by Pop when no job is waiting.
	ErrQueueEmpty = errors.New("collection queue is empty")
)

// Collector failures, classified so the worker can label metrics and retries.
var (
	ErrCollectTimeout     = errors.New("page collection timed out")
	ErrNavigationFailed   = errors.New("navigation failed")
	ErrMetricsUnavailable = errors.New("performance metrics unavailable")
	ErrUnknownThrottling  = errors.New("unknown network throttling preset")
)
