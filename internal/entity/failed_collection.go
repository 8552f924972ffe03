package entity

import "time"

// FailedCollection mirrors the `failed_collections` PostgreSQL table schema.
type FailedCollection struct {
	ID                   int64     `json:"id"`
	URL                  string    `json:"url"`
	SessionKey           string    `json:"session_key"`
	FailureReason        string    `json:"failure_reason"`
	ErrorType            string    `json:"error_type"`
	LastAttemptTimestamp time.Time `json:"last_attempt_timestamp"`
	RetryCount           int       `json:"retry_count"`
}

// CollectionStatus is the state of a session's most recent collection.
type CollectionStatus struct {
	SessionKey    string     `json:"session_key"`
	URL           string     `json:"url,omitempty"`
	CurrentStatus string     `json:"current_status"`
	ReportID      string     `json:"report_id,omitempty"`
	AnalyzedAt    *time.Time `json:"analyzed_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	RetryCount    int        `json:"retry_count,omitempty"`
}

// Collection status values.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCollected = "collected"
	StatusFailed    = "failed"
	StatusNotFound  = "not_found"
)
