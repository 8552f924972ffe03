package entity

import "time"

// AnalysisReport mirrors the `analysis_reports` PostgreSQL table schema.
// Bottlenecks are additionally stored row-per-finding in `analysis_bottlenecks`.
type AnalysisReport struct {
	ID              string                  `json:"id"`
	SessionKey      string                  `json:"session_key"`
	URL             string                  `json:"url"`
	Metrics         MetricsRecord           `json:"metrics"`
	Ratings         map[string]MetricRating `json:"ratings,omitempty"`
	Resources       []ResourceRecord        `json:"resources"`
	Bottlenecks     []Bottleneck            `json:"bottlenecks"`
	SuggestionLevel string                  `json:"suggestion_level"`
	AnalyzedAt      time.Time               `json:"analyzed_at"`
}

// Snapshot is the raw data collected for a page before analysis.
type Snapshot struct {
	SessionKey  string           `json:"session_key"`
	URL         string           `json:"url"`
	Metrics     MetricsRecord    `json:"metrics"`
	Resources   []ResourceRecord `json:"resources"`
	CollectedAt time.Time        `json:"collected_at"`
}

// CollectionJob is a queued request to collect and analyze a page.
type CollectionJob struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	SessionKey string    `json:"session_key"`
	Throttling string    `json:"throttling,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
