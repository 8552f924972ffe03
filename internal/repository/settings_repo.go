package repository

import (
	"context"
	"time"

	"github.com/user/perf-insights/internal/entity"
)

// SettingsRepository stores the single analyzer settings document.
type SettingsRepository interface {
	// Get returns ErrNotFound when nothing has been saved yet.
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
	Delete(ctx context.Context) error
}

// SnapshotRepository keeps the latest collected data and report per session.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *entity.Snapshot, ttl time.Duration) error
	// GetSnapshot returns ErrNotFound when the session has no live snapshot.
	GetSnapshot(ctx context.Context, sessionKey string) (*entity.Snapshot, error)
	SaveReport(ctx context.Context, report *entity.AnalysisReport, ttl time.Duration) error
	// GetReport returns ErrNotFound when the session has no live report.
	GetReport(ctx context.Context, sessionKey string) (*entity.AnalysisReport, error)
	// Clear drops both the snapshot and the report of a session.
	Clear(ctx context.Context, sessionKey string) error
	// MarkPending flags a session as queued for collection until ttl expires.
	MarkPending(ctx context.Context, sessionKey string, ttl time.Duration) error
	IsPending(ctx context.Context, sessionKey string) (bool, error)
	ClearPending(ctx context.Context, sessionKey string) error
}
