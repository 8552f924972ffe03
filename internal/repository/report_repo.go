package repository

import (
	"context"

	"github.com/user/perf-insights/internal/entity"
)

// ReportRepository persists analysis reports and their bottlenecks.
type ReportRepository interface {
	// Save stores the report and every bottleneck it carries.
	Save(ctx context.Context, report *entity.AnalysisReport) error
	// FindByID returns ErrNotFound when no report has the id.
	FindByID(ctx context.Context, id string) (*entity.AnalysisReport, error)
	// ListByURL returns the newest reports for url first. An empty url lists all.
	ListByURL(ctx context.Context, url string, limit int) ([]*entity.AnalysisReport, error)
	// LatestBySession returns ErrNotFound when the session has no report.
	LatestBySession(ctx context.Context, sessionKey string) (*entity.AnalysisReport, error)
}
