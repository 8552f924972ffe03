package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
	"github.com/user/perf-insights/internal/resource"
	"github.com/user/perf-insights/internal/suggestion"
	"github.com/user/perf-insights/pkg/metrics"
)

// Concurrent analyses per AnalyzeBatch call.
const batchLimit = 8

// BottleneckDetector finds and severity-sorts bottlenecks.
type BottleneckDetector interface {
	DetectBottlenecks(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck
}

// AnalyzeInput is one page's collected data. A nil Metrics or nil Resources
// yields no findings.
type AnalyzeInput struct {
	SessionKey string                  `json:"session_key"`
	URL        string                  `json:"url"`
	Metrics    *entity.MetricsRecord   `json:"metrics"`
	Resources  []entity.ResourceRecord `json:"resources"`
	// Level overrides the configured suggestion level when set.
	Level string `json:"suggestion_level,omitempty"`
}

// Analyzer turns collected page data into reports and serves stored ones.
type Analyzer interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*entity.AnalysisReport, error)
	AnalyzeBatch(ctx context.Context, inputs []AnalyzeInput) ([]*entity.AnalysisReport, error)
	GetReport(ctx context.Context, id string) (*entity.AnalysisReport, error)
	ListReports(ctx context.Context, url string, limit int) ([]*entity.AnalysisReport, error)
	Snapshot(ctx context.Context, sessionKey string) (*entity.AnalysisReport, error)
	ClearSnapshot(ctx context.Context, sessionKey string) error
	Export(ctx context.Context, sessionKey string) ([]byte, error)
}

type analyzerUseCase struct {
	engine      BottleneckDetector
	settings    SettingsSource
	reports     repository.ReportRepository
	snapshots   repository.SnapshotRepository
	snapshotTTL time.Duration
	logger      *zap.Logger
}

// NewAnalyzer creates an Analyzer. reports and snapshots may be nil, in which
// case reports are computed but not stored.
func NewAnalyzer(
	engine BottleneckDetector,
	settings SettingsSource,
	reports repository.ReportRepository,
	snapshots repository.SnapshotRepository,
	snapshotTTL time.Duration,
	logger *zap.Logger,
) Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analyzerUseCase{
		engine:      engine,
		settings:    settings,
		reports:     reports,
		snapshots:   snapshots,
		snapshotTTL: snapshotTTL,
		logger:      logger.Named("analyzer"),
	}
}

func (uc *analyzerUseCase) Analyze(ctx context.Context, in AnalyzeInput) (*entity.AnalysisReport, error) {
	start := time.Now()

	cfg, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Warn("Falling back to default settings", zap.Error(err))
		cfg = entity.DefaultSettings()
	}

	// A nil resource list means none were captured; detection is skipped.
	var resources []entity.ResourceRecord
	if in.Resources != nil {
		resources = resource.NormalizeAll(in.Resources)
	}
	var record *entity.MetricsRecord
	if in.Metrics != nil {
		filled := resource.BackfillMetrics(*in.Metrics, resources)
		record = &filled
	}

	levelRaw := in.Level
	if levelRaw == "" {
		levelRaw = cfg.SuggestionLevel
	}
	level := suggestion.ParseLevel(levelRaw)

	found := uc.engine.DetectBottlenecks(record, resources)
	report := &entity.AnalysisReport{
		ID:              uuid.NewString(),
		SessionKey:      in.SessionKey,
		URL:             in.URL,
		Ratings:         record.Ratings(cfg.ShowMetrics),
		Resources:       nonNil(resources),
		Bottlenecks:     suggestion.Generate(found, level),
		SuggestionLevel: string(level),
		AnalyzedAt:      time.Now().UTC(),
	}
	if record != nil {
		report.Metrics = *record
	}

	if uc.reports != nil {
		if err := uc.reports.Save(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to save report for %s: %w", in.URL, err)
		}
	}
	if uc.snapshots != nil && in.SessionKey != "" {
		if err := uc.snapshots.SaveReport(ctx, report, uc.snapshotTTL); err != nil {
			uc.logger.Warn("Failed to cache session report", zap.String("session_key", in.SessionKey), zap.Error(err))
		}
	}

	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	for _, b := range report.Bottlenecks {
		metrics.ObserveBottleneck(string(b.Category), string(b.Severity))
	}
	uc.logger.Debug("Analyzed page",
		zap.String("url", in.URL),
		zap.String("report_id", report.ID),
		zap.Int("bottlenecks", len(report.Bottlenecks)),
	)
	return report, nil
}

func nonNil(resources []entity.ResourceRecord) []entity.ResourceRecord {
	if resources == nil {
		return []entity.ResourceRecord{}
	}
	return resources
}

// AnalyzeBatch analyzes every input concurrently. Results keep input order;
// the first failure cancels the rest.
func (uc *analyzerUseCase) AnalyzeBatch(ctx context.Context, inputs []AnalyzeInput) ([]*entity.AnalysisReport, error) {
	out := make([]*entity.AnalysisReport, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit)
	for i, in := range inputs {
		g.Go(func() error {
			report, err := uc.Analyze(gctx, in)
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
			out[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReport loads a stored report. Ids that are not UUIDs cannot exist and
// are reported as not found without a lookup.
func (uc *analyzerUseCase) GetReport(ctx context.Context, id string) (*entity.AnalysisReport, error) {
	if uc.reports == nil || uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}
	return uc.reports.FindByID(ctx, id)
}

func (uc *analyzerUseCase) ListReports(ctx context.Context, url string, limit int) ([]*entity.AnalysisReport, error) {
	if uc.reports == nil {
		return []*entity.AnalysisReport{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.reports.ListByURL(ctx, url, limit)
}

// Snapshot returns the session's cached report, falling back to the newest
// stored one once the cache entry has expired.
func (uc *analyzerUseCase) Snapshot(ctx context.Context, sessionKey string) (*entity.AnalysisReport, error) {
	if uc.snapshots != nil {
		report, err := uc.snapshots.GetReport(ctx, sessionKey)
		if err == nil {
			return report, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", sessionKey, err)
		}
	}
	if uc.reports == nil {
		return nil, repository.ErrNotFound
	}
	return uc.reports.LatestBySession(ctx, sessionKey)
}

func (uc *analyzerUseCase) ClearSnapshot(ctx context.Context, sessionKey string) error {
	if uc.snapshots == nil {
		return nil
	}
	if err := uc.snapshots.Clear(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to clear snapshot %s: %w", sessionKey, err)
	}
	return nil
}

// Export renders the session's bottleneck list as indented JSON.
func (uc *analyzerUseCase) Export(ctx context.Context, sessionKey string) ([]byte, error) {
	report, err := uc.Snapshot(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	bottlenecks := report.Bottlenecks
	if bottlenecks == nil {
		bottlenecks = []entity.Bottleneck{}
	}
	return json.MarshalIndent(bottlenecks, "", "  ")
}
