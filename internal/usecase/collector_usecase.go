package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
	"github.com/user/perf-insights/pkg/metrics"
	"github.com/user/perf-insights/pkg/utils"
)

// CollectorWorker processes queued collection jobs one at a time.
type CollectorWorker interface {
	// ProcessNext handles one job. It reports false when the queue was empty.
	ProcessNext(ctx context.Context) (bool, error)
}

type collectorUseCase struct {
	queue       repository.QueueRepository
	collector   repository.Collector
	snapshots   repository.SnapshotRepository
	failed      repository.FailedCollectionRepository
	analyzer    Analyzer
	settings    SettingsSource
	maxRetries  int
	snapshotTTL time.Duration
	logger      *zap.Logger
}

// CollectorOptions bounds retries and snapshot lifetime.
type CollectorOptions struct {
	MaxRetries  int
	SnapshotTTL time.Duration
}

// NewCollectorUseCase creates the worker-side use case that drains the queue.
func NewCollectorUseCase(
	queue repository.QueueRepository,
	collector repository.Collector,
	snapshots repository.SnapshotRepository,
	failed repository.FailedCollectionRepository,
	analyzer Analyzer,
	settings SettingsSource,
	opts CollectorOptions,
	logger *zap.Logger,
) CollectorWorker {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &collectorUseCase{
		queue:       queue,
		collector:   collector,
		snapshots:   snapshots,
		failed:      failed,
		analyzer:    analyzer,
		settings:    settings,
		maxRetries:  opts.MaxRetries,
		snapshotTTL: opts.SnapshotTTL,
		logger:      logger.Named("collector_worker"),
	}
}

func (uc *collectorUseCase) ProcessNext(ctx context.Context) (bool, error) {
	job, err := uc.queue.Pop(ctx)
	if errors.Is(err, repository.ErrQueueEmpty) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to pop job from queue: %w", err)
	}
	reportQueueLength(ctx, uc.queue, uc.logger)

	cfg, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Warn("Falling back to default settings", zap.Error(err))
		cfg = entity.DefaultSettings()
	}
	throttling := job.Throttling
	if throttling == "" {
		throttling = cfg.NetworkThrottling
	}

	uc.logger.Info("Processing collection job", zap.String("url", job.URL), zap.String("job_id", job.ID), zap.String("throttling", throttling))

	domain, ok := utils.Hostname(job.URL)
	if !ok {
		domain = "unknown"
	}
	start := time.Now()
	snap, collectErr := uc.collector.Collect(ctx, job.URL, throttling)
	metrics.CollectionDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())

	if collectErr != nil {
		uc.logger.Error("Collection failed", zap.String("url", job.URL), zap.Error(collectErr))
		return true, uc.handleFailure(ctx, job, collectErr)
	}
	return true, uc.handleSuccess(ctx, job, snap, cfg)
}

func (uc *collectorUseCase) handleSuccess(ctx context.Context, job *entity.CollectionJob, snap *entity.Snapshot, cfg entity.Settings) error {
	metrics.CollectionsTotal.WithLabelValues("success", "").Inc()
	snap.SessionKey = job.SessionKey

	if err := uc.snapshots.SaveSnapshot(ctx, snap, uc.snapshotTTL); err != nil {
		uc.logger.Warn("Failed to cache snapshot", zap.String("session_key", job.SessionKey), zap.Error(err))
	}

	if err := uc.queue.ResetAttempts(ctx, job.URL); err != nil {
		uc.logger.Warn("Failed to reset attempt counter", zap.String("url", job.URL), zap.Error(err))
	}
	if err := uc.failed.Delete(ctx, job.URL); err != nil {
		uc.logger.Warn("Failed to delete URL from failed_collections table after successful collection", zap.String("url", job.URL), zap.Error(err))
	}

	if !cfg.AutoAnalysis {
		return uc.snapshots.ClearPending(ctx, job.SessionKey)
	}
	metricsCopy := snap.Metrics
	_, err := uc.analyzer.Analyze(ctx, AnalyzeInput{
		SessionKey: job.SessionKey,
		URL:        snap.URL,
		Metrics:    &metricsCopy,
		Resources:  snap.Resources,
	})
	if err != nil {
		return uc.recordAnalysisFailure(ctx, job, err)
	}
	return nil
}

// recordAnalysisFailure ends a job whose page was collected but could not be
// analyzed. Analysis is not retried; the session reports the failure.
func (uc *collectorUseCase) recordAnalysisFailure(ctx context.Context, job *entity.CollectionJob, analyzeErr error) error {
	uc.logger.Error("Analysis failed", zap.String("url", job.URL), zap.Error(analyzeErr))
	failed := &entity.FailedCollection{
		URL:                  job.URL,
		SessionKey:           job.SessionKey,
		FailureReason:        analyzeErr.Error(),
		ErrorType:            errorTypeAnalysis,
		LastAttemptTimestamp: time.Now().UTC(),
		RetryCount:           1,
	}
	if err := uc.failed.SaveOrUpdate(ctx, failed); err != nil {
		uc.logger.Warn("Failed to record analysis failure", zap.String("url", job.URL), zap.Error(err))
	}
	if err := uc.snapshots.ClearPending(ctx, job.SessionKey); err != nil {
		uc.logger.Warn("Failed to clear pending flag", zap.String("session_key", job.SessionKey), zap.Error(err))
	}
	return fmt.Errorf("failed to analyze %s: %w", job.URL, analyzeErr)
}

func (uc *collectorUseCase) handleFailure(ctx context.Context, job *entity.CollectionJob, collectErr error) error {
	errorType := classifyCollectError(collectErr)
	metrics.CollectionsTotal.WithLabelValues("failure", errorType).Inc()

	attempts, err := uc.queue.IncrementAttempts(ctx, job.URL)
	if err != nil {
		return fmt.Errorf("failed to count attempts for %s: %w", job.URL, err)
	}
	if attempts < int64(uc.maxRetries) {
		uc.logger.Info("Requeueing collection", zap.String("url", job.URL), zap.Int64("attempt", attempts))
		if err := uc.queue.Push(ctx, job); err != nil {
			return fmt.Errorf("failed to requeue %s: %w", job.URL, err)
		}
		return nil
	}

	failed := &entity.FailedCollection{
		URL:                  job.URL,
		SessionKey:           job.SessionKey,
		FailureReason:        collectErr.Error(),
		ErrorType:            errorType,
		LastAttemptTimestamp: time.Now().UTC(),
		RetryCount:           int(attempts),
	}
	if err := uc.failed.SaveOrUpdate(ctx, failed); err != nil {
		return fmt.Errorf("failed to save or update failed collection record for %s: %w", job.URL, err)
	}
	if err := uc.queue.ResetAttempts(ctx, job.URL); err != nil {
		uc.logger.Warn("Failed to reset attempt counter", zap.String("url", job.URL), zap.Error(err))
	}
	return uc.snapshots.ClearPending(ctx, job.SessionKey)
}

const errorTypeAnalysis = "analysis"

func classifyCollectError(err error) string {
	switch {
	case errors.Is(err, repository.ErrCollectTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrMetricsUnavailable):
		return "metrics"
	case errors.Is(err, repository.ErrUnknownThrottling):
		return "throttling"
	default:
		return "unknown"
	}
}
