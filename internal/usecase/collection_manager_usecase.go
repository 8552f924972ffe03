package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
	"github.com/user/perf-insights/pkg/metrics"
	"github.com/user/perf-insights/pkg/utils"
)

var (
	ErrAlreadyPending = errors.New("session already has a pending collection and force is false")
)

// SubmitInput is a request to collect a page for a session.
type SubmitInput struct {
	URL        string
	SessionKey string
	Throttling string
	Force      bool
}

// CollectionManager queues page collections and reports their state.
type CollectionManager interface {
	Submit(ctx context.Context, in SubmitInput) (*entity.CollectionJob, error)
	GetStatus(ctx context.Context, sessionKey string) (*entity.CollectionStatus, error)
}

type collectionManagerUseCase struct {
	queue      repository.QueueRepository
	snapshots  repository.SnapshotRepository
	reports    repository.ReportRepository
	failed     repository.FailedCollectionRepository
	pendingTTL time.Duration
	logger     *zap.Logger
}

// NewCollectionManager creates a CollectionManager. pendingTTL bounds how long
// a session reports "pending" if its job is lost.
func NewCollectionManager(
	queue repository.QueueRepository,
	snapshots repository.SnapshotRepository,
	reports repository.ReportRepository,
	failed repository.FailedCollectionRepository,
	pendingTTL time.Duration,
	logger *zap.Logger,
) CollectionManager {
	return &collectionManagerUseCase{
		queue:      queue,
		snapshots:  snapshots,
		reports:    reports,
		failed:     failed,
		pendingTTL: pendingTTL,
		logger:     logger.Named("collection_manager"),
	}
}

func (uc *collectionManagerUseCase) Submit(ctx context.Context, in SubmitInput) (*entity.CollectionJob, error) {
	parsed, err := url.Parse(strings.TrimSpace(in.URL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrInvalidInput, in.URL)
	}
	if !entity.ValidThrottling(in.Throttling) {
		return nil, fmt.Errorf("%w: unknown network throttling %q", ErrInvalidInput, in.Throttling)
	}

	job := &entity.CollectionJob{
		ID:         uuid.NewString(),
		URL:        parsed.String(),
		SessionKey: in.SessionKey,
		Throttling: in.Throttling,
		EnqueuedAt: time.Now().UTC(),
	}
	if job.SessionKey == "" {
		job.SessionKey = utils.HashURL(job.URL)
	}

	if !in.Force {
		pending, err := uc.snapshots.IsPending(ctx, job.SessionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check pending state: %w", err)
		}
		if pending {
			return job, ErrAlreadyPending
		}
	}

	if err := uc.queue.Push(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to queue %s: %w", job.URL, err)
	}
	if err := uc.snapshots.MarkPending(ctx, job.SessionKey, uc.pendingTTL); err != nil {
		// The job is queued; status just reads not_found until it completes.
		uc.logger.Error("Failed to mark session pending after queueing", zap.String("session_key", job.SessionKey), zap.Error(err))
	}
	reportQueueLength(ctx, uc.queue, uc.logger)

	uc.logger.Info("Queued collection", zap.String("url", job.URL), zap.String("session_key", job.SessionKey), zap.String("job_id", job.ID))
	return job, nil
}

// GetStatus resolves a session's state in order: pending, failed, completed,
// collected-but-unanalyzed, not found.
func (uc *collectionManagerUseCase) GetStatus(ctx context.Context, sessionKey string) (*entity.CollectionStatus, error) {
	status := &entity.CollectionStatus{SessionKey: sessionKey}

	pending, err := uc.snapshots.IsPending(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending state: %w", err)
	}
	if pending {
		status.CurrentStatus = entity.StatusPending
		return status, nil
	}

	failed, err := uc.failed.FindBySession(ctx, sessionKey)
	switch {
	case err == nil:
		status.CurrentStatus = entity.StatusFailed
		status.URL = failed.URL
		status.FailureReason = failed.FailureReason
		status.RetryCount = failed.RetryCount
		return status, nil
	case !errors.Is(err, repository.ErrNotFound):
		uc.logger.Error("Error finding failed collection", zap.String("session_key", sessionKey), zap.Error(err))
	}

	report, err := uc.snapshots.GetReport(ctx, sessionKey)
	if errors.Is(err, repository.ErrNotFound) {
		report, err = uc.reports.LatestBySession(ctx, sessionKey)
	}
	switch {
	case err == nil:
		status.CurrentStatus = entity.StatusCompleted
		status.URL = report.URL
		status.ReportID = report.ID
		analyzedAt := report.AnalyzedAt
		status.AnalyzedAt = &analyzedAt
		return status, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up report: %w", err)
	}

	snap, err := uc.snapshots.GetSnapshot(ctx, sessionKey)
	switch {
	case err == nil:
		status.CurrentStatus = entity.StatusCollected
		status.URL = snap.URL
		return status, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to look up snapshot: %w", err)
	}

	status.CurrentStatus = entity.StatusNotFound
	return status, nil
}

func reportQueueLength(ctx context.Context, queue repository.QueueRepository, logger *zap.Logger) {
	size, err := queue.Size(ctx)
	if err != nil {
		logger.Debug("Failed to read queue length", zap.Error(err))
		return
	}
	metrics.CollectionQueueLength.Set(float64(size))
}
