package repository

import (
	"context"

	"github.com/user/perf-insights/internal/entity"
)

// QueueRepository is a FIFO queue of pending collection jobs.
type QueueRepository interface {
	// Push adds a job to the end of the queue.
	Push(ctx context.Context, job *entity.CollectionJob) error
	// Pop removes the oldest job. It returns ErrQueueEmpty when nothing waits.
	Pop(ctx context.Context) (*entity.CollectionJob, error)
	// Size returns the current number of queued jobs.
	Size(ctx context.Context) (int64, error)
	// IncrementAttempts bumps and returns the failed-attempt counter of a URL.
	IncrementAttempts(ctx context.Context, url string) (int64, error)
	// ResetAttempts clears the counter after a successful collection.
	ResetAttempts(ctx context.Context, url string) error
}
