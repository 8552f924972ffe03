package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

const (
	sqlUpsertFailed = `
        INSERT INTO failed_collections (url, session_key, failure_reason, error_type, last_attempt_timestamp, retry_count)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (url) DO UPDATE SET
            session_key = EXCLUDED.session_key,
            failure_reason = EXCLUDED.failure_reason,
            error_type = EXCLUDED.error_type,
            last_attempt_timestamp = EXCLUDED.last_attempt_timestamp,
            retry_count = failed_collections.retry_count + 1;
    `
	sqlSelectFailedBySession = `
        SELECT id, url, session_key, failure_reason, error_type, last_attempt_timestamp, retry_count
        FROM failed_collections
        WHERE session_key = $1
        ORDER BY last_attempt_timestamp DESC
        LIMIT 1;
    `
	sqlDeleteFailed = `DELETE FROM failed_collections WHERE url = $1;`
)

// FailedCollectionRepoImpl records collections that exhausted their retries.
type FailedCollectionRepoImpl struct {
	pool DBPool
}

// NewFailedCollectionRepo creates a new instance of FailedCollectionRepoImpl.
func NewFailedCollectionRepo(pool DBPool) *FailedCollectionRepoImpl {
	return &FailedCollectionRepoImpl{pool: pool}
}

// SaveOrUpdate inserts the failure with its retry count, or bumps the stored
// count by one when the URL already failed before.
func (r *FailedCollectionRepoImpl) SaveOrUpdate(ctx context.Context, failed *entity.FailedCollection) error {
	retries := failed.RetryCount
	if retries < 1 {
		retries = 1
	}
	_, err := r.pool.Exec(ctx, sqlUpsertFailed,
		failed.URL,
		failed.SessionKey,
		failed.FailureReason,
		failed.ErrorType,
		failed.LastAttemptTimestamp.UTC(),
		retries,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert failed collection: %w", err)
	}
	return nil
}

func (r *FailedCollectionRepoImpl) FindBySession(ctx context.Context, sessionKey string) (*entity.FailedCollection, error) {
	var fc entity.FailedCollection
	err := r.pool.QueryRow(ctx, sqlSelectFailedBySession, sessionKey).Scan(
		&fc.ID,
		&fc.URL,
		&fc.SessionKey,
		&fc.FailureReason,
		&fc.ErrorType,
		&fc.LastAttemptTimestamp,
		&fc.RetryCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query failed collection: %w", err)
	}
	return &fc, nil
}

func (r *FailedCollectionRepoImpl) Delete(ctx context.Context, url string) error {
	if _, err := r.pool.Exec(ctx, sqlDeleteFailed, url); err != nil {
		return fmt.Errorf("failed to delete failed collection: %w", err)
	}
	return nil
}
