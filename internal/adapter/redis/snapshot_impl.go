package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

// SnapshotRepoImpl keeps per-session snapshots and reports with a TTL.
type SnapshotRepoImpl struct {
	client redis.Cmdable
}

// NewSnapshotRepo creates a new instance of SnapshotRepoImpl.
func NewSnapshotRepo(client redis.Cmdable) *SnapshotRepoImpl {
	return &SnapshotRepoImpl{client: client}
}

func (r *SnapshotRepoImpl) SaveSnapshot(ctx context.Context, snapshot *entity.Snapshot, ttl time.Duration) error {
	return r.setJSON(ctx, sessionKey(snapshotSpace, snapshot.SessionKey), snapshot, ttl)
}

func (r *SnapshotRepoImpl) GetSnapshot(ctx context.Context, session string) (*entity.Snapshot, error) {
	var s entity.Snapshot
	if err := r.getJSON(ctx, sessionKey(snapshotSpace, session), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveReport stores the report and clears the session's pending flag.
func (r *SnapshotRepoImpl) SaveReport(ctx context.Context, report *entity.AnalysisReport, ttl time.Duration) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(reportSpace, report.SessionKey), raw, ttl)
		pipe.Del(ctx, sessionKey(pendingSpace, report.SessionKey))
		return nil
	})
	return err
}

func (r *SnapshotRepoImpl) GetReport(ctx context.Context, session string) (*entity.AnalysisReport, error) {
	var rep entity.AnalysisReport
	if err := r.getJSON(ctx, sessionKey(reportSpace, session), &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *SnapshotRepoImpl) Clear(ctx context.Context, session string) error {
	return r.client.Del(ctx,
		sessionKey(snapshotSpace, session),
		sessionKey(reportSpace, session),
		sessionKey(pendingSpace, session),
	).Err()
}

// MarkPending sets an expiring flag so status queries see queued work.
func (r *SnapshotRepoImpl) MarkPending(ctx context.Context, session string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(pendingSpace, session), "1", ttl).Err()
}

func (r *SnapshotRepoImpl) IsPending(ctx context.Context, session string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(pendingSpace, session)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SnapshotRepoImpl) ClearPending(ctx context.Context, session string) error {
	return r.client.Del(ctx, sessionKey(pendingSpace, session)).Err()
}

func (r *SnapshotRepoImpl) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

func (r *SnapshotRepoImpl) getJSON(ctx context.Context, key string, v any) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
