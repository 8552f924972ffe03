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

const attemptsTTL = 24 * time.Hour

// QueueRepoImpl implements the collection queue on a Redis list. Jobs are
// pushed on the left and popped from the right.
type QueueRepoImpl struct {
	client redis.Cmdable
}

// NewQueueRepo creates a new instance of QueueRepoImpl.
func NewQueueRepo(client redis.Cmdable) *QueueRepoImpl {
	return &QueueRepoImpl{client: client}
}

func (r *QueueRepoImpl) Push(ctx context.Context, job *entity.CollectionJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return r.client.LPush(ctx, collectQueue, raw).Err()
}

// Pop returns repository.ErrQueueEmpty instead of redis.Nil.
func (r *QueueRepoImpl) Pop(ctx context.Context) (*entity.CollectionJob, error) {
	raw, err := r.client.RPop(ctx, collectQueue).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}
	var job entity.CollectionJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, collectQueue).Result()
}

// IncrementAttempts bumps the per-URL failure counter. The counter expires
// a day after the last failure.
func (r *QueueRepoImpl) IncrementAttempts(ctx context.Context, url string) (int64, error) {
	key := sessionKey(attemptsSpace, url)
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, attemptsTTL)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *QueueRepoImpl) ResetAttempts(ctx context.Context, url string) error {
	return r.client.Del(ctx, sessionKey(attemptsSpace, url)).Err()
}
