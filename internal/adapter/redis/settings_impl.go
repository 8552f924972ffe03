package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

// SettingsRepoImpl stores the analyzer settings as one JSON document.
type SettingsRepoImpl struct {
	client redis.Cmdable
}

// NewSettingsRepo creates a new instance of SettingsRepoImpl.
func NewSettingsRepo(client redis.Cmdable) *SettingsRepoImpl {
	return &SettingsRepoImpl{client: client}
}

func (r *SettingsRepoImpl) Get(ctx context.Context) (*entity.Settings, error) {
	raw, err := r.client.Get(ctx, settingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s entity.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

// Save overwrites the stored settings. Settings never expire.
func (r *SettingsRepoImpl) Save(ctx context.Context, settings *entity.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return r.client.Set(ctx, settingsKey, raw, 0).Err()
}

func (r *SettingsRepoImpl) Delete(ctx context.Context) error {
	return r.client.Del(ctx, settingsKey).Err()
}
