package repository

import (
	"context"

	"github.com/user/perf-insights/internal/entity"
)

// Collector loads a page and captures its metrics and resource list.
type Collector interface {
	// Collect navigates to url under the given throttling preset.
	Collect(ctx context.Context, url string, throttling string) (*entity.Snapshot, error)
}
