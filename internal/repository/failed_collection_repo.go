package repository

import (
	"context"

	"github.com/user/perf-insights/internal/entity"
)

// FailedCollectionRepository records URLs whose collection gave up.
type FailedCollectionRepository interface {
	// SaveOrUpdate creates the record or bumps its retry count.
	SaveOrUpdate(ctx context.Context, failed *entity.FailedCollection) error
	// FindBySession returns ErrNotFound when the session has no failure.
	FindBySession(ctx context.Context, sessionKey string) (*entity.FailedCollection, error)
	// Delete removes the record, typically after a later success.
	Delete(ctx context.Context, url string) error
}
