package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

func TestFailedCollectionRepo(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("SaveOrUpdate should default retry count to one", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectExec(flexibleSQLMatcher(sqlUpsertFailed)).
			WithArgs("https://example.com/", "tab-1", "navigation failed", "navigation", at, 1).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewFailedCollectionRepo(mockPool)
		err = repo.SaveOrUpdate(ctx, &entity.FailedCollection{
			URL:                  "https://example.com/",
			SessionKey:           "tab-1",
			FailureReason:        "navigation failed",
			ErrorType:            "navigation",
			LastAttemptTimestamp: at,
		})
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("SaveOrUpdate should wrap database errors", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		dbErr := errors.New("connection reset")
		mockPool.ExpectExec(flexibleSQLMatcher(sqlUpsertFailed)).
			WithArgs("u", "", "", "", pgxmock.AnyArg(), 3).
			WillReturnError(dbErr)

		err = NewFailedCollectionRepo(mockPool).SaveOrUpdate(ctx, &entity.FailedCollection{URL: "u", RetryCount: 3})
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to upsert failed collection")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("FindBySession should scan the newest failure", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectFailedBySession)).
			WithArgs("tab-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "url", "session_key", "failure_reason", "error_type", "last_attempt_timestamp", "retry_count"}).
				AddRow(int64(4), "https://example.com/", "tab-1", "timed out", "timeout", at, 3))

		got, err := NewFailedCollectionRepo(mockPool).FindBySession(ctx, "tab-1")
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.ID)
		assert.Equal(t, "timeout", got.ErrorType)
		assert.Equal(t, 3, got.RetryCount)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("FindBySession should map missing rows to ErrNotFound", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectFailedBySession)).
			WithArgs("none").
			WillReturnError(pgx.ErrNoRows)

		_, err = NewFailedCollectionRepo(mockPool).FindBySession(ctx, "none")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Delete should remove by url", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectExec(flexibleSQLMatcher(sqlDeleteFailed)).
			WithArgs("https://example.com/").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, NewFailedCollectionRepo(mockPool).Delete(ctx, "https://example.com/"))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestMigrate(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec("CREATE TABLE IF NOT EXISTS analysis_reports").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, Migrate(context.Background(), mockPool))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
