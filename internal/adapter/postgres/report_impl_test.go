package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

// flexibleSQLMatcher creates a regex that is insensitive to whitespace.
func flexibleSQLMatcher(sql string) string {
	trimmed := strings.TrimSpace(sql)
	return regexp.MustCompile(`\s+`).ReplaceAllString(regexp.QuoteMeta(trimmed), `\s+`)
}

// anyArgs matches n arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

var reportColumns = []string{"id", "session_key", "url", "metrics", "ratings", "resources", "suggestion_level", "analyzed_at"}

func sampleReport() *entity.AnalysisReport {
	return &entity.AnalysisReport{
		ID:         "7f1d2c3a-0000-4000-8000-000000000001",
		SessionKey: "tab-1",
		URL:        "https://example.com/",
		Metrics:    entity.MetricsRecord{TotalBlockingTime: entity.Float(350), RequestCount: 2},
		Resources: []entity.ResourceRecord{
			{URL: "https://example.com/app.js", Type: entity.ResourceScript, Size: 600 * 1024},
		},
		Bottlenecks: []entity.Bottleneck{
			{Category: entity.CategoryInefficientJS, Title: "High JavaScript Execution Time", Severity: entity.SeverityHigh},
			{Category: entity.CategoryResourceSize, Title: "Large JavaScript Payload", Severity: entity.SeverityHigh},
		},
		SuggestionLevel: "basic",
		AnalyzedAt:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newReportRepo(t *testing.T, logger *zap.Logger) (*ReportRepoImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	mockPool.ExpectPing()
	repo, err := NewReportRepo(context.Background(), mockPool, logger)
	require.NoError(t, err)
	return repo, mockPool
}

func TestNewReportRepo(t *testing.T) {
	t.Run("should return error if ping fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		pingErr := errors.New("database unavailable")
		mockPool.ExpectPing().WillReturnError(pingErr)

		_, err = NewReportRepo(context.Background(), mockPool, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, pingErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestReportSave(t *testing.T) {
	ctx := context.Background()

	t.Run("should write report and bottlenecks in one transaction", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		repo, mockPool := newReportRepo(t, zap.New(core))
		report := sampleReport()

		mockPool.ExpectBegin()
		mockPool.ExpectExec(flexibleSQLMatcher(sqlInsertReport)).
			WithArgs(report.ID, report.SessionKey, report.URL,
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				report.SuggestionLevel, report.AnalyzedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"analysis_bottlenecks"}, bottleneckColumns).
			WillReturnResult(2)
		mockPool.ExpectCommit()
		mockPool.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

		require.NoError(t, repo.Save(ctx, report))
		assert.NoError(t, mockPool.ExpectationsWereMet())
		assert.Empty(t, logs.All())
	})

	t.Run("should skip the copy when there are no bottlenecks", func(t *testing.T) {
		repo, mockPool := newReportRepo(t, zap.NewNop())
		report := sampleReport()
		report.Bottlenecks = nil

		mockPool.ExpectBegin()
		mockPool.ExpectExec(flexibleSQLMatcher(sqlInsertReport)).
			WithArgs(anyArgs(8)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()
		mockPool.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

		require.NoError(t, repo.Save(ctx, report))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should roll back when the copy count is short", func(t *testing.T) {
		repo, mockPool := newReportRepo(t, zap.NewNop())

		mockPool.ExpectBegin()
		mockPool.ExpectExec(flexibleSQLMatcher(sqlInsertReport)).
			WithArgs(anyArgs(8)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCopyFrom(pgx.Identifier{"analysis_bottlenecks"}, bottleneckColumns).
			WillReturnResult(1)
		mockPool.ExpectRollback()

		err := repo.Save(ctx, sampleReport())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mismatch in copied bottlenecks count")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should wrap insert failures", func(t *testing.T) {
		repo, mockPool := newReportRepo(t, zap.NewNop())
		dbErr := errors.New("unique violation")

		mockPool.ExpectBegin()
		mockPool.ExpectExec(flexibleSQLMatcher(sqlInsertReport)).
			WithArgs(anyArgs(8)...).
			WillReturnError(dbErr)
		mockPool.ExpectRollback()

		err := repo.Save(ctx, sampleReport())
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to insert report")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestReportFindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("should load report with ordered bottlenecks", func(t *testing.T) {
		repo, mockPool := newReportRepo(t, zap.NewNop())
		want := sampleReport()

		mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectReport + ` WHERE id = $1;`)).
			WithArgs(want.ID).
			WillReturnRows(pgxmock.NewRows(reportColumns).AddRow(
				want.ID, want.SessionKey, want.URL,
				[]byte(`{"total_blocking_time":350,"request_count":2,"transfer_size":0}`),
				[]byte(`{"tbt":{"value":350,"rating":"needs-improvement"}}`),
				[]byte(`[{"url":"https://example.com/app.js","type":"script","size":614400}]`),
				want.SuggestionLevel, want.AnalyzedAt,
			))
		mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectBottlenecks)).
			WithArgs([]string{want.ID}).
			WillReturnRows(pgxmock.NewRows([]string{"report_id", "category", "title", "description", "severity", "resources", "suggestions"}).
				AddRow(want.ID, string(entity.CategoryInefficientJS), "High JavaScript Execution Time", "", "high", []byte(`[]`), []byte(`[{"text":"Break up long tasks."}]`)).
				AddRow(want.ID, string(entity.CategoryResourceSize), "Large JavaScript Payload", "", "high", []byte(`[]`), []byte(`[]`)))

		got, err := repo.FindByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, 350.0, got.Metrics.TBT())
		assert.Equal(t, entity.RatingNeedsImprovement, got.Ratings[entity.MetricTBT].Rating)
		require.Len(t, got.Resources, 1)
		require.Len(t, got.Bottlenecks, 2)
		assert.Equal(t, "High JavaScript Execution Time", got.Bottlenecks[0].Title)
		assert.Equal(t, entity.SeverityHigh, got.Bottlenecks[1].Severity)
		assert.Len(t, got.Bottlenecks[0].Suggestions, 1)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should map missing rows to ErrNotFound", func(t *testing.T) {
		repo, mockPool := newReportRepo(t, zap.NewNop())

		mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectReport + ` WHERE id = $1;`)).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestReportListByURL(t *testing.T) {
	ctx := context.Background()
	listSQL := flexibleSQLMatcher(sqlSelectReport + ` WHERE ($1 = '' OR url = $1) ORDER BY analyzed_at DESC LIMIT $2;`)

	t.Run("should return an empty list without querying bottlenecks", func(t *testing.T) {
		repo, mockPool := newReportRepo(t, zap.NewNop())
		mockPool.ExpectQuery(listSQL).
			WithArgs("https://none.example/", 10).
			WillReturnRows(pgxmock.NewRows(reportColumns))

		got, err := repo.ListByURL(ctx, "https://none.example/", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("should attach bottlenecks to each report", func(t *testing.T) {
		repo, mockPool := newReportRepo(t, zap.NewNop())
		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		mockPool.ExpectQuery(listSQL).
			WithArgs("", 5).
			WillReturnRows(pgxmock.NewRows(reportColumns).
				AddRow("r2", "", "https://b.example/", []byte(`{}`), []byte(`{}`), []byte(`[]`), "advanced", at).
				AddRow("r1", "", "https://a.example/", []byte(`{}`), []byte(`{}`), []byte(`[]`), "basic", at.Add(-time.Hour)))
		mockPool.ExpectQuery(flexibleSQLMatcher(sqlSelectBottlenecks)).
			WithArgs([]string{"r2", "r1"}).
			WillReturnRows(pgxmock.NewRows([]string{"report_id", "category", "title", "description", "severity", "resources", "suggestions"}).
				AddRow("r1", string(entity.CategoryUnoptimizedCSS), "Too Many CSS Files", "", "medium", []byte(`[]`), []byte(`[]`)))

		got, err := repo.ListByURL(ctx, "", 5)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "r2", got[0].ID)
		assert.Empty(t, got[0].Bottlenecks)
		require.Len(t, got[1].Bottlenecks, 1)
		assert.Equal(t, entity.CategoryUnoptimizedCSS, got[1].Bottlenecks[0].Category)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestJSONOrEmpty(t *testing.T) {
	t.Parallel()

	var nilSlice []entity.Bottleneck
	raw, err := jsonOrEmpty(nilSlice, "[]")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = jsonOrEmpty(map[string]int{"a": 1}, "{}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}
