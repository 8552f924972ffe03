package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

const (
	sqlInsertReport = `
        INSERT INTO analysis_reports (id, session_key, url, metrics, ratings, resources, suggestion_level, analyzed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	sqlSelectReport = `
        SELECT id, session_key, url, metrics, ratings, resources, suggestion_level, analyzed_at
        FROM analysis_reports
    `
	sqlSelectBottlenecks = `
        SELECT report_id, category, title, description, severity, resources, suggestions
        FROM analysis_bottlenecks
        WHERE report_id = ANY($1)
        ORDER BY report_id, position;
    `
)

var bottleneckColumns = []string{"report_id", "position", "category", "title", "description", "severity", "resources", "suggestions"}

// ReportRepoImpl stores reports in analysis_reports and their findings, one
// row each, in analysis_bottlenecks.
type ReportRepoImpl struct {
	pool DBPool
	log  *zap.Logger
}

// NewReportRepo verifies the connection and returns the repository.
func NewReportRepo(ctx context.Context, pool DBPool, logger *zap.Logger) (*ReportRepoImpl, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &ReportRepoImpl{pool: pool, log: logger.Named("report_store")}, nil
}

// Save writes the report and its bottlenecks in one transaction.
func (r *ReportRepoImpl) Save(ctx context.Context, report *entity.AnalysisReport) error {
	metrics, err := json.Marshal(report.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	ratings, err := jsonOrEmpty(report.Ratings, "{}")
	if err != nil {
		return fmt.Errorf("encode ratings: %w", err)
	}
	resources, err := jsonOrEmpty(report.Resources, "[]")
	if err != nil {
		return fmt.Errorf("encode resources: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			r.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, sqlInsertReport,
		report.ID, report.SessionKey, report.URL,
		metrics, ratings, resources,
		report.SuggestionLevel, report.AnalyzedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	if len(report.Bottlenecks) > 0 {
		if err := r.persistBottlenecks(ctx, tx, report.ID, report.Bottlenecks); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ReportRepoImpl) persistBottlenecks(ctx context.Context, tx pgx.Tx, reportID string, bottlenecks []entity.Bottleneck) error {
	rows := make([][]any, len(bottlenecks))
	for i, b := range bottlenecks {
		res, err := jsonOrEmpty(b.Resources, "[]")
		if err != nil {
			return fmt.Errorf("encode bottleneck resources: %w", err)
		}
		sugg, err := jsonOrEmpty(b.Suggestions, "[]")
		if err != nil {
			return fmt.Errorf("encode bottleneck suggestions: %w", err)
		}
		rows[i] = []any{
			reportID, i,
			string(b.Category), b.Title, b.Description, string(b.Severity),
			res, sugg,
		}
	}

	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{"analysis_bottlenecks"}, bottleneckColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy bottlenecks: %w", err)
	}
	if int(copyCount) != len(bottlenecks) {
		return fmt.Errorf("mismatch in copied bottlenecks count: expected %d, got %d", len(bottlenecks), copyCount)
	}
	return nil
}

func (r *ReportRepoImpl) FindByID(ctx context.Context, id string) (*entity.AnalysisReport, error) {
	return r.findOne(ctx, sqlSelectReport+` WHERE id = $1;`, id)
}

func (r *ReportRepoImpl) LatestBySession(ctx context.Context, sessionKey string) (*entity.AnalysisReport, error) {
	return r.findOne(ctx, sqlSelectReport+` WHERE session_key = $1 ORDER BY analyzed_at DESC LIMIT 1;`, sessionKey)
}

func (r *ReportRepoImpl) findOne(ctx context.Context, query string, arg string) (*entity.AnalysisReport, error) {
	report, err := scanReport(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	if err := r.attachBottlenecks(ctx, []*entity.AnalysisReport{report}); err != nil {
		return nil, err
	}
	return report, nil
}

// ListByURL returns up to limit reports, newest first.
func (r *ReportRepoImpl) ListByURL(ctx context.Context, url string, limit int) ([]*entity.AnalysisReport, error) {
	query := sqlSelectReport + ` WHERE ($1 = '' OR url = $1) ORDER BY analyzed_at DESC LIMIT $2;`
	rows, err := r.pool.Query(ctx, query, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*entity.AnalysisReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	if len(reports) == 0 {
		return reports, nil
	}
	if err := r.attachBottlenecks(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepoImpl) attachBottlenecks(ctx context.Context, reports []*entity.AnalysisReport) error {
	ids := make([]string, len(reports))
	byID := make(map[string]*entity.AnalysisReport, len(reports))
	for i, rep := range reports {
		ids[i] = rep.ID
		byID[rep.ID] = rep
		rep.Bottlenecks = []entity.Bottleneck{}
	}

	rows, err := r.pool.Query(ctx, sqlSelectBottlenecks, ids)
	if err != nil {
		return fmt.Errorf("failed to query bottlenecks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			reportID, category, severity string
			b                            entity.Bottleneck
			res, sugg                    []byte
		)
		if err := rows.Scan(&reportID, &category, &b.Title, &b.Description, &severity, &res, &sugg); err != nil {
			return fmt.Errorf("failed to scan bottleneck row: %w", err)
		}
		b.Category = entity.Category(category)
		b.Severity = entity.Severity(severity)
		if err := json.Unmarshal(res, &b.Resources); err != nil {
			return fmt.Errorf("decode bottleneck resources: %w", err)
		}
		if err := json.Unmarshal(sugg, &b.Suggestions); err != nil {
			return fmt.Errorf("decode bottleneck suggestions: %w", err)
		}
		if rep, ok := byID[reportID]; ok {
			rep.Bottlenecks = append(rep.Bottlenecks, b)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during row iteration: %w", err)
	}
	return nil
}

func scanReport(row scanner) (*entity.AnalysisReport, error) {
	var (
		rep                         entity.AnalysisReport
		metrics, ratings, resources []byte
	)
	if err := row.Scan(&rep.ID, &rep.SessionKey, &rep.URL, &metrics, &ratings, &resources, &rep.SuggestionLevel, &rep.AnalyzedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metrics, &rep.Metrics); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	if len(ratings) > 0 {
		if err := json.Unmarshal(ratings, &rep.Ratings); err != nil {
			return nil, fmt.Errorf("decode ratings: %w", err)
		}
	}
	if err := json.Unmarshal(resources, &rep.Resources); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	return &rep, nil
}

// jsonOrEmpty encodes v, substituting empty for a nil slice or map so the
// JSONB column never holds null.
func jsonOrEmpty(v any, empty string) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return []byte(empty), nil
	}
	return raw, nil
}
