package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// Schema creates the analyses table when it does not exist yet
const Schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id              UUID PRIMARY KEY,
	handle          TEXT NOT NULL,
	display_name    TEXT NOT NULL,
	captured_at     TIMESTAMPTZ NOT NULL,
	analyzed_at     TIMESTAMPTZ NOT NULL,
	bot_probability DOUBLE PRECISION NOT NULL,
	label           TEXT NOT NULL,
	factors         JSONB NOT NULL,
	report_key      TEXT NOT NULL DEFAULT '',
	UNIQUE (handle, captured_at)
);
CREATE INDEX IF NOT EXISTS analyses_analyzed_at_idx ON analyses (analyzed_at DESC);
`

// HistoryPostgres implements HistoryRepository for PostgreSQL
type HistoryPostgres struct {
	pool *pgxpool.Pool
}

// NewHistoryPostgres creates a new PostgreSQL history repository
func NewHistoryPostgres(pool *pgxpool.Pool) *HistoryPostgres {
	return &HistoryPostgres{pool: pool}
}

// EnsureSchema creates the table and indexes used by the repository
func (r *HistoryPostgres) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("creating analyses schema: %w", err)
	}
	return nil
}

// Save inserts or replaces a record
func (r *HistoryPostgres) Save(ctx context.Context, rec *entity.HistoryRecord) error {
	query := `
		INSERT INTO analyses (id, handle, display_name, captured_at, analyzed_at, bot_probability, label, factors, report_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (handle, captured_at) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			analyzed_at = EXCLUDED.analyzed_at,
			bot_probability = EXCLUDED.bot_probability,
			label = EXCLUDED.label,
			factors = EXCLUDED.factors,
			report_key = EXCLUDED.report_key
		RETURNING id
	`

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	err := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.Handle,
		rec.DisplayName,
		rec.CapturedAt,
		rec.AnalyzedAt,
		rec.BotProbability,
		rec.Label.String(),
		rec.Factors,
		rec.ReportKey,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}

	return nil
}

const selectColumns = `id, handle, display_name, captured_at, analyzed_at, bot_probability, label, factors, report_key`

// GetByID retrieves a record by ID
func (r *HistoryPostgres) GetByID(ctx context.Context, id string) (*entity.HistoryRecord, error) {
	// Malformed IDs cannot exist in a UUID column
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `SELECT ` + selectColumns + ` FROM analyses WHERE id = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}

	return rec, nil
}

// List retrieves records with filtering and pagination, newest first
func (r *HistoryPostgres) List(ctx context.Context, filter HistoryFilter, opts ListOptions) ([]entity.HistoryRecord, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + selectColumns + ` FROM analyses` + where + ` ORDER BY analyzed_at DESC, id`
	argNum := len(args) + 1

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, opts.Limit)
		argNum++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, opts.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var records []entity.HistoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}

	return records, nil
}

// Count returns the number of records matching the filter
func (r *HistoryPostgres) Count(ctx context.Context, filter HistoryFilter) (int64, error) {
	where, args := buildWhere(filter)

	var count int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM analyses"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting analyses: %w", err)
	}

	return count, nil
}

// DeleteOlderThan removes records analyzed before the cutoff
func (r *HistoryPostgres) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, "DELETE FROM analyses WHERE analyzed_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old analyses: %w", err)
	}
	return result.RowsAffected(), nil
}

func buildWhere(filter HistoryFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Handle != "" {
		args = append(args, filter.Handle)
		conds = append(conds, fmt.Sprintf("lower(handle) = lower($%d)", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conds = append(conds, fmt.Sprintf("analyzed_at >= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanRecord(row pgx.Row) (*entity.HistoryRecord, error) {
	var rec entity.HistoryRecord
	var label string

	err := row.Scan(
		&rec.ID,
		&rec.Handle,
		&rec.DisplayName,
		&rec.CapturedAt,
		&rec.AnalyzedAt,
		&rec.BotProbability,
		&label,
		&rec.Factors,
		&rec.ReportKey,
	)
	if err != nil {
		return nil, err
	}

	rec.Label, err = entity.ParseLabel(label)
	if err != nil {
		return nil, fmt.Errorf("parsing label %q: %w", label, err)
	}

	return &rec, nil
}
