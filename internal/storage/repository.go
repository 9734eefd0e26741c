package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/guttosm/stockplot/internal/domain/models"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	uniqueViolation = "23505"
)

// ErrDuplicateRender is returned when a render with the same id is already recorded.
var ErrDuplicateRender = errors.New("render already recorded")

// RendersRepository defines contract for the render log.
type RendersRepository interface {
	InsertRender(ctx context.Context, rec models.RenderRecord) error
	ListRenders(ctx context.Context, symbol string, limit int) ([]models.RenderRecord, error)
}

type rendersRepository struct {
	db *sql.DB
}

func NewRendersRepository(db *sql.DB) RendersRepository {
	return &rendersRepository{db: db}
}

// InsertRender records one successful render.
func (r *rendersRepository) InsertRender(ctx context.Context, rec models.RenderRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chart_renders (id, request_id, symbol, chart_type, granularity, start_date, end_date, points, path, rendered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		rec.ID,
		rec.RequestID,
		rec.Symbol,
		rec.ChartType,
		rec.Granularity,
		rec.StartDate,
		rec.EndDate,
		rec.Points,
		rec.Path,
		rec.RenderedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateRender, rec.ID)
		}
		return fmt.Errorf("insert render: %w", err)
	}
	return nil
}

// ListRenders returns the newest renders first. An empty symbol lists all symbols.
// limit is clamped to 1..100; zero or negative means 20.
func (r *rendersRepository) ListRenders(ctx context.Context, symbol string, limit int) ([]models.RenderRecord, error) {
	var args []interface{}
	conditions := ""
	if symbol != "" {
		args = append(args, symbol)
		conditions = fmt.Sprintf("WHERE symbol = $%d", len(args))
	}
	args = append(args, ClampLimit(limit))

	query := fmt.Sprintf(`
		SELECT id, request_id, symbol, chart_type, granularity, start_date, end_date, points, path, rendered_at
		FROM chart_renders
		%s
		ORDER BY rendered_at DESC
		LIMIT $%d
	`, conditions, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.RenderRecord, 0)
	for rows.Next() {
		var rec models.RenderRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.Symbol,
			&rec.ChartType,
			&rec.Granularity,
			&rec.StartDate,
			&rec.EndDate,
			&rec.Points,
			&rec.Path,
			&rec.RenderedAt,
		); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renders: %w", err)
	}
	return out, nil
}

// ClampLimit normalises a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
