package storage

import (
	"context"

	"github.com/guttosm/stockplot/internal/domain/models"
)

// NoopRepository is used when Postgres is not configured: nothing is stored
// and listings are always empty.
type NoopRepository struct{}

func NewNoopRepository() *NoopRepository { return &NoopRepository{} }

func (NoopRepository) InsertRender(context.Context, models.RenderRecord) error { return nil }

func (NoopRepository) ListRenders(context.Context, string, int) ([]models.RenderRecord, error) {
	return []models.RenderRecord{}, nil
}
