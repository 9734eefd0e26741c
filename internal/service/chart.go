package service

import (
	"context"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/stockplot/internal/domain/models"
	"github.com/guttosm/stockplot/internal/logger"
	"github.com/guttosm/stockplot/internal/marketdata"
	"github.com/guttosm/stockplot/internal/storage"
)

// Renderer draws a chart and returns the path of the written file.
type Renderer interface {
	Render(chart models.Chart, chartType models.ChartType, symbol string) (string, error)
}

// ChartService runs the chart pipeline and exposes the render log.
type ChartService interface {
	RenderChart(ctx context.Context, form models.ChartForm, requestID string) (*models.RenderResult, error)
	RecentRenders(ctx context.Context, symbol string, limit int) ([]models.RenderRecord, error)
}

type chartService struct {
	fetcher   marketdata.Fetcher
	renderer  Renderer
	repo      storage.RendersRepository
	urlPrefix string
	now       func() time.Time
}

// NewChartService wires the pipeline stages together.
//
// urlPrefix is where the rendered files are served from (e.g. "/static/charts").
func NewChartService(fetcher marketdata.Fetcher, renderer Renderer, repo storage.RendersRepository, urlPrefix string) ChartService {
	return &chartService{
		fetcher:   fetcher,
		renderer:  renderer,
		repo:      repo,
		urlPrefix: urlPrefix,
		now:       time.Now,
	}
}

// RenderChart validates the form, fetches the daily payload, selects the
// requested series, filters it to the window and renders it.
//
// The first failing stage ends the request; its *models.ChartError is returned
// unchanged. A failure to record the render is logged and otherwise ignored.
func (s *chartService) RenderChart(ctx context.Context, form models.ChartForm, requestID string) (*models.RenderResult, error) {
	log := logger.WithRequest(requestID)

	q, err := ValidateForm(form)
	if err != nil {
		log.Warn().Err(err).Str("kind", models.KindOf(err).String()).Str("stage", "validate").Msg("chart request rejected")
		return nil, err
	}

	payload, err := s.fetcher.FetchDaily(ctx, q.Symbol)
	if err != nil {
		log.Warn().Err(err).Str("kind", models.KindOf(err).String()).Str("stage", "fetch").Str("symbol", q.Symbol).Msg("chart request failed")
		return nil, err
	}

	series := marketdata.SelectSeries(payload, q.Granularity)

	shaped, err := FilterRange(series, q.Start, q.End)
	if err != nil {
		log.Warn().Err(err).Str("kind", models.KindOf(err).String()).Str("stage", "filter").Str("symbol", q.Symbol).Str("granularity", string(q.Granularity)).Msg("chart request failed")
		return nil, err
	}

	chart := BuildChart(q, shaped)
	p, err := s.renderer.Render(chart, q.ChartType, q.Symbol)
	if err != nil {
		log.Warn().Err(err).Str("kind", models.KindOf(err).String()).Str("stage", "render").Str("symbol", q.Symbol).Msg("chart request failed")
		return nil, err
	}
	log.Info().Str("symbol", q.Symbol).Int("points", shaped.Len()).Str("path", p).Msg("chart saved")

	result := &models.RenderResult{
		RequestID:   requestID,
		Symbol:      q.Symbol,
		ChartType:   q.ChartType,
		Granularity: string(q.Granularity),
		StartDate:   q.Start.Format(models.DateLayout),
		EndDate:     q.End.Format(models.DateLayout),
		Points:      shaped.Len(),
		Path:        p,
		URL:         path.Join(s.urlPrefix, filepath.Base(p)),
	}

	rec := models.RenderRecord{
		ID:          uuid.NewString(),
		RequestID:   requestID,
		Symbol:      q.Symbol,
		ChartType:   string(q.ChartType),
		Granularity: string(q.Granularity),
		StartDate:   q.Start,
		EndDate:     q.End,
		Points:      shaped.Len(),
		Path:        p,
		RenderedAt:  s.now().UTC(),
	}
	if err := s.repo.InsertRender(ctx, rec); err != nil {
		log.Error().Err(err).Str("symbol", q.Symbol).Msg("record render failed")
	}

	return result, nil
}

// RecentRenders lists the newest recorded renders, optionally for one symbol.
func (s *chartService) RecentRenders(ctx context.Context, symbol string, limit int) ([]models.RenderRecord, error) {
	return s.repo.ListRenders(ctx, symbol, limit)
}
