package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockplot/internal/domain/models"
	"github.com/guttosm/stockplot/internal/logger"
	"github.com/guttosm/stockplot/internal/service"
)

const maxParallel = 8

// ErrAllFailed is returned when not a single symbol could be rendered.
var ErrAllFailed = errors.New("every symbol failed to render")

// Options describes one batch run. Every symbol is rendered with the same
// chart type, time series and window.
type Options struct {
	Symbols    []string
	ChartType  string
	TimeSeries string
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	Parallel   int    // 0 = min(NumCPU, 8)
}

// Summary reports how a run went. Failures maps symbol to the error kind name.
type Summary struct {
	Total    int
	Rendered int
	Failed   int
	Failures map[string]string
}

// RenderAll renders one chart per symbol through svc.
//
// Behavior:
//   - Runs at most Parallel renders at once (errgroup with a limit).
//   - A failing symbol is logged and counted; the others carry on.
//   - Stops early when ctx is cancelled and returns ctx.Err().
//   - Returns ErrAllFailed when no symbol rendered.
//
// Returns:
//   - Summary: counts of rendered and failed symbols.
//   - error: nil unless every symbol failed or the run was cancelled.
func RenderAll(ctx context.Context, svc service.ChartService, opts Options) (Summary, error) {
	symbols := dedupe(opts.Symbols)
	sum := Summary{Total: len(symbols), Failures: map[string]string{}}
	if len(symbols) == 0 {
		return sum, errors.New("no symbols to render")
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	if parallel > maxParallel {
		parallel = maxParallel
	}

	logger.L().Info().Int("symbols", len(symbols)).Int("max_parallel", parallel).
		Str("chart", opts.ChartType).Str("time_series", opts.TimeSeries).
		Str("start", opts.StartDate).Str("end", opts.EndDate).Msg("batch start")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, sym := range symbols {
		idx := i
		symbol := sym
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			form := models.ChartForm{
				Symbol:     symbol,
				ChartType:  opts.ChartType,
				TimeSeries: opts.TimeSeries,
				StartDate:  opts.StartDate,
				EndDate:    opts.EndDate,
			}

			res, err := svc.RenderChart(gctx, form, uuid.NewString())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failed++
				sum.Failures[symbol] = models.KindOf(err).String()
				logger.L().Error().Int("idx", idx+1).Int("total", len(symbols)).Str("symbol", symbol).
					Dur("elapsed", time.Since(start)).Err(err).Msg("symbol failed")
				return nil
			}
			sum.Rendered++
			logger.L().Info().Int("idx", idx+1).Int("total", len(symbols)).Str("symbol", symbol).
				Int("points", res.Points).Str("path", res.Path).Dur("elapsed", time.Since(start)).Msg("symbol done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	logger.L().Info().Int("rendered", sum.Rendered).Int("failed", sum.Failed).Msg("batch done")

	if sum.Rendered == 0 {
		return sum, fmt.Errorf("%w (%d symbols)", ErrAllFailed, sum.Failed)
	}
	return sum, nil
}

// ParseSymbols splits a comma-separated --symbols flag.
func ParseSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each symbol, case-insensitively.
func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		key := strings.ToUpper(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
