package service

import (
	"fmt"
	"time"

	"github.com/guttosm/stockplot/internal/domain/models"
)

// FilterRange keeps the points dated within [start, end] (inclusive, date-only)
// in their original order and splits them into index-aligned sequences.
//
// It fails with EmptyRange when no point falls in the window, which also covers
// an empty input series.
func FilterRange(ts models.TimeSeries, start, end time.Time) (models.ShapedSeries, error) {
	start = dateOnly(start)
	end = dateOnly(end)

	var out models.ShapedSeries
	for _, pt := range ts {
		d := dateOnly(pt.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		out.Labels = append(out.Labels, pt.Label)
		out.Open = append(out.Open, pt.Open)
		out.High = append(out.High, pt.High)
		out.Low = append(out.Low, pt.Low)
		out.Close = append(out.Close, pt.Close)
	}

	if out.Len() == 0 {
		return models.ShapedSeries{}, models.NewChartError(models.KindEmptyRange,
			fmt.Sprintf("no points between %s and %s", start.Format(models.DateLayout), end.Format(models.DateLayout)), nil)
	}
	return out, nil
}

// BuildChart assembles the chart for q: title, x labels and the four series in
// the fixed order Open, High, Low, Close.
func BuildChart(q models.Query, s models.ShapedSeries) models.Chart {
	return models.Chart{
		Title: fmt.Sprintf("%s Stock Data from %s to %s",
			q.Symbol, q.Start.Format(models.DateLayout), q.End.Format(models.DateLayout)),
		Labels: s.Labels,
		Series: []models.ChartSeries{
			{Name: "Open", Values: s.Open},
			{Name: "High", Values: s.High},
			{Name: "Low", Values: s.Low},
			{Name: "Close", Values: s.Close},
		},
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
