package models

import "time"

// TimeSeriesPoint is one OHLC observation as supplied by the market-data API.
//
// Label keeps the upstream key verbatim ("2023-01-03" or "2023-01-03 16:00:00"),
// Date holds its calendar-date part.
type TimeSeriesPoint struct {
	Label string
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// TimeSeries is a single granularity's points in upstream order (usually newest first).
type TimeSeries []TimeSeriesPoint

// ShapedSeries is a TimeSeries split into index-aligned sequences ready for plotting.
type ShapedSeries struct {
	Labels []string
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
}

// Len returns the number of points.
func (s ShapedSeries) Len() int { return len(s.Labels) }

// ChartSeries is one named line or bar group.
type ChartSeries struct {
	Name   string
	Values []float64
}

// Chart is everything the renderer needs to draw a figure.
type Chart struct {
	Title  string
	Labels []string
	Series []ChartSeries
}
