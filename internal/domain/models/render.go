package models

import "time"

// RenderResult describes a chart that was written to disk.
//
// swagger:model RenderResult
type RenderResult struct {
	RequestID   string    `json:"request_id" example:"3f8b2a4e-6c55-4a0e-8f0e-3c2d1b0a9f87"`
	Symbol      string    `json:"symbol" example:"AAPL"`
	ChartType   ChartType `json:"chart_type" example:"Line"`
	Granularity string    `json:"granularity" example:"Daily"`
	StartDate   string    `json:"start_date" example:"2023-01-03"`
	EndDate     string    `json:"end_date" example:"2023-01-05"`
	Points      int       `json:"points" example:"3"`
	Path        string    `json:"path" example:"static/stock_data_charts/AAPL_stock_data_chart.svg"`
	URL         string    `json:"url" example:"/static/charts/AAPL_stock_data_chart.svg"`
}

// RenderRecord is a persisted entry of the render log.
//
// swagger:model RenderRecord
type RenderRecord struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	Symbol      string    `json:"symbol"`
	ChartType   string    `json:"chart_type"`
	Granularity string    `json:"granularity"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Points      int       `json:"points"`
	Path        string    `json:"path"`
	RenderedAt  time.Time `json:"rendered_at"`
}
