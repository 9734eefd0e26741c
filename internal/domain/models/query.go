package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by the form, the upstream API and chart titles.
const DateLayout = "2006-01-02"

// ChartForm carries the raw, unvalidated fields of a chart request.
//
// The same struct binds the HTML form (form tags) and the JSON API body (json tags).
type ChartForm struct {
	Symbol     string `form:"symbol" json:"symbol" example:"AAPL"`
	ChartType  string `form:"chart" json:"chart" example:"Line"`
	TimeSeries string `form:"timeSeries" json:"timeSeries" example:"Daily"`
	StartDate  string `form:"startdate" json:"startdate" example:"2023-01-03"`
	EndDate    string `form:"enddate" json:"enddate" example:"2023-01-05"`
}

// ChartType is the requested chart style. Values are kept as submitted and
// interpreted case-insensitively when the chart is drawn.
type ChartType string

const (
	ChartBar  ChartType = "Bar"
	ChartLine ChartType = "Line"
)

// ChartTypes lists the styles offered on the index page.
var ChartTypes = []ChartType{ChartBar, ChartLine}

// Granularity is the time-series resolution.
type Granularity string

const (
	Intraday Granularity = "Intraday"
	Daily    Granularity = "Daily"
	Weekly   Granularity = "Weekly"
	Monthly  Granularity = "Monthly"
)

// Granularities lists the resolutions offered on the index page, in display order.
var Granularities = []Granularity{Intraday, Daily, Weekly, Monthly}

// ParseGranularity matches a label against the closed set of granularities.
func ParseGranularity(s string) (Granularity, bool) {
	for _, g := range Granularities {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, true
		}
	}
	return "", false
}

// Query is a validated chart request.
//
// Invariant: Start is not after End. Both are date-only values in UTC.
type Query struct {
	Symbol      string
	ChartType   ChartType
	Granularity Granularity
	Start       time.Time
	End         time.Time
}
