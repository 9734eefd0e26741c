package service

import (
	"strings"
	"time"

	"github.com/guttosm/stockplot/internal/domain/models"
)

// ValidateForm turns raw form fields into a Query.
//
// It fails with:
//   - MissingField when any field is blank (Detail lists the form names).
//   - InvalidDate when a date is not YYYY-MM-DD.
//   - InvalidDateRange when the end date falls before the start date.
//   - UnsupportedGranularity when timeSeries is not Intraday/Daily/Weekly/Monthly.
//
// Equal start and end dates are accepted. No I/O happens here.
func ValidateForm(f models.ChartForm) (models.Query, error) {
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	chartType := strings.TrimSpace(f.ChartType)
	series := strings.TrimSpace(f.TimeSeries)
	start := strings.TrimSpace(f.StartDate)
	end := strings.TrimSpace(f.EndDate)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"symbol", symbol},
		{"chart", chartType},
		{"timeSeries", series},
		{"startdate", start},
		{"enddate", end},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return models.Query{}, models.NewChartError(models.KindMissingField, strings.Join(missing, ", "), nil)
	}

	startDate, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return models.Query{}, models.NewChartError(models.KindInvalidDate, "startdate", err)
	}
	endDate, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return models.Query{}, models.NewChartError(models.KindInvalidDate, "enddate", err)
	}
	if endDate.Before(startDate) {
		return models.Query{}, models.NewChartError(models.KindInvalidDateRange, start+" > "+end, nil)
	}

	g, ok := models.ParseGranularity(series)
	if !ok {
		return models.Query{}, models.NewChartError(models.KindUnsupportedGranularity, series, nil)
	}

	return models.Query{
		Symbol:      symbol,
		ChartType:   models.ChartType(chartType),
		Granularity: g,
		Start:       startDate,
		End:         endDate,
	}, nil
}
