package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/stockplot/internal/domain/models"
)

func validForm() models.ChartForm {
	return models.ChartForm{
		Symbol:     "aapl",
		ChartType:  "Line",
		TimeSeries: "Daily",
		StartDate:  "2023-01-03",
		EndDate:    "2023-01-05",
	}
}

func TestValidateForm_Valid(t *testing.T) {
	q, err := ValidateForm(validForm())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Fatalf("symbol not normalized: %q", q.Symbol)
	}
	if q.ChartType != models.ChartLine || q.Granularity != models.Daily {
		t.Fatalf("unexpected query: %+v", q)
	}
	if !q.Start.Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)) || !q.End.Equal(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected dates: %v %v", q.Start, q.End)
	}
}

func TestValidateForm_EqualDatesAccepted(t *testing.T) {
	f := validForm()
	f.EndDate = f.StartDate
	if _, err := ValidateForm(f); err != nil {
		t.Fatalf("equal dates should be accepted: %v", err)
	}
}

func TestValidateForm_Errors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(f *models.ChartForm)
		want    error
		details string
	}{
		{name: "empty symbol", mutate: func(f *models.ChartForm) { f.Symbol = "" }, want: models.ErrMissingField, details: "symbol"},
		{name: "whitespace symbol", mutate: func(f *models.ChartForm) { f.Symbol = "   " }, want: models.ErrMissingField, details: "symbol"},
		{name: "all missing", mutate: func(f *models.ChartForm) { *f = models.ChartForm{} }, want: models.ErrMissingField, details: "symbol, chart, timeSeries, startdate, enddate"},
		{name: "missing end date", mutate: func(f *models.ChartForm) { f.EndDate = "" }, want: models.ErrMissingField, details: "enddate"},
		{name: "bad start date", mutate: func(f *models.ChartForm) { f.StartDate = "01/03/2023" }, want: models.ErrInvalidDate, details: "startdate"},
		{name: "impossible end date", mutate: func(f *models.ChartForm) { f.EndDate = "2023-02-30" }, want: models.ErrInvalidDate, details: "enddate"},
		{name: "end before start", mutate: func(f *models.ChartForm) { f.StartDate, f.EndDate = "2023-01-05", "2023-01-03" }, want: models.ErrInvalidDateRange},
		{name: "unknown granularity", mutate: func(f *models.ChartForm) { f.TimeSeries = "Hourly" }, want: models.ErrUnsupportedGranularity, details: "Hourly"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)
			_, err := ValidateForm(f)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
			if tc.details != "" && !strings.Contains(err.Error(), tc.details) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.details)
			}
		})
	}
}

func TestValidateForm_MissingBeatsDateErrors(t *testing.T) {
	f := validForm()
	f.Symbol = ""
	f.StartDate, f.EndDate = "2023-01-05", "2023-01-03"
	if _, err := ValidateForm(f); !errors.Is(err, models.ErrMissingField) {
		t.Fatalf("expected missing field first, got %v", err)
	}
}

func TestValidateForm_DateRangeBeatsGranularity(t *testing.T) {
	f := validForm()
	f.TimeSeries = "Hourly"
	f.StartDate, f.EndDate = "2023-01-05", "2023-01-03"
	if _, err := ValidateForm(f); !errors.Is(err, models.ErrInvalidDateRange) {
		t.Fatalf("expected date range error first, got %v", err)
	}
}

func TestValidateForm_DateOrderProperty(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			f := validForm()
			f.StartDate = base.AddDate(0, 0, i).Format(models.DateLayout)
			f.EndDate = base.AddDate(0, 0, j).Format(models.DateLayout)
			_, err := ValidateForm(f)
			if j < i && !errors.Is(err, models.ErrInvalidDateRange) {
				t.Fatalf("start+%d end+%d: expected range error, got %v", i, j, err)
			}
			if j >= i && err != nil {
				t.Fatalf("start+%d end+%d: unexpected err %v", i, j, err)
			}
		}
	}
}
