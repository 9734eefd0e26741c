package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/stockplot/internal/domain/models"
	"github.com/guttosm/stockplot/internal/marketdata"
)

type stubFetcher struct {
	payload *marketdata.Payload
	err     error
	calls   int
	symbols []string
}

func (s *stubFetcher) FetchDaily(_ context.Context, symbol string) (*marketdata.Payload, error) {
	s.calls++
	s.symbols = append(s.symbols, symbol)
	return s.payload, s.err
}

type stubRenderer struct {
	err       error
	calls     int
	lastChart models.Chart
	lastType  models.ChartType
}

func (s *stubRenderer) Render(chart models.Chart, chartType models.ChartType, symbol string) (string, error) {
	s.calls++
	s.lastChart = chart
	s.lastType = chartType
	if s.err != nil {
		return "", s.err
	}
	return "/data/charts/" + symbol + ".svg", nil
}

type stubRepo struct {
	mu        sync.Mutex
	insertErr error
	inserted  []models.RenderRecord
	listed    []models.RenderRecord
	listErr   error
	listArgs  []interface{}
}

func (s *stubRepo) InsertRender(_ context.Context, rec models.RenderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, rec)
	return s.insertErr
}

func (s *stubRepo) ListRenders(_ context.Context, symbol string, limit int) ([]models.RenderRecord, error) {
	s.listArgs = []interface{}{symbol, limit}
	return s.listed, s.listErr
}

func dailyPayload() *marketdata.Payload {
	return &marketdata.Payload{
		Meta: marketdata.MetaData{Symbol: "AAPL"},
		Series: map[models.Granularity]models.TimeSeries{
			models.Daily: sampleSeries(),
		},
	}
}

func newTestService(f *stubFetcher, r *stubRenderer, repo *stubRepo) *chartService {
	svc := NewChartService(f, r, repo, "/static/charts").(*chartService)
	svc.now = func() time.Time { return time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestRenderChart_EndToEnd(t *testing.T) {
	f := &stubFetcher{payload: dailyPayload()}
	r := &stubRenderer{}
	repo := &stubRepo{}
	svc := newTestService(f, r, repo)

	res, err := svc.RenderChart(context.Background(), validForm(), "req-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if !reflect.DeepEqual(f.symbols, []string{"AAPL"}) {
		t.Fatalf("fetch called with %v", f.symbols)
	}
	if res.Points != 3 || res.Symbol != "AAPL" || res.RequestID != "req-1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.URL != "/static/charts/AAPL.svg" || res.Path != "/data/charts/AAPL.svg" {
		t.Fatalf("unexpected location %q %q", res.URL, res.Path)
	}
	if res.StartDate != "2023-01-03" || res.EndDate != "2023-01-05" || res.Granularity != "Daily" {
		t.Fatalf("unexpected window %+v", res)
	}

	if r.lastType != models.ChartLine {
		t.Fatalf("renderer got chart type %q", r.lastType)
	}
	if r.lastChart.Title != "AAPL Stock Data from 2023-01-03 to 2023-01-05" {
		t.Fatalf("unexpected title %q", r.lastChart.Title)
	}
	if !reflect.DeepEqual(r.lastChart.Labels, []string{"2023-01-05", "2023-01-04", "2023-01-03"}) {
		t.Fatalf("unexpected labels %v", r.lastChart.Labels)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected one recorded render, got %d", len(repo.inserted))
	}
	rec := repo.inserted[0]
	if rec.ID == "" || rec.RequestID != "req-1" || rec.Points != 3 || !rec.RenderedAt.Equal(svc.now()) {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRenderChart_StageFailures(t *testing.T) {
	cases := []struct {
		name        string
		form        func() models.ChartForm
		fetchErr    error
		payload     *marketdata.Payload
		renderErr   error
		want        error
		wantFetches int
		wantRenders int
	}{
		{
			name:        "validation stops before fetch",
			form:        func() models.ChartForm { f := validForm(); f.StartDate, f.EndDate = "2023-01-05", "2023-01-03"; return f },
			payload:     dailyPayload(),
			want:        models.ErrInvalidDateRange,
			wantFetches: 0,
		},
		{
			name:        "missing symbol",
			form:        func() models.ChartForm { f := validForm(); f.Symbol = ""; return f },
			payload:     dailyPayload(),
			want:        models.ErrMissingField,
			wantFetches: 0,
		},
		{
			name:        "rate limited",
			form:        validForm,
			fetchErr:    models.NewChartError(models.KindRateLimited, "Note", nil),
			want:        models.ErrRateLimited,
			wantFetches: 1,
		},
		{
			name:        "unknown symbol",
			form:        validForm,
			fetchErr:    models.NewChartError(models.KindUnknownSymbol, "Error Message", nil),
			want:        models.ErrUnknownSymbol,
			wantFetches: 1,
		},
		{
			name:        "granularity absent from payload",
			form:        func() models.ChartForm { f := validForm(); f.TimeSeries = "Weekly"; return f },
			payload:     dailyPayload(),
			want:        models.ErrEmptyRange,
			wantFetches: 1,
		},
		{
			name:        "window without data",
			form:        func() models.ChartForm { f := validForm(); f.StartDate, f.EndDate = "2020-01-01", "2020-01-31"; return f },
			payload:     dailyPayload(),
			want:        models.ErrEmptyRange,
			wantFetches: 1,
		},
		{
			name:        "render failure",
			form:        validForm,
			payload:     dailyPayload(),
			renderErr:   models.NewChartError(models.KindUnsupportedChartType, "Pie", nil),
			want:        models.ErrUnsupportedChartType,
			wantFetches: 1,
			wantRenders: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &stubFetcher{payload: tc.payload, err: tc.fetchErr}
			r := &stubRenderer{err: tc.renderErr}
			repo := &stubRepo{}
			svc := newTestService(f, r, repo)

			res, err := svc.RenderChart(context.Background(), tc.form(), "req")
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
			if res != nil {
				t.Fatalf("expected nil result, got %+v", res)
			}
			if f.calls != tc.wantFetches || r.calls != tc.wantRenders {
				t.Fatalf("fetches=%d renders=%d", f.calls, r.calls)
			}
			if len(repo.inserted) != 0 {
				t.Fatalf("failed request must not be recorded")
			}
		})
	}
}

func TestRenderChart_RecordFailureIgnored(t *testing.T) {
	f := &stubFetcher{payload: dailyPayload()}
	repo := &stubRepo{insertErr: errors.New("db down")}
	svc := newTestService(f, &stubRenderer{}, repo)

	res, err := svc.RenderChart(context.Background(), validForm(), "req")
	if err != nil || res == nil {
		t.Fatalf("expected success despite record failure, got res=%v err=%v", res, err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected insert attempt")
	}
}

func TestRecentRenders_Delegates(t *testing.T) {
	want := []models.RenderRecord{{ID: "1", Symbol: "AAPL"}}
	repo := &stubRepo{listed: want}
	svc := newTestService(&stubFetcher{}, &stubRenderer{}, repo)

	got, err := svc.RecentRenders(context.Background(), "AAPL", 5)
	if err != nil || !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected got=%v err=%v", got, err)
	}
	if !reflect.DeepEqual(repo.listArgs, []interface{}{"AAPL", 5}) {
		t.Fatalf("unexpected args %v", repo.listArgs)
	}
}
