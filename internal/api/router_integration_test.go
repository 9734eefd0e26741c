//go:build integration
// +build integration

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/stockplot/config"
	"github.com/guttosm/stockplot/internal/app"
	"github.com/guttosm/stockplot/internal/domain/dto"
)

func startPG(t *testing.T) (host string, port nat.Port, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "stockplot",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=stockplot sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	terminate = func() { _ = c.Terminate(context.Background()) }
	return h, mp, terminate
}

const upstreamBody = `{
  "Meta Data": {"2. Symbol": "AAPL"},
  "Time Series (Daily)": {
    "2023-01-05": {"1. open": "127.13", "2. high": "127.77", "3. low": "124.76", "4. close": "125.02"},
    "2023-01-04": {"1. open": "126.89", "2. high": "128.66", "3. low": "125.08", "4. close": "126.36"},
    "2023-01-03": {"1. open": "130.28", "2. high": "130.90", "3. low": "124.17", "4. close": "125.07"}
  }
}`

func TestAPI_E2E_RenderIsRecorded(t *testing.T) {
	host, port, term := startPG(t)
	defer term()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	pgPort, _ := nat.ParsePort(port.Port())
	pg := config.PostgresConfig{
		Enabled:  true,
		Host:     host,
		Port:     pgPort,
		User:     "postgres",
		Password: "postgres",
		DBName:   "stockplot",
		SSLMode:  "disable",
	}
	cfg := config.Config{
		Server:     config.ServerConfig{Port: "8080", SecretKey: "s3cret", RateLimitPerMinute: 100},
		MarketData: config.MarketDataConfig{BaseURL: upstream.URL, APIKey: "demo", Timeout: 5 * time.Second},
		Chart:      config.ChartConfig{OutputDir: filepath.Join(t.TempDir(), "charts"), URLPrefix: "/static/charts"},
		Postgres:   pg,
	}

	ctx := context.Background()
	db, err := app.InitPostgres(ctx, pg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := app.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	_ = db.Close()

	router, cleanup, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	body := []byte(`{"symbol":"AAPL","chart":"Line","timeSeries":"Daily","startdate":"2023-01-03","enddate":"2023-01-05"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/charts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/renders?symbol=AAPL", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var out dto.RendersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Count != 1 || out.Renders[0].Symbol != "AAPL" || out.Renders[0].Points != 3 {
		t.Fatalf("unexpected body: %+v", out)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status: %d", w.Code)
	}
}
