//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/stockplot/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
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
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=stockplot sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "stockplot")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func record(symbol string, at time.Time) models.RenderRecord {
	return models.RenderRecord{
		ID:          uuid.NewString(),
		RequestID:   uuid.NewString(),
		Symbol:      symbol,
		ChartType:   "Line",
		Granularity: "Daily",
		StartDate:   time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		Points:      3,
		Path:        "static/stock_data_charts/" + symbol + "_stock_data_chart.svg",
		RenderedAt:  at,
	}
}

func TestRendersRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	ctx := context.Background()
	repo := NewRendersRepository(db)
	base := time.Date(2025, 9, 11, 12, 0, 0, 0, time.UTC)

	first := record("AAPL", base)
	for _, rec := range []models.RenderRecord{first, record("AAPL", base.Add(time.Minute)), record("IBM", base.Add(2*time.Minute))} {
		if err := repo.InsertRender(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	if err := repo.InsertRender(ctx, first); !errors.Is(err, ErrDuplicateRender) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	cases := []struct {
		name   string
		symbol string
		limit  int
		want   int
		newest string
	}{
		{name: "all symbols", symbol: "", limit: 0, want: 3, newest: "IBM"},
		{name: "one symbol", symbol: "AAPL", limit: 10, want: 2, newest: "AAPL"},
		{name: "limited", symbol: "", limit: 1, want: 1, newest: "IBM"},
		{name: "unknown symbol", symbol: "MSFT", limit: 10, want: 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := repo.ListRenders(ctx, c.symbol, c.limit)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(out) != c.want {
				t.Fatalf("want %d got %d", c.want, len(out))
			}
			if c.want > 0 && out[0].Symbol != c.newest {
				t.Fatalf("newest: want %s got %s", c.newest, out[0].Symbol)
			}
		})
	}
}
