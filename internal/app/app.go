package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockplot/config"
	"github.com/guttosm/stockplot/internal/api"
	"github.com/guttosm/stockplot/internal/logger"
	"github.com/guttosm/stockplot/internal/marketdata"
	"github.com/guttosm/stockplot/internal/render"
	"github.com/guttosm/stockplot/internal/service"
	"github.com/guttosm/stockplot/internal/storage"
	"github.com/guttosm/stockplot/internal/symbols"
)

// Components are the pieces shared by the API server and the batch renderer.
type Components struct {
	Service service.ChartService
	Symbols []string
	DB      *sql.DB // nil when the render log is disabled
}

// NewComponents builds the chart pipeline from cfg.
//
// Responsibilities:
//   - Creates the market-data client and the SVG renderer.
//   - Connects to PostgreSQL when cfg.Postgres.Enabled; otherwise uses a no-op render log.
//   - Loads the symbol list. A missing or unreadable file only logs a warning.
//
// Returns the components and a cleanup closing whatever was opened.
func NewComponents(ctx context.Context, cfg config.Config) (*Components, func(), error) {
	var (
		db   *sql.DB
		repo storage.RendersRepository = storage.NewNoopRepository()
	)
	if cfg.Postgres.Enabled {
		var err error
		db, err = postgresOpener(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		repo = storage.NewRendersRepository(db)
	}

	list, err := symbols.Load(cfg.Symbols.File)
	if err != nil {
		logger.L().Warn().Err(err).Str("file", cfg.Symbols.File).Msg("symbol list unavailable")
		list = []string{}
	}

	client := marketdata.NewClient(cfg.MarketData)
	renderer := render.NewSVGRenderer(cfg.Chart)
	svc := service.NewChartService(client, renderer, repo, cfg.Chart.URLPrefix)

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	return &Components{Service: svc, Symbols: list, DB: db}, cleanup, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the pipeline with NewComponents.
//   - Creates the JSON and HTML handler layers.
//   - Configures the Gin router with all routes.
//   - Registers health and readiness probes (chart directory, Postgres when enabled).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp(ctx context.Context, cfg config.Config) (*gin.Engine, func(), error) {
	comp, cleanup, err := NewComponents(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	tpl, err := api.LoadTemplates()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load templates: %w", err)
	}

	handler := api.NewHandler(comp.Service)
	web := api.NewWebHandler(comp.Service, comp.Symbols, api.NewFlashStore(cfg.Server.SecretKey))

	router := api.NewRouter(handler, web, api.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RequestTimeout:     cfg.Server.RequestTimeout,
		ChartDir:           cfg.Chart.OutputDir,
		ChartURLPrefix:     cfg.Chart.URLPrefix,
		Templates:          tpl,
	})

	checks := map[string]api.Check{
		"chart_dir": chartDirCheck(cfg.Chart.OutputDir),
	}
	if comp.DB != nil {
		checks["postgres"] = comp.DB.PingContext
	}
	api.NewHealthHandler(checks).Register(router)

	return router, cleanup, nil
}

// chartDirCheck reports whether the output directory exists or can be created.
func chartDirCheck(dir string) api.Check {
	return func(context.Context) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		fi, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
}
