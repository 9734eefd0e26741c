package main

//
//  @title           stockplot API
//  @version         1.0
//  @description     Renders Open/High/Low/Close stock charts as SVG from a market-data API.
//  @termsOfService  https://github.com/guttosm/stockplot
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockplot
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        charts
//  @tag.description Chart rendering and render history
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/stockplot/config"
	_ "github.com/guttosm/stockplot/docs" // swagger docs
	"github.com/guttosm/stockplot/internal/app"
	"github.com/guttosm/stockplot/internal/batch"
	"github.com/guttosm/stockplot/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// renderFlags are the --mode render options.
type renderFlags struct {
	symbols   string
	chart     string
	series    string
	startDate string
	endDate   string
	parallel  int
}

// runRender renders one chart per symbol and reports the outcome.
// Symbols come from --symbols when given, otherwise from the symbol list.
func runRender(ctx context.Context, cfg config.Config, f renderFlags) error {
	comp, cleanup, err := app.NewComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	symbols := batch.ParseSymbols(f.symbols)
	if len(symbols) == 0 {
		symbols = comp.Symbols
	}

	sum, err := batch.RenderAll(ctx, comp.Service, batch.Options{
		Symbols:    symbols,
		ChartType:  f.chart,
		TimeSeries: f.series,
		StartDate:  f.startDate,
		EndDate:    f.endDate,
		Parallel:   f.parallel,
	})
	logger.L().Info().Int("total", sum.Total).Int("rendered", sum.Rendered).Int("failed", sum.Failed).Msg("render summary")
	return err
}

// main is the entry point of the stockplot application.
//
// Modes (selected via --mode flag):
//   - api:     Starts the web form and the REST API.
//   - render:  Renders one chart per symbol and exits.
//   - migrate: Applies the render-log migrations (requires POSTGRES_ENABLED=true).
//
// Flags:
//   - --mode: Execution mode. Default: "api".
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --symbols, --chart, --series, --start, --end, --parallel: render mode options.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	cfg, err := config.Load()

	// Initialize JSON logger
	logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid configuration")
	}

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api, render or migrate")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	var rf renderFlags
	flag.StringVar(&rf.symbols, "symbols", "", "Comma-separated symbols for render mode (default: symbol list)")
	flag.StringVar(&rf.chart, "chart", "Line", "Chart type for render mode: Bar or Line")
	flag.StringVar(&rf.series, "series", "Daily", "Time series for render mode")
	flag.StringVar(&rf.startDate, "start", time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02"), "Start date (YYYY-MM-DD)")
	flag.StringVar(&rf.endDate, "end", time.Now().UTC().Format("2006-01-02"), "End date (YYYY-MM-DD)")
	flag.IntVar(&rf.parallel, "parallel", 0, "How many symbols to render concurrently (0=auto up to CPU, max 8)")
	flag.Parse()

	switch *mode {
	case "render":
		logger.L().Info().Msg("running batch render")
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := runRender(sigCtx, cfg, rf); err != nil {
			logger.L().Fatal().Err(err).Msg("batch render failed")
		}
		logger.L().Info().Msg("batch render completed")

	case "migrate":
		if !cfg.Postgres.Enabled {
			logger.L().Fatal().Msg("POSTGRES_ENABLED is false; nothing to migrate")
		}
		db, err := app.InitPostgres(ctx, cfg.Postgres)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		if err := app.Migrate(ctx, db); err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}
		logger.L().Info().Msg("migrations applied")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp(ctx, cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
