package api

import (
	"context"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/stockplot/internal/middleware"
)

// RouterOptions carries the router settings taken from config.Config.
type RouterOptions struct {
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	ChartDir           string // directory the renderer writes to
	ChartURLPrefix     string // where ChartDir is served, e.g. "/static/charts"
	Templates          *template.Template
}

// NewRouter creates a Gin engine with routes configured.
// It receives handlers with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler).
//   - Applies one per-IP rate limit to POST /results and /api/v1. The form
//     route answers an exhausted budget with a flash and 303 to "/", the API
//     with JSON 429. The index, static charts and Swagger are not limited.
//   - Adds request timeout handling (RequestTimeout, 30 seconds when unset).
//   - Mounts Swagger docs (/swagger/*any).
//   - Serves rendered charts from ChartDir under ChartURLPrefix.
//   - Configures the HTML flow (/, /results) and API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, web *WebHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)
	limit := middleware.NewRateLimit(opts.RateLimitPerMinute, time.Minute)

	// ─── Timeout ──────────────────────────────────
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── Charts ───────────────────────────────────
	if opts.ChartDir != "" && opts.ChartURLPrefix != "" {
		router.Static(opts.ChartURLPrefix, opts.ChartDir)
	}

	// ─── HTML ─────────────────────────────────────
	if web != nil && opts.Templates != nil {
		router.SetHTMLTemplate(opts.Templates)
		router.GET("/", web.Index)
		router.POST("/results", limit.Handler(web.RateLimited), web.Results)
	}

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1", limit.Handler(middleware.RejectJSON))
	{
		v1.POST("/charts", handler.CreateChart)
		v1.GET("/renders", handler.ListRenders)
	}

	return router
}
