package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockplot/internal/domain/models"
	"github.com/guttosm/stockplot/internal/middleware"
	"github.com/guttosm/stockplot/internal/service"
)

// WebHandler serves the HTML form flow: the index page and the results page.
//
// Failures never render an error page; the user-facing message is stored as
// a flash and the browser is sent back to the index with 303 See Other.
type WebHandler struct {
	svc     service.ChartService
	symbols []string
	flash   *FlashStore
}

// NewWebHandler constructs a WebHandler.
//
// Parameters:
//   - svc: the chart pipeline.
//   - symbols: tickers offered on the index page (may be empty).
//   - flash: signed cookie store for one-shot messages.
func NewWebHandler(svc service.ChartService, symbols []string, flash *FlashStore) *WebHandler {
	return &WebHandler{svc: svc, symbols: symbols, flash: flash}
}

// Index handles GET /.
func (h *WebHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Flash":         h.flash.Pop(c),
		"Symbols":       h.symbols,
		"ChartTypes":    models.ChartTypes,
		"Granularities": models.Granularities,
	})
}

// Results handles POST /results.
//
// Form fields: symbol, chart, timeSeries, startdate, enddate.
//
// Responses:
//   - 200 OK: results page showing the rendered chart.
//   - 303 See Other to "/": any failure, with the reason in the flash cookie.
func (h *WebHandler) Results(c *gin.Context) {
	var form models.ChartForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, models.NewChartError(models.KindMissingField, "unreadable form", err))
		return
	}

	res, err := h.svc.RenderChart(c.Request.Context(), form, middleware.GetRequestID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "results.html", gin.H{"Result": res})
}

// RateLimited answers a form submission that exhausted the client's request
// budget. It is the onLimit hook for middleware.RateLimit.
func (h *WebHandler) RateLimited(c *gin.Context) {
	h.fail(c, models.NewChartError(models.KindRateLimited, "client request budget exhausted", nil))
	c.Abort()
}

func (h *WebHandler) fail(c *gin.Context, err error) {
	h.flash.Set(c, models.UserMessage(err))
	c.Redirect(http.StatusSeeOther, "/")
}
