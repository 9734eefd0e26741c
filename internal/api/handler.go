package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockplot/internal/domain/dto"
	"github.com/guttosm/stockplot/internal/domain/models"
	"github.com/guttosm/stockplot/internal/middleware"
	"github.com/guttosm/stockplot/internal/service"
)

// Handler provides the JSON API over the chart pipeline.
//
// Responsibilities:
//   - Bind JSON request bodies and query parameters
//   - Delegate to the chart service
//   - Hand pipeline errors to middleware.ErrorHandler, which picks the status
//   - Return structured JSON responses
type Handler struct {
	svc service.ChartService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.ChartService): the chart pipeline.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.ChartService) *Handler {
	return &Handler{svc: svc}
}

// CreateChart handles POST /api/v1/charts requests.
//
// Responses:
//   - 201 Created: RenderResult with the chart URL.
//   - 400 Bad Request: malformed body or validation failure.
//   - 404 Not Found: unknown symbol or no data in the window.
//   - 429 Too Many Requests: upstream rate limit reached.
//   - 502 Bad Gateway: upstream unreachable or unexpected payload.
//   - 500 Internal Server Error: chart could not be written.
//
// CreateChart godoc
// @Summary      Render a stock chart
// @Description  Fetches the daily series for a symbol, keeps the points in [startdate, enddate] and renders an SVG chart of Open/High/Low/Close
// @Tags         charts
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChartForm     true  "Chart request"
// @Success      201      {object}  models.RenderResult  "Created"
// @Failure      400      {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse    "Not Found"
// @Failure      429      {object}  dto.ErrorResponse    "Rate Limited"
// @Failure      502      {object}  dto.ErrorResponse    "Upstream Error"
// @Failure      500      {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/charts [post]
func (h *Handler) CreateChart(c *gin.Context) {
	var form models.ChartForm
	if err := c.ShouldBindJSON(&form); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := h.svc.RenderChart(c.Request.Context(), form, middleware.GetRequestID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListRenders handles GET /api/v1/renders requests.
//
// Query Parameters:
//   - symbol (string, optional): only renders of this ticker.
//   - limit (int, optional): page size, 1..100, default 20.
//
// ListRenders godoc
// @Summary      List recorded renders
// @Description  Returns the most recent successful renders, newest first. Empty when the render log is disabled.
// @Tags         charts
// @Produce      json
// @Param        symbol  query     string  false  "Stock symbol" example(AAPL)
// @Param        limit   query     int     false  "Max results (1-100)" example(20)
// @Success      200     {object}  dto.RendersResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse    "Bad Request"
// @Failure      500     {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/renders [get]
func (h *Handler) ListRenders(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			middleware.AbortWithError(c, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	renders, err := h.svc.RecentRenders(c.Request.Context(), symbol, limit)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to list renders", err)
		return
	}

	c.JSON(http.StatusOK, dto.RendersResponse{
		Symbol:  symbol,
		Count:   len(renders),
		Renders: renders,
	})
}
