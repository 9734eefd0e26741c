package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockplot/internal/domain/dto"
	"github.com/guttosm/stockplot/internal/domain/models"
	"github.com/guttosm/stockplot/internal/logger"
)

var kindStatus = map[models.ErrorKind]int{
	models.KindMissingField:           http.StatusBadRequest,
	models.KindInvalidDate:            http.StatusBadRequest,
	models.KindUnsupportedGranularity: http.StatusBadRequest,
	models.KindInvalidDateRange:       http.StatusBadRequest,
	models.KindUnsupportedChartType:   http.StatusBadRequest,
	models.KindUnknownSymbol:          http.StatusNotFound,
	models.KindEmptyRange:             http.StatusNotFound,
	models.KindRateLimited:            http.StatusTooManyRequests,
	models.KindUnexpectedResponse:     http.StatusBadGateway,
	models.KindFetchError:             http.StatusBadGateway,
	models.KindRenderError:            http.StatusInternalServerError,
}

// StatusFor maps a pipeline error to the HTTP status reported by the JSON API.
// Errors that are not *models.ChartError map to 500.
func StatusFor(err error) int {
	if s, ok := kindStatus[models.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrorHandler turns the last error attached with c.Error into a JSON
// dto.ErrorResponse, unless the handler already wrote a response.
//
// Usage:
//
//	router.Use(middleware.ErrorHandler)
//	...
//	_ = c.Error(err) // inside a handler
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, ErrorResponseFor(err))
}

// AbortWithError stops the chain and writes a JSON error with the given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	c.AbortWithStatusJSON(status, resp)
}

// ErrorResponseFor builds the API error body for err: the user-facing message,
// the kind name as Code and the full error text as details.
func ErrorResponseFor(err error) dto.ErrorResponse {
	resp := dto.NewErrorResponse(models.UserMessage(err), err)
	if k := models.KindOf(err); k != 0 {
		resp.Code = k.String()
	}
	return resp
}
