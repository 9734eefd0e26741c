package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockplot/internal/domain/dto"
	"github.com/guttosm/stockplot/internal/logger"
)

// panicMessage is what a client sees when a chart request panics. The panic
// value stays in the log.
const panicMessage = "Internal server error"

// RecoveryMiddleware turns a panic in a chart or render handler into a 500.
//
// The panic value, the request id, the route and the stack are logged at
// error level. The client gets a dto.ErrorResponse carrying only the request
// id so the log line can be found; the panic value is never echoed back. When
// the handler had already started writing (for example an SVG being served),
// the connection is left as is and the chain is aborted.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}

			id := GetRequestID(c)
			log := logger.WithRequest(id)
			log.Error().
				Str("panic", fmt.Sprint(r)).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			resp := dto.NewErrorResponse(panicMessage, nil)
			resp.ErrorDetails = "request_id=" + id
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()

		c.Next()
	}
}
