package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/metrics"
)

// Recovery turns a handler panic into a 500 and logs the stack. A panic with
// http.ErrAbortHandler is re-raised, and a client that hung up gets no body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			metrics.RecordPanic(c.FullPath())
			if err, ok := rec.(error); ok && clientGone(err) {
				RequestLog(c).Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Client closed connection")
				c.Abort()
				return
			}

			RequestLog(c).Error().
				Interface("panic", rec).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("Panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, messages.Get(messages.ErrKeyInternalError)).
					WithRequestID(GetRequestID(c)))
		}()
		c.Next()
	}
}

func clientGone(err error) bool {
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr, &sysErr) {
		return errors.Is(sysErr.Err, syscall.EPIPE) || errors.Is(sysErr.Err, syscall.ECONNRESET)
	}
	return false
}
