package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/messages"
)

// ErrorHandler answers for handlers that attached errors with c.Error but
// wrote no response. Bind errors become 400; anything else is a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		status, code, key := http.StatusInternalServerError, dto.ErrCodeInternal, messages.ErrKeyInternalError
		level := zerolog.ErrorLevel
		if len(c.Errors.ByType(gin.ErrorTypeBind)) == len(c.Errors) {
			status, code, key = http.StatusBadRequest, dto.ErrCodeInvalidRequest, messages.ErrKeyInvalidRequest
			level = zerolog.WarnLevel
		}

		RequestLog(c).WithLevel(level).
			Strs("errors", c.Errors.Errors()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request error")

		if !c.Writer.Written() {
			c.JSON(status, dto.NewError(code, messages.Get(key)).WithRequestID(GetRequestID(c)))
		}
	}
}
