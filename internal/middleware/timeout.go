package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/messages"
)

// Deadlines sets how long a request may run. Routes are keyed by their gin
// route pattern, e.g. "/api/sessions/:id/print".
type Deadlines struct {
	Default time.Duration
	Routes  map[string]time.Duration
}

func (d Deadlines) budget(route string) time.Duration {
	if v, ok := d.Routes[route]; ok {
		return v
	}
	return d.Default
}

// Timeout attaches the route's deadline to the request context. Handlers
// observe it through the context passed to the history store and the print
// spooler; if the deadline passes and the handler wrote nothing, a 504 is
// written on its behalf. A zero budget leaves the request unbounded.
func Timeout(d Deadlines) gin.HandlerFunc {
	return func(c *gin.Context) {
		budget := d.budget(c.FullPath())
		if budget <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), budget)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !responded(c) {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout,
				dto.NewError(dto.ErrCodeTimeout, messages.Get(messages.ErrKeyTimeout)).
					WithRequestID(GetRequestID(c)))
		}
	}
}

// responded reports whether the handler chose a response. gin buffers a
// status set without a body until the request ends, so a non-default status
// counts as a response too.
func responded(c *gin.Context) bool {
	return c.Writer.Written() || c.Writer.Status() != http.StatusOK
}
