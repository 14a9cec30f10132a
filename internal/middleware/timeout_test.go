package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTimeout(t *testing.T) {
	deadlines := Deadlines{
		Default: 50 * time.Millisecond,
		Routes: map[string]time.Duration{
			"/api/sessions/:id/print": time.Second,
			"/api/history":            0,
		},
	}

	// waitOrFinish blocks until the request deadline or until d elapses.
	waitOrFinish := func(d time.Duration) gin.HandlerFunc {
		return func(c *gin.Context) {
			select {
			case <-c.Request.Context().Done():
			case <-time.After(d):
				c.Status(http.StatusOK)
			}
		}
	}

	tests := []struct {
		name       string
		path       string
		register   func(r *gin.Engine)
		wantStatus int
	}{
		{
			name:       "fast handler completes",
			path:       "/api/systems",
			register:   func(r *gin.Engine) { r.GET("/api/systems", waitOrFinish(0)) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "handler that writes nothing past the deadline gets a 504",
			path:       "/api/systems",
			register:   func(r *gin.Engine) { r.GET("/api/systems", waitOrFinish(time.Second)) },
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name: "handler response after the deadline is kept",
			path: "/api/check-duplicates",
			register: func(r *gin.Engine) {
				r.GET("/api/check-duplicates", func(c *gin.Context) {
					<-c.Request.Context().Done()
					c.Status(http.StatusServiceUnavailable)
				})
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "status-only response after the deadline is kept",
			path: "/api/sessions/s1",
			register: func(r *gin.Engine) {
				r.GET("/api/sessions/:id", func(c *gin.Context) {
					<-c.Request.Context().Done()
					c.Status(http.StatusNoContent)
				})
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "route override extends the budget",
			path:       "/api/sessions/s1/print",
			register:   func(r *gin.Engine) { r.GET("/api/sessions/:id/print", waitOrFinish(100*time.Millisecond)) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "zero budget leaves the route unbounded",
			path:       "/api/history",
			register:   func(r *gin.Engine) { r.GET("/api/history", waitOrFinish(100*time.Millisecond)) },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Timeout(deadlines))
			tt.register(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusGatewayTimeout {
				assert.Contains(t, w.Body.String(), `"error":"timeout"`)
			}
		})
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(Deadlines{Default: time.Second}))

	var remaining time.Duration
	router.GET("/api/printers", func(c *gin.Context) {
		if deadline, ok := c.Request.Context().Deadline(); ok {
			remaining = time.Until(deadline)
		}
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/printers", nil))

	assert.Greater(t, remaining, 900*time.Millisecond)
	assert.LessOrEqual(t, remaining, time.Second)
}
