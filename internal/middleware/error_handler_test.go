package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   []string
	}{
		{
			name: "private error becomes a 500",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("sqlite: disk I/O error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{`"error":"internal_error"`, "An unexpected error occurred", `"request_id":"req-9"`},
		},
		{
			name: "bind error becomes a 400",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("quantity must be positive")).SetType(gin.ErrorTypeBind)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   []string{`"error":"invalid_request"`},
		},
		{
			name: "mixed errors are a 500",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("bad month")).SetType(gin.ErrorTypeBind)
				_ = c.Error(errors.New("history unavailable"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "written response is left alone",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("duplicates"))
				c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
			},
			wantStatus: http.StatusConflict,
			wantBody:   []string{`"error":"conflict"`},
		},
		{
			name:       "no errors passes through",
			handler:    func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
			wantBody:   []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler())
			router.POST("/api/check-duplicates", tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/api/check-duplicates", nil)
			req.Header.Set(RequestIDHeader, "req-9")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			for _, s := range tt.wantBody {
				assert.Contains(t, w.Body.String(), s)
			}
		})
	}
}
