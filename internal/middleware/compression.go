package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression gzips JSON responses. Rendered label documents are served
// as-is: PDF streams are already deflated.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".pdf", ".png"}),
		gzip.WithExcludedPathsRegexs([]string{`^/api/label/`}),
	)
}
