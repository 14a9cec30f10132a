package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/messages"
)

// Where APIKeyAuth looks for the key.
const (
	APIKeyHeader = "X-API-Key"
	APIKeyQuery  = "api_key"
)

// APIKeySet holds the accepted API keys. Entries starting with "$2" are
// treated as bcrypt hashes; the rest are compared in constant time.
type APIKeySet struct {
	plain  [][]byte
	hashed [][]byte
}

// NewAPIKeySet builds a key set, skipping blank entries.
func NewAPIKeySet(keys []string) *APIKeySet {
	set := &APIKeySet{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		switch {
		case k == "":
		case strings.HasPrefix(k, "$2"):
			set.hashed = append(set.hashed, []byte(k))
		default:
			set.plain = append(set.plain, []byte(k))
		}
	}
	return set
}

// Len returns the number of configured keys.
func (s *APIKeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.plain) + len(s.hashed)
}

// Valid reports whether key matches any configured key.
func (s *APIKeySet) Valid(key string) bool {
	if s == nil || key == "" {
		return false
	}
	candidate := []byte(key)
	for _, k := range s.plain {
		if subtle.ConstantTimeCompare(k, candidate) == 1 {
			return true
		}
	}
	for _, h := range s.hashed {
		if bcrypt.CompareHashAndPassword(h, candidate) == nil {
			return true
		}
	}
	return false
}

// APIKeyAuth admits requests carrying a configured key in X-API-Key or,
// for links opened in a browser such as rendered PDFs, the api_key query
// parameter. An empty set admits everything.
func APIKeyAuth(keys *APIKeySet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keys.Len() == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}
		switch {
		case key == "":
			rejectCaller(c, messages.ErrKeyAPIKeyRequired)
		case !keys.Valid(key):
			RequestLog(c).Warn().Str("client_ip", c.ClientIP()).Msg("Rejected invalid API key")
			rejectCaller(c, messages.ErrKeyInvalidAPIKey)
		default:
			c.Next()
		}
	}
}

func rejectCaller(c *gin.Context, messageKey string) {
	c.Header("WWW-Authenticate", `APIKey header="`+APIKeyHeader+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewError(dto.ErrCodeUnauthorized, messages.Get(messageKey)).WithRequestID(GetRequestID(c)))
}
