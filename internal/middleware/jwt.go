package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/service"
)

// OperatorContextKey is the gin context key holding the verified operator.
const OperatorContextKey = "operator"

// OperatorVerifier verifies an operator bearer token.
type OperatorVerifier interface {
	Verify(token string) (string, error)
}

// OperatorAuth returns a middleware that verifies operator bearer tokens.
// A verified operator is stored in the gin context and in the request
// context. Requests without a token pass as anonymous unless required is set;
// a token that fails verification is always rejected.
func OperatorAuth(verifier OperatorVerifier, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := GetRequestID(c)
		reject := func(key string) {
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, messages.Get(key)).
				WithRequestID(requestID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				reject(messages.ErrKeyUnauthorized)
				return
			}
			c.Set(OperatorContextKey, model.AnonymousOperator)
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			reject(messages.ErrKeyInvalidToken)
			return
		}

		operator, err := verifier.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			reject(messages.ErrKeyInvalidToken)
			return
		}

		c.Set(OperatorContextKey, operator)
		c.Request = c.Request.WithContext(service.ContextWithOperator(c.Request.Context(), operator))
		c.Next()
	}
}

// GetOperator returns the operator verified for this request, or
// model.AnonymousOperator.
func GetOperator(c *gin.Context) string {
	if v, ok := c.Get(OperatorContextKey); ok {
		if op, ok := v.(string); ok && op != "" {
			return op
		}
	}
	return model.AnonymousOperator
}
