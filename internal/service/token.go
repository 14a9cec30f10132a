package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "label-service"

var (
	// ErrInvalidToken is returned when an operator token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenSecretMissing is returned when no signing secret is configured.
	ErrTokenSecretMissing = errors.New("operator token secret not configured")
)

// OperatorClaims are the claims carried by an operator token.
type OperatorClaims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// OperatorTokens mints and verifies HMAC-signed operator tokens.
type OperatorTokens struct {
	secret []byte
	now    func() time.Time
}

// NewOperatorTokens returns a token service signing with secret.
func NewOperatorTokens(secret string) *OperatorTokens {
	return &OperatorTokens{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether a secret is configured.
func (t *OperatorTokens) Enabled() bool {
	return t != nil && len(t.secret) > 0
}

// Issue mints a token naming operator, valid for ttl.
func (t *OperatorTokens) Issue(operator string, ttl time.Duration) (string, error) {
	if !t.Enabled() {
		return "", ErrTokenSecretMissing
	}
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return "", errors.New("operator name is required")
	}
	now := t.now()
	claims := OperatorClaims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses tokenString and returns the operator it names.
func (t *OperatorTokens) Verify(tokenString string) (string, error) {
	if !t.Enabled() {
		return "", ErrTokenSecretMissing
	}
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid || claims.Operator == "" {
		return "", ErrInvalidToken
	}
	return claims.Operator, nil
}
