package service

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
)

type operatorKey struct{}

// ContextWithOperator returns a copy of ctx carrying the verified operator name.
func ContextWithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey{}, operator)
}

// OperatorFromContext returns the operator stored in ctx, or
// model.AnonymousOperator when none was set.
func OperatorFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(operatorKey{}).(string); ok && op != "" {
		return op
	}
	return model.AnonymousOperator
}
