// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
)

// MockLabelService is a mock of the HTTP handlers' issuance service.
type MockLabelService struct {
	MockBackend
}

func (m *MockLabelService) History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IssuedSerial), args.Error(1)
}

func (m *MockLabelService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
