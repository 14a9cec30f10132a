// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockSerialHistoryRepository is a mock of repository.SerialHistoryRepository.
type MockSerialHistoryRepository struct {
	mock.Mock
}

func (m *MockSerialHistoryRepository) FindIssued(ctx context.Context, systemID, year, month string, serials []string) ([]string, error) {
	args := m.Called(ctx, systemID, year, month, serials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSerialHistoryRepository) RecordIssued(ctx context.Context, entries []model.IssuedSerial) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockSerialHistoryRepository) History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IssuedSerial), args.Error(1)
}

func (m *MockSerialHistoryRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
