// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockAuditStore is a mock of repository.AuditStore.
type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Append(ctx context.Context, events []model.AuditEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockAuditStore) Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}

func (m *MockAuditStore) Count(ctx context.Context, f model.AuditFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditLog is a mock of service.AuditLog.
type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) Record(ctx context.Context, events ...model.AuditEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockAuditLog) Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEvent), args.Error(1)
}

func (m *MockAuditLog) Count(ctx context.Context, f model.AuditFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}
