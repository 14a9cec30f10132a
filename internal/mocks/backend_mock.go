// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock of the workflow collaborator set.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListPrinters(ctx context.Context) (model.PrinterList, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PrinterList), args.Error(1)
}

func (m *MockBackend) ListSystems(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackend) CheckDuplicates(ctx context.Context, req model.BatchRequest) (model.DuplicateReport, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.DuplicateReport), args.Error(1)
}

func (m *MockBackend) GenerateBatch(ctx context.Context, req model.BatchRequest, layout model.LayoutSettings) (model.BatchDocument, error) {
	args := m.Called(ctx, req, layout)
	return args.Get(0).(model.BatchDocument), args.Error(1)
}

func (m *MockBackend) PrintBatch(ctx context.Context, documentURL, printer string) error {
	args := m.Called(ctx, documentURL, printer)
	return args.Error(0)
}
