// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockPrintSpooler is a mock of service.PrintSpooler.
type MockPrintSpooler struct {
	mock.Mock
}

func (m *MockPrintSpooler) ListPrinters(ctx context.Context) (model.PrinterList, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PrinterList), args.Error(1)
}

func (m *MockPrintSpooler) Print(ctx context.Context, path, printer string) error {
	args := m.Called(ctx, path, printer)
	return args.Error(0)
}
