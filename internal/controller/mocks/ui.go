// Package mocks holds testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wavedig.dev/pkg/wavedig/internal/controller"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

// MockUI is a testify mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a mock that asserts its expectations on cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mockUI := &MockUI{}
	mockUI.Mock.Test(t)

	t.Cleanup(func() { mockUI.AssertExpectations(t) })

	return mockUI
}

// DisplaySignals mocks UI.DisplaySignals.
func (u *MockUI) DisplaySignals(ctx context.Context, dump m.Path, signals []m.Signal, stats m.DumpStats) error {
	return u.Called(ctx, dump, signals, stats).Error(0)
}

// DisplayHistory mocks UI.DisplayHistory.
func (u *MockUI) DisplayHistory(ctx context.Context, path m.SignalPath, history m.Timeline) error {
	return u.Called(ctx, path, history).Error(0)
}

// DisplayValue mocks UI.DisplayValue.
func (u *MockUI) DisplayValue(ctx context.Context, path m.SignalPath, at int64, value string) error {
	return u.Called(ctx, path, at, value).Error(0)
}

// DisplayRange mocks UI.DisplayRange.
func (u *MockUI) DisplayRange(ctx context.Context, path m.SignalPath, window controller.RangeQuery, values []string) error {
	return u.Called(ctx, path, window, values).Error(0)
}

// DisplayBatch mocks UI.DisplayBatch.
func (u *MockUI) DisplayBatch(ctx context.Context, report controller.BatchReport) error {
	return u.Called(ctx, report).Error(0)
}
