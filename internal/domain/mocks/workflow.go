// Package mocks holds testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wavedig.dev/pkg/wavedig/internal/domain"
)

// MockWorkflow is a testify mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a mock that asserts its expectations on cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// List mocks Workflow.List.
func (w *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	return w.Called(ctx, args).Error(0)
}

// History mocks Workflow.History.
func (w *MockWorkflow) History(ctx context.Context, args domain.HistoryArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Value mocks Workflow.Value.
func (w *MockWorkflow) Value(ctx context.Context, args domain.ValueArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Range mocks Workflow.Range.
func (w *MockWorkflow) Range(ctx context.Context, args domain.RangeArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Batch mocks Workflow.Batch.
func (w *MockWorkflow) Batch(ctx context.Context, args domain.BatchArgs) error {
	return w.Called(ctx, args).Error(0)
}
