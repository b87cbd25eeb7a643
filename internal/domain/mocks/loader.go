package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wavedig.dev/pkg/wavedig/internal/domain"
	m "wavedig.dev/pkg/wavedig/internal/model"
)

// MockLoader is a testify mock of domain.Loader.
type MockLoader struct {
	mock.Mock
}

// NewMockLoader creates a mock that asserts its expectations on cleanup.
func NewMockLoader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLoader {
	mockLoader := &MockLoader{}
	mockLoader.Mock.Test(t)

	t.Cleanup(func() { mockLoader.AssertExpectations(t) })

	return mockLoader
}

// Load mocks Loader.Load.
func (l *MockLoader) Load(ctx context.Context, path m.Path, dialect m.Dialect) (*domain.Engine, error) {
	args := l.Called(ctx, path, dialect)

	engine, _ := args.Get(0).(*domain.Engine)

	return engine, args.Error(1)
}
