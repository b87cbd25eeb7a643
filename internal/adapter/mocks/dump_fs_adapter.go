// Package mocks holds testify mocks for the adapter interfaces.
package mocks

import (
	"io"
	"os"

	"github.com/stretchr/testify/mock"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// MockDumpFSAdapter is a testify mock of adapter.DumpFSAdapter.
type MockDumpFSAdapter struct {
	mock.Mock
}

// NewMockDumpFSAdapter creates a mock that asserts its expectations on cleanup.
func NewMockDumpFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDumpFSAdapter {
	mockAdapter := &MockDumpFSAdapter{}
	mockAdapter.Mock.Test(t)

	t.Cleanup(func() { mockAdapter.AssertExpectations(t) })

	return mockAdapter
}

// Open mocks DumpFSAdapter.Open.
func (a *MockDumpFSAdapter) Open(path m.Path) (io.ReadCloser, error) {
	args := a.Called(path)

	rc, _ := args.Get(0).(io.ReadCloser)

	return rc, args.Error(1)
}

// Stat mocks DumpFSAdapter.Stat.
func (a *MockDumpFSAdapter) Stat(path m.Path) (os.FileInfo, error) {
	args := a.Called(path)

	info, _ := args.Get(0).(os.FileInfo)

	return info, args.Error(1)
}

// ReadSignalList mocks DumpFSAdapter.ReadSignalList.
func (a *MockDumpFSAdapter) ReadSignalList(path m.Path) ([]m.SignalPath, error) {
	args := a.Called(path)

	signals, _ := args.Get(0).([]m.SignalPath)

	return signals, args.Error(1)
}
