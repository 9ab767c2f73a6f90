package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

// MockFileStorage is a mock implementation of storage.FileStorage, the
// store behind avatar and cover uploads
type MockFileStorage struct {
	mock.Mock
}

// Save mocks storing an uploaded file and returns its reference
func (m *MockFileStorage) Save(filename string, content io.Reader) (string, error) {
	args := m.Called(filename, content)
	return args.String(0), args.Error(1)
}

// Get mocks opening a stored file by its reference
func (m *MockFileStorage) Get(filePath string) (io.ReadCloser, error) {
	args := m.Called(filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Delete mocks removing a stored file
func (m *MockFileStorage) Delete(filePath string) error {
	args := m.Called(filePath)
	return args.Error(0)
}
