// Package testing provides test doubles for uvrip: an in-memory io.ReaderAt
// and an in-memory random-groups accessor.
package testing

import (
	"errors"
	"io"
)

// MockReaderAt is an in-memory io.ReaderAt that can be told to fail past a
// given offset, simulating a truncated or unreadable file.
type MockReaderAt struct {
	data    []byte
	FailAt  int64 // reads touching bytes at or beyond FailAt fail; 0 disables
	FailErr error
	Reads   int
}

// NewMockReaderAt creates a new mock reader with the given data.
func NewMockReaderAt(data []byte) *MockReaderAt {
	return &MockReaderAt{data: data}
}

// ReadAt implements io.ReaderAt.
func (m *MockReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	m.Reads++
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	if m.FailAt > 0 && off+int64(len(p)) > m.FailAt {
		if m.FailErr != nil {
			return 0, m.FailErr
		}
		return 0, errors.New("injected read failure")
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n = copy(p, m.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return
}
