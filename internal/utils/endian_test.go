package utils

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockReaderAt is a mock implementation of ReaderAt for testing.
type mockReaderAt struct {
	data []byte
	err  error
}

func (m *mockReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if m.err != nil {
		return 0, m.err
	}

	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestReadFullAt(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	tests := []struct {
		name    string
		reader  ReaderAt
		offset  int64
		size    int
		want    []byte
		wantEOF bool
		wantErr bool
	}{
		{
			name:   "full read from start",
			reader: &mockReaderAt{data: data},
			size:   4,
			want:   []byte{0x01, 0x02, 0x03, 0x04},
		},
		{
			name:   "full read ending exactly at EOF",
			reader: &mockReaderAt{data: data},
			offset: 4,
			size:   4,
			want:   []byte{0x05, 0x06, 0x07, 0x08},
		},
		{
			name:    "short read",
			reader:  &mockReaderAt{data: data},
			offset:  6,
			size:    4,
			wantEOF: true,
			wantErr: true,
		},
		{
			name:    "offset beyond data",
			reader:  &mockReaderAt{data: data},
			offset:  100,
			size:    1,
			wantEOF: true,
			wantErr: true,
		},
		{
			name:    "negative offset",
			reader:  &mockReaderAt{data: data},
			offset:  -1,
			size:    1,
			wantErr: true,
		},
		{
			name:    "reader error",
			reader:  &mockReaderAt{err: errors.New("disk on fire")},
			size:    1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			err := ReadFullAt(tt.reader, buf, tt.offset)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, tt.wantEOF, errors.Is(err, io.ErrUnexpectedEOF))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, buf)
		})
	}
}

func TestReadFullAt_BytesReader(t *testing.T) {
	// bytes.Reader returns io.EOF only when nothing could be read.
	reader := bytes.NewReader([]byte("SIMPLE  =                    T"))
	buf := make([]byte, 6)
	require.NoError(t, ReadFullAt(reader, buf, 0))
	require.Equal(t, "SIMPLE", string(buf))
}
