package utils

import (
	"errors"
	"fmt"
	"io"
)

// ReaderAt is a simplified interface for io.ReaderAt.
type ReaderAt interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// ReadFullAt fills buf from r starting at offset.
// An io.EOF that arrives together with a full buffer is not an error;
// anything shorter is reported as io.ErrUnexpectedEOF.
func ReadFullAt(r ReaderAt, buf []byte, offset int64) error {
	if offset < 0 {
		return fmt.Errorf("negative offset %d", offset)
	}
	n, err := r.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("read %d of %d bytes at offset %d: %w", n, len(buf), offset, io.ErrUnexpectedEOF)
	}
	return err
}
