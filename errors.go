package uvrip

import (
	"errors"
	"fmt"

	"github.com/scigolib/uvrip/internal/fits"
)

// Error kinds. Failures are wrapped with context; test for a kind with errors.Is.
var (
	// ErrConfiguration reports an unusable selection, rejected before any I/O.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrIO reports a failed open or read, including a request for a group
	// or element range the file does not hold.
	ErrIO = errors.New("i/o failure")

	// ErrFormat reports a file that is not a readable random-groups file.
	ErrFormat = fits.ErrFormat

	// ErrParameterNotFound reports a group parameter that is not declared by
	// the contiguous PTYPEn keywords. It is also an ErrFormat.
	ErrParameterNotFound = fmt.Errorf("%w: group parameter not found", ErrFormat)
)

// ioError tags err as ErrIO unless it already reports a format problem.
func ioError(err error) error {
	if err == nil || errors.Is(err, ErrFormat) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// ShapeError describes a raw visibility tensor whose innermost dimension is
// not a whole number of channels. It is raised with panic: it can only come
// from a defect in this package, never from user input.
type ShapeError struct {
	Floats int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("raw visibilities have %d floats per row, not a multiple of %d", e.Floats, FloatsPerChannel)
}
