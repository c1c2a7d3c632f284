// Package uvrip extracts selected baselines from UVFITS random-groups files
// into dense float32 arrays.
//
// The package provides a pure Go reader for random-groups files (File), the
// index arithmetic that maps a (timestep, row) selection to group numbers,
// an extractor that reads the selected groups into memory, and a reducer
// that keeps the real part of one or two polarizations.
package uvrip

import (
	"fmt"
	"os"

	"github.com/scigolib/uvrip/internal/fits"
	"github.com/scigolib/uvrip/internal/utils"
)

var errFileClosed = fmt.Errorf("%w: file is closed", ErrIO)

// File represents an open random-groups file.
type File struct {
	osFile *os.File
	header *fits.Header
	layout *fits.Layout
}

// Open opens a random-groups file for reading.
// The primary header must declare SIMPLE = T and GROUPS = T.
func Open(filename string) (*File, error) {
	//nolint:gosec // G304: User-provided filename is intentional for a file reader
	f, err := os.Open(filename)
	if err != nil {
		return nil, utils.WrapError("file open failed", ioError(err))
	}

	if !isFITSFile(f) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is not a FITS file", ErrFormat, filename)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("file stat failed", ioError(err))
	}

	header, err := fits.ReadHeader(f)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("header read failed", ioError(err))
	}

	layout, err := fits.ParseLayout(header)
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("random groups layout", err)
	}

	if layout.DataStart > fi.Size() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: data start %d beyond file size %d",
			ErrFormat, layout.DataStart, fi.Size())
	}

	return &File{
		osFile: f,
		header: header,
		layout: layout,
	}, nil
}

// isFITSFile verifies the mandatory first keyword of a primary header.
func isFITSFile(r utils.ReaderAt) bool {
	buf := utils.GetBuffer(fits.CardSize)
	defer utils.ReleaseBuffer(buf)

	if err := utils.ReadFullAt(r, buf, 0); err != nil {
		return false
	}
	return string(buf[:10]) == "SIMPLE  = "
}

// Close closes the file. It is safe to call Close multiple times.
func (f *File) Close() error {
	if f.osFile == nil {
		return nil
	}
	err := f.osFile.Close()
	f.osFile = nil
	return err
}

// Header returns the parsed primary header.
func (f *File) Header() *fits.Header {
	return f.header
}

// Layout returns the random-groups geometry of the file.
func (f *File) Layout() *fits.Layout {
	return f.layout
}

// NumGroups returns GCOUNT.
func (f *File) NumGroups() uint64 {
	return uint64(f.layout.GCount)
}

// GroupDataLen returns the number of data-array elements per group.
func (f *File) GroupDataLen() uint64 {
	return f.layout.GroupDataLen()
}

// ParameterCount returns PCOUNT.
func (f *File) ParameterCount() int {
	return int(f.layout.PCount)
}

// HeaderString returns the string value of a header keyword.
func (f *File) HeaderString(key string) (string, bool, error) {
	return f.header.String(key)
}

// ReadGroup reads count data-array elements of a 1-based group starting at
// the 1-based element first. Groups outside 1..GCOUNT and ranges that leave
// the group's data array are errors.
func (f *File) ReadGroup(group, first, count uint64, fill float32) ([]float32, bool, error) {
	if f.osFile == nil {
		return nil, false, errFileClosed
	}

	offset, err := f.layout.DataOffset(group, first, count)
	if err != nil {
		return nil, false, ioError(err)
	}

	size, err := utils.SafeMultiply(count, uint64(f.layout.ElementSize()))
	if err == nil {
		err = utils.ValidateBufferSize(size, utils.MaxGroupReadBytes, "group read")
	}
	if err != nil {
		return nil, false, ioError(err)
	}

	buf := utils.GetBuffer(int(size))
	defer utils.ReleaseBuffer(buf)

	if err := utils.ReadFullAt(f.osFile, buf, offset); err != nil {
		return nil, false, utils.Wrapf(ioError(err), "group %d read failed", group)
	}

	values := make([]float32, count)
	anyNull, err := f.layout.DataDecoder().Decode(values, buf, fill)
	if err != nil {
		return nil, false, err
	}
	return values, anyNull, nil
}

// ReadGroupParameters returns the scaled random parameters of a 1-based group,
// in PTYPE order.
func (f *File) ReadGroupParameters(group uint64) ([]float32, error) {
	if f.osFile == nil {
		return nil, errFileClosed
	}

	offset, err := f.layout.GroupOffset(group)
	if err != nil {
		return nil, ioError(err)
	}

	pcount := int(f.layout.PCount)
	if pcount == 0 {
		return nil, nil
	}
	elem := int(f.layout.ElementSize())

	buf := utils.GetBuffer(pcount * elem)
	defer utils.ReleaseBuffer(buf)

	if err := utils.ReadFullAt(f.osFile, buf, offset); err != nil {
		return nil, utils.Wrapf(ioError(err), "group %d parameters read failed", group)
	}

	params := make([]float32, pcount)
	for i := range params {
		// Parameters have no undefined value; the fill is never used.
		if _, err := f.layout.ParamDecoder(i).Decode(params[i:i+1], buf[i*elem:(i+1)*elem], 0); err != nil {
			return nil, err
		}
	}
	return params, nil
}
