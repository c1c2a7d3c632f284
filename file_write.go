package uvrip

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/scigolib/uvrip/internal/fits"
)

// GroupsLayout describes a random-groups file to create.
//
// Axes lists NAXIS2..NAXISn; a UVFITS visibility cube is
// {3, NumPolarizations, channels, 1, 1, 1} (complex, stokes, freq, IF, RA, DEC).
type GroupsLayout struct {
	Parameters []string // PTYPE1..PTYPEn
	Axes       []int64
	NumGroups  int64
	Object     string // optional OBJECT keyword
}

// VisibilityAxes returns the UVFITS data axes for a file with nchan channels.
func VisibilityAxes(nchan int) []int64 {
	return []int64{FloatsPerPolarization, NumPolarizations, int64(nchan), 1, 1, 1}
}

// GroupsWriter writes a BITPIX = -32 random-groups file group by group.
type GroupsWriter struct {
	osFile  *os.File
	buf     *bufio.Writer
	layout  GroupsLayout
	dataLen int
	written int64
	bytes   int64
}

// Create creates (or truncates) filename and writes the primary header.
// Groups must then be written in order with WriteGroup; Close pads the file
// to a whole number of FITS records.
func Create(filename string, layout GroupsLayout) (*GroupsWriter, error) {
	if len(layout.Axes) == 0 {
		return nil, fmt.Errorf("%w: at least one data axis is required", ErrConfiguration)
	}
	if layout.NumGroups < 0 {
		return nil, fmt.Errorf("%w: negative group count %d", ErrConfiguration, layout.NumGroups)
	}
	dataLen := 1
	for _, n := range layout.Axes {
		if n < 1 {
			return nil, fmt.Errorf("%w: data axis length %d", ErrConfiguration, n)
		}
		dataLen *= int(n)
	}

	header, err := fits.EncodeHeader(headerCards(layout))
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G304: User-provided filename is intentional for a file writer
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	w := &GroupsWriter{
		osFile:  f,
		buf:     bufio.NewWriter(f),
		layout:  layout,
		dataLen: dataLen,
	}
	if _, err := w.buf.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	w.bytes = int64(len(header))
	return w, nil
}

func headerCards(layout GroupsLayout) []string {
	cards := []string{
		fits.LogicalCard("SIMPLE", true, "conforms to FITS standard"),
		fits.IntCard("BITPIX", -32, "IEEE single precision"),
		fits.IntCard("NAXIS", int64(len(layout.Axes)+1), ""),
		fits.IntCard("NAXIS1", 0, "random groups"),
	}
	for i, n := range layout.Axes {
		cards = append(cards, fits.IntCard(fmt.Sprintf("NAXIS%d", i+2), n, ""))
	}
	cards = append(cards,
		fits.LogicalCard("EXTEND", true, ""),
		fits.LogicalCard("GROUPS", true, "random group records"),
		fits.IntCard("PCOUNT", int64(len(layout.Parameters)), "number of random parameters"),
		fits.IntCard("GCOUNT", layout.NumGroups, "number of groups"),
		fits.FloatCard("BSCALE", 1, ""),
		fits.FloatCard("BZERO", 0, ""),
	)
	if layout.Object != "" {
		cards = append(cards, fits.StringCard("OBJECT", layout.Object, ""))
	}
	for i, p := range layout.Parameters {
		cards = append(cards,
			fits.StringCard(fmt.Sprintf("PTYPE%d", i+1), p, ""),
			fits.FloatCard(fmt.Sprintf("PSCAL%d", i+1), 1, ""),
			fits.FloatCard(fmt.Sprintf("PZERO%d", i+1), 0, ""),
		)
	}
	return cards
}

// WriteGroup appends one group. params and data must match the layout.
func (w *GroupsWriter) WriteGroup(params, data []float32) error {
	if w.osFile == nil {
		return errors.New("writer is closed")
	}
	if w.written >= w.layout.NumGroups {
		return fmt.Errorf("all %d groups already written", w.layout.NumGroups)
	}
	if len(params) != len(w.layout.Parameters) {
		return fmt.Errorf("group %d: got %d parameters, want %d", w.written+1, len(params), len(w.layout.Parameters))
	}
	if len(data) != w.dataLen {
		return fmt.Errorf("group %d: got %d data values, want %d", w.written+1, len(data), w.dataLen)
	}

	raw := make([]byte, 4*(len(params)+len(data)))
	fits.EncodeFloat32s(raw, params)
	fits.EncodeFloat32s(raw[4*len(params):], data)
	if _, err := w.buf.Write(raw); err != nil {
		return fmt.Errorf("group %d: %w", w.written+1, err)
	}
	w.written++
	w.bytes += int64(len(raw))
	return nil
}

// Close pads the data to a whole FITS record and closes the file.
// Closing before every declared group was written is an error, but the
// file is still closed. It is safe to call Close multiple times.
func (w *GroupsWriter) Close() error {
	if w.osFile == nil {
		return nil
	}
	f := w.osFile
	w.osFile = nil

	var errs []error
	if w.written != w.layout.NumGroups {
		errs = append(errs, fmt.Errorf("wrote %d of %d groups", w.written, w.layout.NumGroups))
	}
	if pad := w.bytes % fits.BlockSize; pad != 0 {
		if _, err := w.buf.Write(make([]byte, fits.BlockSize-pad)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := w.buf.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := f.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
