// Package npy writes float32 arrays in the NumPy .npy format, version 1.0.
package npy

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	magic = "\x93NUMPY"
	// Header dict plus preamble is padded to a multiple of this.
	alignment = 64
)

// Header returns the complete .npy preamble for a little-endian float32
// C-ordered array of the given shape.
func Header(shape []int) ([]byte, error) {
	dims := make([]string, len(shape))
	for i, n := range shape {
		if n < 0 {
			return nil, fmt.Errorf("negative dimension %d at axis %d", n, i)
		}
		dims[i] = strconv.Itoa(n)
	}
	tuple := "(" + strings.Join(dims, ", ") + ")"
	if len(shape) == 1 {
		tuple = "(" + dims[0] + ",)"
	}

	dict := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': %s, }", tuple)

	// magic(6) + version(2) + header length(2) + dict + padding + '\n'
	preamble := len(magic) + 4
	total := preamble + len(dict) + 1
	if rem := total % alignment; rem != 0 {
		total += alignment - rem
	}
	headerLen := total - preamble
	if headerLen > math.MaxUint16 {
		return nil, fmt.Errorf("header of %d bytes does not fit format version 1.0", headerLen)
	}

	out := make([]byte, 0, total)
	out = append(out, magic...)
	out = append(out, 1, 0)
	out = binary.LittleEndian.AppendUint16(out, uint16(headerLen))
	out = append(out, dict...)
	out = append(out, strings.Repeat(" ", headerLen-len(dict)-1)...)
	out = append(out, '\n')
	return out, nil
}

// Write writes a complete .npy array to w.
func Write(w io.Writer, shape []int, data []float32) error {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if n != len(data) {
		return fmt.Errorf("shape %v holds %d values, got %d", shape, n, len(data))
	}

	header, err := Header(shape)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	var word [4]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(v))
		if _, err := bw.Write(word[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the array to path atomically: the data goes to a
// temporary file in the same directory that is renamed over path only once
// it is complete. On failure path is left untouched.
func WriteFile(path string, shape []int, data []float32) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, shape, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
