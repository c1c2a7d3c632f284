package fits

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decoder converts big-endian FITS elements to scaled float32 values.
type Decoder struct {
	bitpix   int
	scale    float64
	zero     float64
	blank    int64
	hasBlank bool
}

// DataDecoder returns the decoder for the group data arrays of l.
func (l *Layout) DataDecoder() Decoder {
	return Decoder{
		bitpix:   l.Bitpix,
		scale:    l.BScale,
		zero:     l.BZero,
		blank:    l.Blank,
		hasBlank: l.HasBlank,
	}
}

// ParamDecoder returns the decoder for the 0-based random parameter i of l.
func (l *Layout) ParamDecoder(i int) Decoder {
	return Decoder{
		bitpix: l.Bitpix,
		scale:  l.PScale[i],
		zero:   l.PZero[i],
	}
}

// Decode fills dst from src. Undefined elements (NaN for floating point
// data, BLANK for integer data) are replaced by fill and reported through
// the returned flag.
func (d Decoder) Decode(dst []float32, src []byte, fill float32) (bool, error) {
	size := d.bitpix / 8
	if size < 0 {
		size = -size
	}
	if len(src) != len(dst)*size {
		return false, fmt.Errorf("cannot decode %d bytes into %d elements of %d bytes", len(src), len(dst), size)
	}

	identity := d.scale == 1 && d.zero == 0
	anyNull := false
	for i := range dst {
		b := src[i*size : (i+1)*size]

		var raw int64
		switch d.bitpix {
		case -32:
			v := math.Float32frombits(binary.BigEndian.Uint32(b))
			if math.IsNaN(float64(v)) {
				dst[i] = fill
				anyNull = true
				continue
			}
			if identity {
				dst[i] = v
			} else {
				dst[i] = float32(float64(v)*d.scale + d.zero)
			}
			continue
		case -64:
			v := math.Float64frombits(binary.BigEndian.Uint64(b))
			if math.IsNaN(v) {
				dst[i] = fill
				anyNull = true
				continue
			}
			dst[i] = float32(v*d.scale + d.zero)
			continue
		case 8:
			raw = int64(b[0])
		case 16:
			//nolint:gosec // G115: two's complement reinterpretation is the format
			raw = int64(int16(binary.BigEndian.Uint16(b)))
		case 32:
			//nolint:gosec // G115: two's complement reinterpretation is the format
			raw = int64(int32(binary.BigEndian.Uint32(b)))
		case 64:
			//nolint:gosec // G115: two's complement reinterpretation is the format
			raw = int64(binary.BigEndian.Uint64(b))
		default:
			return false, fmt.Errorf("%w: unsupported BITPIX %d", ErrFormat, d.bitpix)
		}

		if d.hasBlank && raw == d.blank {
			dst[i] = fill
			anyNull = true
			continue
		}
		dst[i] = float32(float64(raw)*d.scale + d.zero)
	}
	return anyNull, nil
}

// EncodeFloat32s writes values as big-endian IEEE-754 singles.
func EncodeFloat32s(dst []byte, values []float32) {
	for i, v := range values {
		binary.BigEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
