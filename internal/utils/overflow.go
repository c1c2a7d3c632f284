package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow checks if multiplying two uint64 values would overflow.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}

	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}

	return nil
}

// SafeMultiply multiplies two uint64 values and returns the result if no overflow occurs.
func SafeMultiply(a, b uint64) (uint64, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// SafeAdd adds two uint64 values and returns the result if no overflow occurs.
func SafeAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, fmt.Errorf("addition overflow: %d + %d exceeds uint64 max", a, b)
	}
	return a + b, nil
}

// AxesProduct returns the number of elements described by a list of axis lengths.
// A header may legally declare a zero-length axis, in which case the product is zero.
func AxesProduct(axes []int64) (uint64, error) {
	if len(axes) == 0 {
		return 0, fmt.Errorf("no axes provided")
	}

	size := uint64(1)
	for i, axis := range axes {
		if axis < 0 {
			return 0, fmt.Errorf("negative length %d on axis %d", axis, i)
		}

		var err error
		size, err = SafeMultiply(size, uint64(axis))
		if err != nil {
			return 0, fmt.Errorf("axis product overflow at axis %d: %w", i, err)
		}
	}

	return size, nil
}

// ValidateBufferSize validates that a buffer size is within reasonable limits.
func ValidateBufferSize(size, maxSize uint64, description string) error {
	if size == 0 {
		return fmt.Errorf("%s: size cannot be zero", description)
	}

	if size > maxSize {
		return fmt.Errorf("%s: size %d exceeds maximum %d", description, size, maxSize)
	}

	return nil
}

// Common buffer size limits.
const (
	// MaxGroupReadBytes limits a single group read to 256MB.
	MaxGroupReadBytes = 256 * 1024 * 1024

	// MaxTensorElements limits an in-memory visibility tensor to 2^31 floats (8GB).
	MaxTensorElements = 1 << 31

	// MaxHeaderBlocks bounds the header scan; 10000 blocks is 360000 cards.
	MaxHeaderBlocks = 10000

	// MaxParameters bounds PCOUNT; PTYPEn keywords stop at three digits.
	MaxParameters = 999
)
