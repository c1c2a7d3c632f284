package fits

import (
	"fmt"

	"github.com/scigolib/uvrip/internal/utils"
)

// Layout is the geometry of a random-groups primary HDU.
//
// Every group holds PCount random parameters followed by a data array of
// GroupDataLen elements, all of ElementSize bytes.
type Layout struct {
	Bitpix    int
	Axes      []int64 // NAXIS2..NAXISn; NAXIS1 is always 0
	PCount    int64
	GCount    int64
	BScale    float64
	BZero     float64
	Blank     int64
	HasBlank  bool
	PScale    []float64
	PZero     []float64
	DataStart int64
}

// ParseLayout validates the mandatory random-groups keywords of h and derives
// the byte geometry of the group data.
func ParseLayout(h *Header) (*Layout, error) {
	simple, ok, err := h.Bool("SIMPLE")
	if err != nil {
		return nil, err
	}
	if !ok || !simple {
		return nil, fmt.Errorf("%w: SIMPLE = T required", ErrFormat)
	}

	groups, ok, err := h.Bool("GROUPS")
	if err != nil {
		return nil, err
	}
	if !ok || !groups {
		return nil, fmt.Errorf("%w: not a random-groups file (GROUPS = T required)", ErrFormat)
	}

	l := &Layout{DataStart: h.Size()}

	bitpix, err := requiredInt(h, "BITPIX")
	if err != nil {
		return nil, err
	}
	switch bitpix {
	case 8, 16, 32, 64, -32, -64:
		l.Bitpix = int(bitpix)
	default:
		return nil, fmt.Errorf("%w: unsupported BITPIX %d", ErrFormat, bitpix)
	}

	naxis, err := requiredInt(h, "NAXIS")
	if err != nil {
		return nil, err
	}
	if naxis < 2 || naxis > 999 {
		return nil, fmt.Errorf("%w: random groups need 2..999 axes, NAXIS = %d", ErrFormat, naxis)
	}
	naxis1, err := requiredInt(h, "NAXIS1")
	if err != nil {
		return nil, err
	}
	if naxis1 != 0 {
		return nil, fmt.Errorf("%w: NAXIS1 must be 0 for random groups, got %d", ErrFormat, naxis1)
	}
	for i := int64(2); i <= naxis; i++ {
		n, err := requiredInt(h, fmt.Sprintf("NAXIS%d", i))
		if err != nil {
			return nil, err
		}
		l.Axes = append(l.Axes, n)
	}

	if l.PCount, err = requiredInt(h, "PCOUNT"); err != nil {
		return nil, err
	}
	if l.GCount, err = requiredInt(h, "GCOUNT"); err != nil {
		return nil, err
	}
	if l.PCount < 0 || l.GCount < 0 {
		return nil, fmt.Errorf("%w: negative PCOUNT %d or GCOUNT %d", ErrFormat, l.PCount, l.GCount)
	}
	if l.PCount > utils.MaxParameters {
		return nil, fmt.Errorf("%w: PCOUNT %d exceeds %d", ErrFormat, l.PCount, utils.MaxParameters)
	}

	if l.BScale, err = h.FloatOr("BSCALE", 1); err != nil {
		return nil, err
	}
	if l.BZero, err = h.FloatOr("BZERO", 0); err != nil {
		return nil, err
	}
	if l.Blank, l.HasBlank, err = h.Int("BLANK"); err != nil {
		return nil, err
	}

	// Reject geometry whose total size cannot be represented.
	groupBytes, err := l.GroupBytes()
	if err != nil {
		return nil, err
	}
	if _, err := utils.SafeMultiply(groupBytes, uint64(l.GCount)); err != nil {
		return nil, fmt.Errorf("%w: group data size: %v", ErrFormat, err)
	}

	l.PScale = make([]float64, l.PCount)
	l.PZero = make([]float64, l.PCount)
	for i := int64(1); i <= l.PCount; i++ {
		if l.PScale[i-1], err = h.FloatOr(fmt.Sprintf("PSCAL%d", i), 1); err != nil {
			return nil, err
		}
		if l.PZero[i-1], err = h.FloatOr(fmt.Sprintf("PZERO%d", i), 0); err != nil {
			return nil, err
		}
	}

	return l, nil
}

func requiredInt(h *Header, key string) (int64, error) {
	v, ok, err := h.Int(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing required keyword %s", ErrFormat, key)
	}
	return v, nil
}

// ElementSize returns the size in bytes of one parameter or data element.
func (l *Layout) ElementSize() int64 {
	if l.Bitpix < 0 {
		return int64(-l.Bitpix / 8)
	}
	return int64(l.Bitpix / 8)
}

// GroupDataLen returns the number of data-array elements in each group.
func (l *Layout) GroupDataLen() uint64 {
	n, err := utils.AxesProduct(l.Axes)
	if err != nil {
		return 0
	}
	return n
}

// GroupBytes returns the size in bytes of one group, parameters included.
func (l *Layout) GroupBytes() (uint64, error) {
	n, err := utils.AxesProduct(l.Axes)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	n, err = utils.SafeAdd(n, uint64(l.PCount))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	n, err = utils.SafeMultiply(n, uint64(l.ElementSize()))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return n, nil
}

// DataEnd returns the offset just past the last group, before trailing padding.
func (l *Layout) DataEnd() int64 {
	groupBytes, _ := l.GroupBytes()
	//nolint:gosec // G115: bounded by the overflow check in ParseLayout
	return l.DataStart + int64(groupBytes)*l.GCount
}

// GroupOffset returns the byte offset of the first parameter of a 1-based group.
func (l *Layout) GroupOffset(group uint64) (int64, error) {
	if group < 1 || group > uint64(l.GCount) {
		return 0, fmt.Errorf("group %d out of range 1..%d", group, l.GCount)
	}
	groupBytes, err := l.GroupBytes()
	if err != nil {
		return 0, err
	}
	//nolint:gosec // G115: bounded by the overflow check in ParseLayout
	return l.DataStart + int64((group-1)*groupBytes), nil
}

// DataOffset returns the byte offset of the 1-based data-array element first
// of a group, checking that count elements fit inside that group's array.
func (l *Layout) DataOffset(group, first, count uint64) (int64, error) {
	start, err := l.GroupOffset(group)
	if err != nil {
		return 0, err
	}
	dataLen := l.GroupDataLen()
	if first < 1 || first > dataLen || count > dataLen-(first-1) {
		return 0, fmt.Errorf("elements %d..%d out of range 1..%d of group %d",
			first, first+count-1, dataLen, group)
	}
	size := l.ElementSize()
	//nolint:gosec // G115: bounded by GroupDataLen
	return start + (l.PCount+int64(first-1))*size, nil
}
