package uvrip

import (
	"fmt"

	"github.com/scigolib/uvrip/internal/utils"
)

// Visibility layout of one frequency channel in a group data array:
// four polarizations of (real, imaginary, weight).
const (
	FloatsPerPolarization = 3
	NumPolarizations      = 4
	FloatsPerChannel      = FloatsPerPolarization * NumPolarizations
)

// undefinedFill replaces undefined values read from the file.
const undefinedFill float32 = 0

// Selection chooses which groups to extract.
//
// Rows are 0-based baseline indices within a timestep. Their order defines
// the row dimension of the output and duplicates are allowed.
type Selection struct {
	NumTimesteps            int
	NumBaselinesPerTimestep int
	NumChannels             int
	Rows                    []int
}

// Validate rejects selections that cannot be extracted. It performs no I/O.
func (s Selection) Validate() error {
	if len(s.Rows) == 0 {
		return fmt.Errorf("%w: no row indices given", ErrConfiguration)
	}
	if s.NumTimesteps < 1 {
		return fmt.Errorf("%w: number of timesteps must be positive, got %d", ErrConfiguration, s.NumTimesteps)
	}
	if s.NumBaselinesPerTimestep < 1 {
		return fmt.Errorf("%w: number of baselines per timestep must be positive, got %d",
			ErrConfiguration, s.NumBaselinesPerTimestep)
	}
	if s.NumChannels < 1 {
		return fmt.Errorf("%w: number of channels must be positive, got %d", ErrConfiguration, s.NumChannels)
	}
	for i, r := range s.Rows {
		if r < 0 {
			return fmt.Errorf("%w: row index %d at position %d is negative", ErrConfiguration, r, i)
		}
	}

	total, err := utils.SafeMultiply(uint64(s.NumTimesteps), uint64(len(s.Rows)))
	if err == nil {
		total, err = utils.SafeMultiply(total, uint64(s.NumChannels)*FloatsPerChannel)
	}
	if err == nil && total > utils.MaxTensorElements {
		err = fmt.Errorf("%d floats exceed the limit of %d", total, utils.MaxTensorElements)
	}
	if err != nil {
		return fmt.Errorf("%w: selection too large: %v", ErrConfiguration, err)
	}
	return nil
}

// FloatsPerGroup returns the number of values read from each group.
func (s Selection) FloatsPerGroup() int {
	return s.NumChannels * FloatsPerChannel
}

// GroupNumbers returns the 1-based group numbers of the selection in read
// order: timesteps ascending, rows in selection order.
func (s Selection) GroupNumbers() []uint64 {
	groups := make([]uint64, 0, s.NumTimesteps*len(s.Rows))
	for t := 0; t < s.NumTimesteps; t++ {
		for _, row := range s.Rows {
			groups = append(groups, GroupNumber(t, row, s.NumBaselinesPerTimestep))
		}
	}
	return groups
}

// GroupNumber maps a 0-based timestep and 0-based row to the 1-based group
// holding it. No bounds are checked; the accessor rejects groups that do
// not exist.
func GroupNumber(timestep, row, baselinesPerTimestep int) uint64 {
	return uint64(row) + 1 + uint64(timestep)*uint64(baselinesPerTimestep)
}

// RawVisibilities is the (timestep, row, float) tensor of group payloads,
// stored row-major in Data.
type RawVisibilities struct {
	Timesteps int
	Rows      int
	Floats    int
	Data      []float32
}

func newRawVisibilities(timesteps, rows, floats int) *RawVisibilities {
	return &RawVisibilities{
		Timesteps: timesteps,
		Rows:      rows,
		Floats:    floats,
		Data:      make([]float32, timesteps*rows*floats),
	}
}

// At returns the payload slice of (timestep, row).
func (r *RawVisibilities) At(timestep, row int) []float32 {
	start := (timestep*r.Rows + row) * r.Floats
	return r.Data[start : start+r.Floats : start+r.Floats]
}

// Channels returns the number of channels per row.
func (r *RawVisibilities) Channels() int {
	return r.Floats / FloatsPerChannel
}

// Extract reads every selected group into a new RawVisibilities.
//
// The tensor is allocated once before the first read. Groups are read one
// at a time, timesteps outer and rows inner. The first failure aborts the
// extraction and no tensor is returned; the accessor's error is wrapped and
// remains reachable with errors.Is.
func Extract(acc Accessor, sel Selection) (*RawVisibilities, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	count := sel.FloatsPerGroup()
	raw := newRawVisibilities(sel.NumTimesteps, len(sel.Rows), count)

	for t := 0; t < sel.NumTimesteps; t++ {
		for i, row := range sel.Rows {
			group := GroupNumber(t, row, sel.NumBaselinesPerTimestep)

			// The null flag is not needed: undefined values are already zero.
			values, _, err := acc.ReadGroup(group, 1, uint64(count), undefinedFill)
			if err != nil {
				return nil, utils.Wrapf(err, "timestep %d row %d (group %d)", t, row, group)
			}
			if len(values) != count {
				return nil, fmt.Errorf("timestep %d row %d (group %d): accessor returned %d values, want %d",
					t, row, group, len(values), count)
			}
			copy(raw.At(t, i), values)
		}
	}

	return raw, nil
}
