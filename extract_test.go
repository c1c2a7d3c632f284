package uvrip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	mocktesting "github.com/scigolib/uvrip/internal/testing"
)

func TestGroupNumber(t *testing.T) {
	tests := []struct {
		timestep, row, baselines int
		want                     uint64
	}{
		{timestep: 0, row: 0, baselines: 4, want: 1},
		{timestep: 0, row: 3, baselines: 4, want: 4},
		{timestep: 1, row: 0, baselines: 4, want: 5},
		{timestep: 1, row: 3, baselines: 4, want: 8},
		{timestep: 55, row: 8127, baselines: 8128, want: 55*8128 + 8128},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, GroupNumber(tt.timestep, tt.row, tt.baselines),
			"timestep %d row %d", tt.timestep, tt.row)
	}
}

func TestGroupNumberMonotonic(t *testing.T) {
	for _, baselines := range []int{1, 3, 128, 8128} {
		for timestep := 0; timestep < 5; timestep++ {
			for row := 0; row < 50; row++ {
				g := GroupNumber(timestep, row, baselines)
				require.Equal(t, uint64(row+1+timestep*baselines), g)
				require.Less(t, g, GroupNumber(timestep, row+1, baselines))
				require.Less(t, g, GroupNumber(timestep+1, row, baselines))
			}
		}
	}
}

func TestSelectionValidate(t *testing.T) {
	valid := Selection{NumTimesteps: 2, NumBaselinesPerTimestep: 4, NumChannels: 2, Rows: []int{0, 3}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Selection)
	}{
		{name: "empty rows", mutate: func(s *Selection) { s.Rows = nil }},
		{name: "zero timesteps", mutate: func(s *Selection) { s.NumTimesteps = 0 }},
		{name: "zero baselines", mutate: func(s *Selection) { s.NumBaselinesPerTimestep = 0 }},
		{name: "negative channels", mutate: func(s *Selection) { s.NumChannels = -1 }},
		{name: "negative row", mutate: func(s *Selection) { s.Rows = []int{1, -2} }},
		{name: "too large", mutate: func(s *Selection) { s.NumTimesteps, s.NumChannels = 1<<20, 1<<20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := valid
			sel.Rows = append([]int(nil), valid.Rows...)
			tt.mutate(&sel)
			require.ErrorIs(t, sel.Validate(), ErrConfiguration)
		})
	}
}

func TestSelectionGroupNumbers(t *testing.T) {
	sel := Selection{NumTimesteps: 2, NumBaselinesPerTimestep: 4, NumChannels: 1, Rows: []int{3, 0}}
	require.Equal(t, []uint64{4, 1, 8, 5}, sel.GroupNumbers())
}

func TestExtract(t *testing.T) {
	acc := newMockAccessor(8)
	sel := Selection{NumTimesteps: 2, NumBaselinesPerTimestep: 4, NumChannels: 2, Rows: []int{0, 3}}

	raw, err := Extract(acc, sel)
	require.NoError(t, err)

	require.Equal(t, []uint64{1, 4, 5, 8}, acc.Groups())
	for _, req := range acc.Requests {
		require.Equal(t, uint64(1), req.First)
		require.Equal(t, uint64(24), req.Count)
		require.Equal(t, float32(0), req.Fill)
	}

	require.Equal(t, 2, raw.Timesteps)
	require.Equal(t, 2, raw.Rows)
	require.Equal(t, 24, raw.Floats)
	require.Len(t, raw.Data, 2*2*24, "the tensor is sized exactly")
	require.Equal(t, 2, raw.Channels())

	groups := [][]uint64{{1, 4}, {5, 8}}
	for ti := range groups {
		for ri, g := range groups[ti] {
			slot := raw.At(ti, ri)
			require.Len(t, slot, 24)
			for e, v := range slot {
				require.Equal(t, mocktesting.Encode(g, uint64(e+1)), v)
			}
		}
	}
}

func TestExtractPreservesRowOrder(t *testing.T) {
	acc := newMockAccessor(16)
	sel := Selection{NumTimesteps: 2, NumBaselinesPerTimestep: 8, NumChannels: 1, Rows: []int{5, 2, 5}}

	raw, err := Extract(acc, sel)
	require.NoError(t, err)
	require.Equal(t, 3, raw.Rows)
	require.Equal(t, []uint64{6, 3, 6, 14, 11, 14}, acc.Groups())

	require.Equal(t, mocktesting.Encode(6, 1), raw.At(0, 0)[0])
	require.Equal(t, mocktesting.Encode(3, 1), raw.At(0, 1)[0])
	require.Equal(t, mocktesting.Encode(6, 1), raw.At(0, 2)[0])
	require.Equal(t, mocktesting.Encode(14, 1), raw.At(1, 2)[0])
}

func TestExtractDeterministic(t *testing.T) {
	path := writeTestFile(t, 2, 8)
	sel := Selection{NumTimesteps: 2, NumBaselinesPerTimestep: 4, NumChannels: 2, Rows: []int{1, 2, 1}}

	file, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	first, err := Extract(file, sel)
	require.NoError(t, err)
	second, err := Extract(file, sel)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestExtractUndefinedValues(t *testing.T) {
	acc := newMockAccessor(4)
	acc.Nulls = map[uint64]bool{2: true}
	sel := Selection{NumTimesteps: 1, NumBaselinesPerTimestep: 4, NumChannels: 1, Rows: []int{1}}

	raw, err := Extract(acc, sel)
	require.NoError(t, err)
	require.Equal(t, float32(0), raw.At(0, 0)[0], "undefined values read as zero")
	require.Equal(t, mocktesting.Encode(2, 2), raw.At(0, 0)[1])
}

func TestExtractAllOrNothing(t *testing.T) {
	cause := errors.New("read failed")
	acc := newMockAccessor(8)
	acc.Fail = map[uint64]error{8: cause}
	sel := Selection{NumTimesteps: 2, NumBaselinesPerTimestep: 4, NumChannels: 2, Rows: []int{0, 3}}

	raw, err := Extract(acc, sel)
	require.Nil(t, raw)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "group 8")
	require.Equal(t, []uint64{1, 4, 5, 8}, acc.Groups(), "the failing read is the last one")
}

func TestExtractOutOfRangeGroup(t *testing.T) {
	acc := newMockAccessor(8)
	sel := Selection{NumTimesteps: 3, NumBaselinesPerTimestep: 4, NumChannels: 1, Rows: []int{0}}

	raw, err := Extract(acc, sel)
	require.Nil(t, raw)
	require.Error(t, err)
	require.Equal(t, []uint64{1, 5, 9}, acc.Groups())
}

func TestExtractShortRead(t *testing.T) {
	acc := newMockAccessor(4)
	acc.Short = map[uint64]int{1: 1}
	sel := Selection{NumTimesteps: 1, NumBaselinesPerTimestep: 4, NumChannels: 1, Rows: []int{0}}

	raw, err := Extract(acc, sel)
	require.Nil(t, raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "returned 11 values, want 12")
}

func TestExtractEmptySelection(t *testing.T) {
	acc := newMockAccessor(8)
	sel := Selection{NumTimesteps: 1, NumBaselinesPerTimestep: 4, NumChannels: 2}

	raw, err := Extract(acc, sel)
	require.Nil(t, raw)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Empty(t, acc.Requests, "no read happens for a rejected selection")
}
