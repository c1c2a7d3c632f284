package uvrip

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	mocktesting "github.com/scigolib/uvrip/internal/testing"
)

// uvfitsParameters is the usual PTYPE list written by correlators.
var uvfitsParameters = []string{"UU", "VV", "WW", "BASELINE", "DATE"}

// writeTestFile writes a random-groups file with numGroups groups of nchan
// channels. Data element e of group g holds mocktesting.Encode(g, e) and the
// BASELINE parameter of group g holds 256+g.
func writeTestFile(t *testing.T, nchan int, numGroups int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.uvfits")

	w, err := Create(path, GroupsLayout{
		Parameters: uvfitsParameters,
		Axes:       VisibilityAxes(nchan),
		NumGroups:  numGroups,
		Object:     "ZENITH",
	})
	require.NoError(t, err)

	for g := uint64(1); g <= uint64(numGroups); g++ {
		params := []float32{0.1, 0.2, 0.3, float32(256 + g), 2459000.5}
		data := make([]float32, nchan*FloatsPerChannel)
		for e := range data {
			data[e] = mocktesting.Encode(g, uint64(e+1))
		}
		require.NoError(t, w.WriteGroup(params, data))
	}
	require.NoError(t, w.Close())
	return path
}

// newMockAccessor returns an accessor with numGroups encoded groups.
func newMockAccessor(numGroups uint64) *mocktesting.MockAccessor {
	return &mocktesting.MockAccessor{
		NumGroups: numGroups,
		Value:     mocktesting.Encode,
	}
}
