package uvrip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// channelBlock returns [r0,i0,w0, r1,i1,w1, r2,i2,w2, r3,i3,w3] with
// r_p = base+10p, i_p = base+10p+1, w_p = base+10p+2.
func channelBlock(base float32) []float32 {
	block := make([]float32, 0, FloatsPerChannel)
	for p := 0; p < NumPolarizations; p++ {
		r := base + float32(10*p)
		block = append(block, r, r+1, r+2)
	}
	return block
}

func TestSelectPolarizationsBlock(t *testing.T) {
	raw := &RawVisibilities{Timesteps: 1, Rows: 1, Floats: FloatsPerChannel, Data: channelBlock(100)}

	single := SelectPolarizations(raw, SinglePol)
	require.Equal(t, []int{1, 1, 1}, single.Shape)
	require.Equal(t, []float32{100}, single.Data)

	dual := SelectPolarizations(raw, DualPol)
	require.Equal(t, []int{1, 1, 1, 2}, dual.Shape)
	require.Equal(t, []float32{100, 130}, dual.Data)
}

func TestSelectPolarizationsLayout(t *testing.T) {
	const timesteps, rows, channels = 2, 3, 4
	raw := &RawVisibilities{Timesteps: timesteps, Rows: rows, Floats: channels * FloatsPerChannel}
	for ti := 0; ti < timesteps; ti++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < channels; c++ {
				raw.Data = append(raw.Data, channelBlock(float32(1000*ti+100*r+c*1000000))...)
			}
		}
	}

	single := SelectPolarizations(raw, SinglePol)
	dual := SelectPolarizations(raw, DualPol)
	require.Len(t, single.Data, timesteps*rows*channels)
	require.Len(t, dual.Data, timesteps*rows*channels*2)

	for ti := 0; ti < timesteps; ti++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < channels; c++ {
				base := float32(1000*ti + 100*r + c*1000000)
				i := (ti*rows+r)*channels + c
				require.Equal(t, base, single.Data[i])
				require.Equal(t, base, dual.Data[2*i])
				require.Equal(t, base+30, dual.Data[2*i+1])
			}
		}
	}

	plane := dual.Plane(1, 1)
	require.Len(t, plane, timesteps*channels)
	require.Equal(t, float32(1000+100+30), plane[channels])
}

func TestSelectPolarizationsShapeAssertion(t *testing.T) {
	raw := &RawVisibilities{Timesteps: 1, Rows: 1, Floats: 13, Data: make([]float32, 13)}

	defer func() {
		r := recover()
		require.NotNil(t, r)
		shapeErr, ok := r.(*ShapeError)
		require.True(t, ok)
		require.Equal(t, 13, shapeErr.Floats)
		require.Contains(t, shapeErr.Error(), "multiple of 12")
	}()
	SelectPolarizations(raw, SinglePol)
}

func TestPolModeString(t *testing.T) {
	require.Equal(t, "single", SinglePol.String())
	require.Equal(t, "dual", DualPol.String())
	require.Equal(t, "PolMode(7)", PolMode(7).String())
}
