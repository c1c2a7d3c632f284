package uvrip

import "fmt"

// PolMode selects which polarizations survive the reduction.
type PolMode int

const (
	// SinglePol keeps the real part of polarization 0 (XX).
	SinglePol PolMode = iota
	// DualPol keeps the real parts of polarizations 0 and 3 (XX and YY).
	DualPol
)

// Offsets of the real component of the selectable polarizations within a
// channel block.
const (
	firstPolReal  = 0
	secondPolReal = 3 * FloatsPerPolarization
)

func (m PolMode) String() string {
	switch m {
	case SinglePol:
		return "single"
	case DualPol:
		return "dual"
	default:
		return fmt.Sprintf("PolMode(%d)", int(m))
	}
}

// Visibilities is the reduced output tensor, row-major.
// Shape is (timesteps, rows, channels) for SinglePol and
// (timesteps, rows, channels, 2) for DualPol.
type Visibilities struct {
	Mode  PolMode
	Shape []int
	Data  []float32
}

// Pols returns the number of polarizations kept per channel.
func (v *Visibilities) Pols() int {
	if v.Mode == DualPol {
		return 2
	}
	return 1
}

// Plane returns the (timestep, channel) values of one selected row and one
// kept polarization, timestep-major.
func (v *Visibilities) Plane(row, pol int) []float32 {
	timesteps, rows, channels, pols := v.Shape[0], v.Shape[1], v.Shape[2], v.Pols()
	out := make([]float32, 0, timesteps*channels)
	for t := 0; t < timesteps; t++ {
		base := (t*rows + row) * channels * pols
		for c := 0; c < channels; c++ {
			out = append(out, v.Data[base+c*pols+pol])
		}
	}
	return out
}

// SelectPolarizations keeps the real component of polarization 0 (and of
// polarization 3 in DualPol mode) of every channel, dropping imaginary parts
// and weights.
//
// It panics with *ShapeError if raw does not hold whole channels.
func SelectPolarizations(raw *RawVisibilities, mode PolMode) *Visibilities {
	if raw.Floats%FloatsPerChannel != 0 {
		panic(&ShapeError{Floats: raw.Floats})
	}
	channels := raw.Channels()

	out := &Visibilities{
		Mode:  mode,
		Shape: []int{raw.Timesteps, raw.Rows, channels},
	}
	if mode == DualPol {
		out.Shape = append(out.Shape, 2)
	}
	out.Data = make([]float32, 0, raw.Timesteps*raw.Rows*channels*out.Pols())

	for t := 0; t < raw.Timesteps; t++ {
		for r := 0; r < raw.Rows; r++ {
			row := raw.At(t, r)
			for c := 0; c < channels; c++ {
				block := row[c*FloatsPerChannel : (c+1)*FloatsPerChannel]
				out.Data = append(out.Data, block[firstPolReal])
				if mode == DualPol {
					out.Data = append(out.Data, block[secondPolReal])
				}
			}
		}
	}
	return out
}
