// Package quicklook renders extracted visibilities as heatmap images for a
// quick visual sanity check of a run.
package quicklook

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default image size.
var (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

const paletteColors = 64

// plane adapts a timestep-major (timestep, channel) slice to plotter.GridXYZ.
// Columns are channels and rows are timesteps.
type plane struct {
	values    []float32
	timesteps int
	channels  int
}

func (p plane) Dims() (c, r int)   { return p.channels, p.timesteps }
func (p plane) Z(c, r int) float64 { return float64(p.values[r*p.channels+c]) }
func (p plane) X(c int) float64    { return float64(c) }
func (p plane) Y(r int) float64    { return float64(r) }

func (p plane) bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p.values {
		f := float64(v)
		if math.IsNaN(f) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi
}

// Heatmap builds a channel by timestep heatmap of values, which must hold
// timesteps*channels entries, timestep-major.
func Heatmap(title string, values []float32, timesteps, channels int) (*plot.Plot, error) {
	if timesteps < 1 || channels < 1 {
		return nil, fmt.Errorf("quicklook: empty plane %dx%d", timesteps, channels)
	}
	if len(values) != timesteps*channels {
		return nil, fmt.Errorf("quicklook: got %d values for %d timesteps x %d channels",
			len(values), timesteps, channels)
	}

	grid := plane{values: values, timesteps: timesteps, channels: channels}
	hm := plotter.NewHeatMap(grid, palette.Heat(paletteColors, 1))
	hm.Min, hm.Max = grid.bounds()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Channel"
	p.Y.Label.Text = "Timestep"
	p.X.Min, p.X.Max = -0.5, float64(channels)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(timesteps)-0.5
	p.Add(hm)
	return p, nil
}

// WritePNG renders the heatmap of values as a PNG image to w.
func WritePNG(w io.Writer, title string, values []float32, timesteps, channels int) error {
	p, err := Heatmap(title, values, timesteps, channels)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, "png")
	if err != nil {
		return fmt.Errorf("quicklook: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("quicklook: write png: %w", err)
	}
	return nil
}

// WriteFile saves the heatmap of values to path. The image format follows
// the file extension (png, svg, pdf, ...).
func WriteFile(path, title string, values []float32, timesteps, channels int) error {
	p, err := Heatmap(title, values, timesteps, channels)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("quicklook: save %s: %w", path, err)
	}
	return nil
}
