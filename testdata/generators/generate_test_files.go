//go:build ignore
// +build ignore

package main

import (
	"log"
	"math"

	"github.com/scigolib/uvrip"
)

const (
	numAntennas  = 4
	numTimesteps = 3
	numChannels  = 4
)

func main() {
	var baselines []float32
	for a1 := 1; a1 <= numAntennas; a1++ {
		for a2 := a1 + 1; a2 <= numAntennas; a2++ {
			baselines = append(baselines, float32(256*a1+a2))
		}
	}

	w, err := uvrip.Create("testdata/small.uvfits", uvrip.GroupsLayout{
		Parameters: []string{"UU", "VV", "WW", "BASELINE", "DATE"},
		Axes:       uvrip.VisibilityAxes(numChannels),
		NumGroups:  int64(numTimesteps * len(baselines)),
		Object:     "ZENITH",
	})
	if err != nil {
		log.Fatalf("Failed to create file: %v", err)
	}

	for t := 0; t < numTimesteps; t++ {
		for b, bl := range baselines {
			params := []float32{float32(b), float32(-b), 0, bl, 2459000.5 + float32(t)/86400}
			data := make([]float32, numChannels*uvrip.FloatsPerChannel)
			for c := 0; c < numChannels; c++ {
				for p := 0; p < uvrip.NumPolarizations; p++ {
					phase := float64(t+c+p) / 4
					base := c*uvrip.FloatsPerChannel + p*uvrip.FloatsPerPolarization
					data[base] = float32(float64(b+1) * math.Cos(phase))
					data[base+1] = float32(float64(b+1) * math.Sin(phase))
					data[base+2] = 1
				}
			}
			if err := w.WriteGroup(params, data); err != nil {
				log.Fatalf("Failed to write group: %v", err)
			}
		}
	}

	if err := w.Close(); err != nil {
		log.Fatalf("Failed to close file: %v", err)
	}
	log.Printf("wrote testdata/small.uvfits: %d timesteps x %d baselines x %d channels",
		numTimesteps, len(baselines), numChannels)
}
