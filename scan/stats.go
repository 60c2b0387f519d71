package scan

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the measured (nonzero) samples of a frame.
type Summary struct {
	// Samples is the number of measured cells
	Samples int `json:"samples"`

	// Min is the smallest measured sample
	Min float64 `json:"min"`

	// Max is the largest measured sample
	Max float64 `json:"max"`

	// Mean is the arithmetic mean of the measured samples
	Mean float64 `json:"mean"`

	// StdDev is the corrected sample standard deviation; zero when fewer
	// than two samples exist
	StdDev float64 `json:"stddev"`
}

// Stats summarizes the measured samples of f.  A frame with no measured
// samples yields the zero Summary.
func Stats(f Frame) Summary {
	vals := f.Nonzero()
	if len(vals) == 0 {
		return Summary{}
	}
	s := Summary{
		Samples: len(vals),
		Min:     floats.Min(vals),
		Max:     floats.Max(vals),
		Mean:    stat.Mean(vals, nil),
	}
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}
