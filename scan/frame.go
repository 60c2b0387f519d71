// Package scan contains the data model for 2-D scan maps.  A map is filled
// in sample by sample as an acquisition progresses; cells that have not been
// visited yet hold exact zero, which the statistics here treat as
// "unmeasured" rather than as a true reading.
package scan

// Frame is a strided, row-major buffer of scan samples in physical units.
type Frame struct {
	// Pix holds the samples, row-major, len Width*Height
	Pix []float64 `json:"pix"`

	// Width is the number of samples per row
	Width int `json:"width"`

	// Height is the number of rows
	Height int `json:"height"`
}

// NewFrame returns a zero-filled (fully unmeasured) frame.
func NewFrame(width, height int) Frame {
	return Frame{
		Pix:    make([]float64, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the sample at column x, row y.
func (f Frame) At(x, y int) float64 {
	return f.Pix[y*f.Width+x]
}

// Set writes the sample at column x, row y.
func (f *Frame) Set(x, y int, v float64) {
	f.Pix[y*f.Width+x] = v
}

// Empty is true when the frame holds no samples at all.
func (f Frame) Empty() bool {
	return f.Width < 1 || f.Height < 1 || len(f.Pix) == 0
}

// Clone returns a deep copy; mutating the copy does not touch the original.
func (f Frame) Clone() Frame {
	pix := make([]float64, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Pix: pix, Width: f.Width, Height: f.Height}
}

// Nonzero returns the measured samples (those not exactly zero) as a fresh
// slice.  The order follows the buffer.
func (f Frame) Nonzero() []float64 {
	out := make([]float64, 0, len(f.Pix))
	for _, v := range f.Pix {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}
