// Package colormap provides continuous color gradients defined by discrete
// stops, with linear interpolation between them.  Maps are immutable once
// constructed; stop positions are rescaled to span [0,1] at construction time.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/nasa-jpl/scanview/mathx"
)

// ErrDegenerate is returned when all stops collapse to a single position,
// leaving no span to rescale.
var ErrDegenerate = errors.New("colormap: all stops at a single position")

// Color is a color with normalized channels, each in [0,1].
type Color struct {
	R, G, B, A float64
}

// NRGBA converts c to 8 bits per channel for use with the image package.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

// Stop is a gradient anchor; Pos is normalized to [0,1] by New.
type Stop struct {
	Pos   float64
	Color Color
}

// Map is a named gradient.  The zero value is not usable; construct with
// New, FromHex, or one of the package scales.
type Map struct {
	name  string
	stops []Stop
}

// New builds a Map from raw stops.  The stops need not be sorted or span
// [0,1]; positions are rescaled so the minimum maps to 0 and the maximum to
// 1.  If every stop shares one position the result is ErrDegenerate.
func New(name string, stops []Stop) (Map, error) {
	if len(stops) == 0 {
		return Map{}, errors.New("colormap: no stops")
	}
	cp := make([]Stop, len(stops))
	copy(cp, stops)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Pos < cp[j].Pos })
	min := cp[0].Pos
	span := cp[len(cp)-1].Pos - min
	if span == 0 {
		return Map{}, ErrDegenerate
	}
	for i := range cp {
		cp[i].Pos = (cp[i].Pos - min) / span
	}
	for i := 1; i < len(cp); i++ {
		if cp[i].Pos == cp[i-1].Pos {
			return Map{}, fmt.Errorf("colormap: duplicate stop position %g", cp[i].Pos)
		}
	}
	return Map{name: name, stops: cp}, nil
}

// FromHex builds a Map from parallel slices of positions and CSS-style hex
// colors ("#RRGGBB").  Alpha is fully opaque.
func FromHex(name string, positions []float64, hexes []string) (Map, error) {
	if len(positions) != len(hexes) {
		return Map{}, fmt.Errorf("colormap: %d positions for %d colors", len(positions), len(hexes))
	}
	stops := make([]Stop, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Map{}, err
		}
		stops[i] = Stop{Pos: positions[i], Color: Color{R: c.R, G: c.G, B: c.B, A: 1}}
	}
	return New(name, stops)
}

// Name returns the name the map was constructed with.
func (m Map) Name() string { return m.name }

// Stops returns a copy of the normalized stops.
func (m Map) Stops() []Stop {
	out := make([]Stop, len(m.stops))
	copy(out, m.stops)
	return out
}

// ColorAt returns the color at t.  Values outside [0,1] clamp to the end
// colors; between stops each channel is blended linearly.  The function is
// deterministic and has no side effects.
func (m Map) ColorAt(t float64) Color {
	stops := m.stops
	last := len(stops) - 1
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	if t >= stops[last].Pos {
		return stops[last].Color
	}
	for i := 0; i < last; i++ {
		lo, hi := stops[i], stops[i+1]
		if t > hi.Pos {
			continue
		}
		frac := (t - lo.Pos) / (hi.Pos - lo.Pos)
		return Color{
			R: mathx.Lerp(lo.Color.R, hi.Color.R, frac),
			G: mathx.Lerp(lo.Color.G, hi.Color.G, frac),
			B: mathx.Lerp(lo.Color.B, hi.Color.B, frac),
			A: mathx.Lerp(lo.Color.A, hi.Color.A, frac),
		}
	}
	return stops[last].Color
}

// LUT samples the map into a lookup table of n colors, index 0 at t=0 and
// index n-1 at t=1.  n below 2 is raised to 2.
func (m Map) LUT(n int) []Color {
	if n < 2 {
		n = 2
	}
	out := make([]Color, n)
	for i := range out {
		out[i] = m.ColorAt(float64(i) / float64(n-1))
	}
	return out
}
