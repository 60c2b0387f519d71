// Package render rasterizes color legends and false-color views of scan
// frames.  Both functions are pure mappings from their inputs to a fresh
// pixel buffer; nothing is cached between calls.
package render

import (
	"image"
	"image/color"

	"github.com/nasa-jpl/scanview/colormap"
	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/scan"
	"github.com/nasa-jpl/scanview/util"
)

// Colorbar draws a vertical legend of the gradient over rng.  Higher values
// sit at the top.  When rng is degenerate (Min == Max) every row uses the
// gradient's top color rather than dividing by zero.  Dimensions below 1 are
// raised to 1.
func Colorbar(m colormap.Map, rng dynrange.Range, width, height int) *image.NRGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	denom := float64(height - 1)
	for y := 0; y < height; y++ {
		t := 1.0
		if rng.Min != rng.Max && denom > 0 {
			t = float64(height-1-y) / denom
		}
		c := m.ColorAt(t).NRGBA()
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Falsecolor maps a frame through a 256-entry lookup table of the gradient,
// with rng as the display levels.  Samples outside the range clamp to the
// end colors; a degenerate range paints every cell with the top color, the
// same convention Colorbar uses.
func Falsecolor(f scan.Frame, m colormap.Map, rng dynrange.Range) *image.NRGBA {
	lut := m.LUT(256)
	lut8 := make([]color.NRGBA, len(lut))
	for i, c := range lut {
		lut8[i] = c.NRGBA()
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	span := rng.Max - rng.Min
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			t := 1.0
			if span != 0 {
				t = util.Clamp((f.At(x, y)-rng.Min)/span, 0, 1)
			}
			img.SetNRGBA(x, y, lut8[int(t*255+0.5)])
		}
	}
	return img
}
