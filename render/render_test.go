package render_test

import (
	"testing"

	"github.com/nasa-jpl/scanview/colormap"
	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/render"
	"github.com/nasa-jpl/scanview/scan"
)

func TestColorbarDimensions(t *testing.T) {
	img := render.Colorbar(colormap.Inferno, dynrange.Range{Min: 0, Max: 1}, 25, 400)
	b := img.Bounds()
	if b.Dx() != 25 || b.Dy() != 400 {
		t.Errorf("expected 25x400 legend, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestColorbarHigherValuesAtTop(t *testing.T) {
	img := render.Colorbar(colormap.Grayscale, dynrange.Range{Min: 0, Max: 100}, 4, 64)
	top := img.NRGBAAt(0, 0)
	bottom := img.NRGBAAt(0, 63)
	if top != colormap.Grayscale.ColorAt(1).NRGBA() {
		t.Errorf("expected top row to carry the high end color, got %+v", top)
	}
	if bottom != colormap.Grayscale.ColorAt(0).NRGBA() {
		t.Errorf("expected bottom row to carry the low end color, got %+v", bottom)
	}
}

func TestColorbarUniformWhenRangeDegenerate(t *testing.T) {
	img := render.Colorbar(colormap.Viridis, dynrange.Range{Min: 5, Max: 5}, 8, 32)
	expected := colormap.Viridis.ColorAt(1).NRGBA()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.NRGBAAt(x, y); c != expected {
				t.Fatalf("expected uniform color %+v at (%d,%d), got %+v", expected, x, y, c)
			}
		}
	}
}

func TestColorbarFreshBufferPerCall(t *testing.T) {
	rng := dynrange.Range{Min: 0, Max: 1}
	a := render.Colorbar(colormap.Inferno, rng, 4, 16)
	b := render.Colorbar(colormap.Inferno, rng, 4, 16)
	if &a.Pix[0] == &b.Pix[0] {
		t.Errorf("expected each render to return its own buffer")
	}
}

func TestFalsecolorClampsToRangeEnds(t *testing.T) {
	f := scan.NewFrame(3, 1)
	f.Set(0, 0, -50) // below range
	f.Set(1, 0, 10)  // at max
	f.Set(2, 0, 999) // above range
	img := render.Falsecolor(f, colormap.Grayscale, dynrange.Range{Min: 5, Max: 10})
	low := colormap.Grayscale.ColorAt(0).NRGBA()
	high := colormap.Grayscale.ColorAt(1).NRGBA()
	if c := img.NRGBAAt(0, 0); c != low {
		t.Errorf("expected below range sample to clamp to the low color, got %+v", c)
	}
	if c := img.NRGBAAt(1, 0); c != high {
		t.Errorf("expected at-max sample to map to the high color, got %+v", c)
	}
	if c := img.NRGBAAt(2, 0); c != high {
		t.Errorf("expected above range sample to clamp to the high color, got %+v", c)
	}
}

func TestFalsecolorDegenerateRange(t *testing.T) {
	f := scan.NewFrame(2, 2)
	f.Set(0, 0, 7)
	img := render.Falsecolor(f, colormap.Magma, dynrange.Range{Min: 7, Max: 7})
	expected := colormap.Magma.ColorAt(1).NRGBA()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c := img.NRGBAAt(x, y); c != expected {
				t.Fatalf("expected top color everywhere for a degenerate range, got %+v at (%d,%d)", c, x, y)
			}
		}
	}
}

func TestFalsecolorDimensionsMatchFrame(t *testing.T) {
	f := scan.NewFrame(7, 5)
	img := render.Falsecolor(f, colormap.Inferno, dynrange.Range{Min: 0, Max: 1})
	b := img.Bounds()
	if b.Dx() != 7 || b.Dy() != 5 {
		t.Errorf("expected 7x5 image, got %dx%d", b.Dx(), b.Dy())
	}
}
