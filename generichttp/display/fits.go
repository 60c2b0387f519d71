package display

import (
	"io"

	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/scan"

	"github.com/astrogo/fitsio"
)

// frameCards assembles the header metadata for a frame: measurement
// statistics plus the display state the frame was being viewed with
func frameCards(f scan.Frame, rng dynrange.Range, cmap string) []fitsio.Card {
	s := scan.Stats(f)
	return []fitsio.Card{
		{Name: "SAMPLES", Value: s.Samples, Comment: "measured pixel count"},
		{Name: "DATAMIN", Value: s.Min, Comment: "minimum measured level"},
		{Name: "DATAMAX", Value: s.Max, Comment: "maximum measured level"},
		{Name: "DISPMIN", Value: rng.Min, Comment: "lower display range bound"},
		{Name: "DISPMAX", Value: rng.Max, Comment: "upper display range bound"},
		{Name: "CMAP", Value: cmap, Comment: "colormap the frame was viewed with"},
	}
}

// writeFrameFITS streams a fits file with the frame in the primary HDU to w
func writeFrameFITS(w io.Writer, f scan.Frame, rng dynrange.Range, cmap string) error {
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	im := fitsio.NewImage(-64, []int{f.Width, f.Height})
	defer im.Close()
	err = im.Header().Append(frameCards(f, rng, cmap)...)
	if err != nil {
		return err
	}
	err = im.Write(f.Pix)
	if err != nil {
		return err
	}
	return fits.Write(im)
}
