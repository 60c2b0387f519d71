// Command scanrender converts a FITS scan frame into a falsecolor PNG from
// the command line, without standing up a server.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/theckman/yacspin"

	"github.com/nasa-jpl/scanview/colormap"
	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/render"
	"github.com/nasa-jpl/scanview/scan"
	"github.com/nasa-jpl/scanview/source"
	"github.com/nasa-jpl/scanview/util"
)

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// rangeSettings sanitizes the range flags at the process boundary: centiles
// clamp to [0, 100] and out of order pairs are swapped.
func rangeSettings(min, max, lo, hi float64) (dynrange.Bounds, dynrange.Centiles) {
	if min > max {
		min, max = max, min
	}
	lo = util.Clamp(lo, 0, 100)
	hi = util.Clamp(hi, 0, 100)
	if lo > hi {
		lo, hi = hi, lo
	}
	return dynrange.Bounds{Min: min, Max: max}, dynrange.Centiles{Low: lo, High: hi}
}

func main() {
	input := flag.String("in", "", "FITS file holding the scan frame")
	output := flag.String("out", "render.png", "output PNG filename")
	legend := flag.Bool("legend", true, "append the colorbar legend to the right edge of the output")
	legendW := flag.Int("legend-width", 16, "width of the appended legend strip in pixels")
	cmapName := flag.String("cmap", "inferno", "colormap, one of grayscale, inferno, magma, viridis")
	modeStr := flag.String("mode", "percentile", "range mode, manual or percentile")
	manMin := flag.Float64("min", 0, "manual range minimum")
	manMax := flag.Float64("max", 100, "manual range maximum")
	centLo := flag.Float64("lo", 0, "low percentile of the measured pixels")
	centHi := flag.Float64("hi", 100, "high percentile of the measured pixels")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	mode, err := dynrange.ParseMode(*modeStr)
	if err != nil {
		log.Fatal(err)
	}
	cmap, err := colormap.Lookup(*cmapName)
	if err != nil {
		log.Fatal(err)
	}

	spinner, err := yacspin.New(yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[59],
		Suffix:            " scanrender",
		SuffixAutoColon:   true,
		Message:           "reading " + *input,
		StopCharacter:     "✓",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "✗",
		StopFailColors:    []string{"fgRed"},
	})
	if err != nil {
		log.Fatal(err)
	}
	spinner.Start()

	f, err := os.Open(*input)
	if err != nil {
		spinner.StopFail()
		log.Fatal(err)
	}
	frame, err := source.ReadFrame(f)
	f.Close()
	if err != nil {
		spinner.StopFail()
		log.Fatal(err)
	}

	spinner.Message("computing the display range")
	man, cen := rangeSettings(*manMin, *manMax, *centLo, *centHi)
	rng := dynrange.Compute(frame, mode, man, cen)

	spinner.Message("rendering " + *output)
	var out image.Image = render.Falsecolor(frame, cmap, rng)
	if *legend {
		strip := render.Colorbar(cmap, rng, *legendW, frame.Height)
		combined := image.NewNRGBA(image.Rect(0, 0, frame.Width+*legendW, frame.Height))
		draw.Draw(combined, out.Bounds(), out, image.Point{}, draw.Src)
		draw.Draw(combined, strip.Bounds().Add(image.Pt(frame.Width, 0)), strip, image.Point{}, draw.Src)
		out = combined
	}
	err = writePNG(*output, out)
	if err != nil {
		spinner.StopFail()
		log.Fatal(err)
	}
	spinner.Stop()

	s := scan.Stats(frame)
	fmt.Printf("%d x %d frame, %d of %d pixels measured\n", frame.Width, frame.Height, s.Samples, len(frame.Pix))
	fmt.Printf("measured signal %g to %g, mean %g\n", s.Min, s.Max, s.Mean)
	fmt.Printf("displayed range %g to %g (%v)\n", rng.Min, rng.Max, mode)
}
