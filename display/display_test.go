package display_test

import (
	"testing"

	"github.com/nasa-jpl/scanview/colormap"
	"github.com/nasa-jpl/scanview/display"
	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/scan"
)

// fakeSource serves a fixed frame.
type fakeSource struct {
	f  scan.Frame
	ok bool
}

func (s *fakeSource) CurrentFrame() (scan.Frame, bool) { return s.f, s.ok }

// churnSource serves a different frame on every call, the hostile case for
// anything that reads the source more than once per event.
type churnSource struct {
	calls int
}

func (s *churnSource) CurrentFrame() (scan.Frame, bool) {
	s.calls++
	f := scan.NewFrame(2, 2)
	for i := range f.Pix {
		f.Pix[i] = float64(s.calls * (i + 1))
	}
	return f, true
}

// recordView remembers every level application.
type recordView struct {
	levels [][2]float64
}

func (v *recordView) ApplyDisplayLevels(min, max float64) {
	v.levels = append(v.levels, [2]float64{min, max})
}

func (v *recordView) last() [2]float64 { return v.levels[len(v.levels)-1] }

func gridSource() *fakeSource {
	f := scan.NewFrame(10, 10)
	for i := 0; i < 40; i++ {
		f.Pix[i] = float64(i + 1)
	}
	return &fakeSource{f: f, ok: true}
}

func TestManualEditForcesManualMode(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{})
	c.SetManualMin(3)
	if c.Mode() != dynrange.ModeManual {
		t.Errorf("expected editing a manual bound to force manual mode, got %v", c.Mode())
	}
	rng := c.DisplayRange()
	if rng.Min != 3 || rng.Max != 100 {
		t.Errorf("expected manual range (3, 100), got %+v", rng)
	}
}

func TestCentileEditForcesPercentileMode(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{})
	c.SetMode(dynrange.ModeManual)
	c.SetCentileHigh(95)
	if c.Mode() != dynrange.ModePercentile {
		t.Errorf("expected editing a centile to force percentile mode, got %v", c.Mode())
	}
}

func TestModeToggleRoundTripReproducesRange(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{
		Centiles: dynrange.Centiles{Low: 5, High: 95},
	})
	c.Refresh()
	before := c.DisplayRange()
	c.SetMode(dynrange.ModeManual)
	c.SetMode(dynrange.ModePercentile)
	after := c.DisplayRange()
	if before != after {
		t.Errorf("expected the round trip to reproduce %+v, got %+v", before, after)
	}
}

func TestViewReceivesTheRenderedRange(t *testing.T) {
	src := &churnSource{}
	v := &recordView{}
	c := display.New(src, colormap.Inferno, display.Options{})
	c.AttachView(v)
	c.SetCentileHigh(95)
	rng := c.DisplayRange()
	if got := v.last(); got[0] != rng.Min || got[1] != rng.Max {
		t.Errorf("expected the view to see the identical range %+v, got %v", rng, got)
	}
	// one snapshot read per event: attach does not touch the source, the
	// edit reads it once
	if src.calls != 1 {
		t.Errorf("expected exactly one source read for one event, got %d", src.calls)
	}
}

func TestAbsentFrameIsIdleNoOp(t *testing.T) {
	src := &fakeSource{ok: false}
	c := display.New(src, colormap.Inferno, display.Options{})
	legend := c.Legend()
	rng := c.DisplayRange()
	c.Refresh()
	c.SetCentileLow(10)
	if c.Legend() != legend {
		t.Errorf("expected the legend to be retained while no data exists")
	}
	if c.DisplayRange() != rng {
		t.Errorf("expected the range to be retained while no data exists, got %+v", c.DisplayRange())
	}
	// the edit itself still lands, and still forces the mode
	if c.Centiles().Low != 10 || c.Mode() != dynrange.ModePercentile {
		t.Errorf("expected the centile edit to be recorded, got %+v", c.Centiles())
	}
}

func TestAllZeroFrameFallsBackToManualBounds(t *testing.T) {
	src := &fakeSource{f: scan.NewFrame(6, 6), ok: true}
	c := display.New(src, colormap.Inferno, display.Options{
		Manual: dynrange.Bounds{Min: 2, Max: 8},
	})
	c.Refresh()
	rng := c.DisplayRange()
	if rng.Min != 2 || rng.Max != 8 {
		t.Errorf("expected manual fallback (2, 8) for an unmeasured map, got %+v", rng)
	}
}

func TestManualOrderingEnforcedAtSetters(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{
		Manual: dynrange.Bounds{Min: 0, Max: 10},
	})
	c.SetManualMin(50)
	man := c.Manual()
	if man.Min != 50 || man.Max != 50 {
		t.Errorf("expected the upper bound to be dragged to keep min <= max, got %+v", man)
	}
	c.SetManualMax(-5)
	man = c.Manual()
	if man.Min != -5 || man.Max != -5 {
		t.Errorf("expected the lower bound to be dragged to keep min <= max, got %+v", man)
	}
}

func TestManualZeroPairReachableByEdits(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{
		Manual: dynrange.Bounds{},
	})
	if man := c.Manual(); man.Max != 100 {
		t.Fatalf("expected the zero pair to read as unset at construction, got %+v", man)
	}
	c.SetManualMax(0)
	if man := c.Manual(); man.Min != 0 || man.Max != 0 {
		t.Errorf("expected edits to reach the (0, 0) pair, got %+v", man)
	}
	rng := c.DisplayRange()
	if rng.Min != 0 || rng.Max != 0 {
		t.Errorf("expected a degenerate (0, 0) range, got %+v", rng)
	}
}

func TestCentileOrderingEnforcedAtSetters(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{
		Centiles: dynrange.Centiles{Low: 10, High: 90},
	})
	c.SetCentileLow(95)
	cen := c.Centiles()
	if cen.Low != 95 || cen.High != 95 {
		t.Errorf("expected the high centile to be dragged to keep low <= high, got %+v", cen)
	}
}

func TestResizeRebuildsLegendKeepsRange(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{Width: 10, Height: 20})
	c.Refresh()
	rng := c.DisplayRange()
	c.Resize(30, 40)
	b := c.Legend().Bounds()
	if b.Dx() != 30 || b.Dy() != 40 {
		t.Errorf("expected a 30x40 legend after resize, got %dx%d", b.Dx(), b.Dy())
	}
	if c.DisplayRange() != rng {
		t.Errorf("expected resize to leave the range untouched")
	}
}

func TestAttachViewSyncsImmediately(t *testing.T) {
	v := &recordView{}
	c := display.New(gridSource(), colormap.Inferno, display.Options{})
	c.Refresh()
	rng := c.DisplayRange()
	c.AttachView(v)
	if len(v.levels) != 1 {
		t.Fatalf("expected one level application on attach, got %d", len(v.levels))
	}
	if got := v.last(); got[0] != rng.Min || got[1] != rng.Max {
		t.Errorf("expected attach to apply the current range %+v, got %v", rng, got)
	}
}

func TestLegendReplacedWholesaleOnEdit(t *testing.T) {
	c := display.New(gridSource(), colormap.Inferno, display.Options{})
	before := c.Legend()
	c.SetCentileHigh(90)
	if c.Legend() == before {
		t.Errorf("expected a fresh legend buffer after an edit")
	}
}

func TestSetColormapRebuildsLegendOnly(t *testing.T) {
	src := &churnSource{}
	c := display.New(src, colormap.Inferno, display.Options{})
	c.Refresh()
	reads := src.calls
	rng := c.DisplayRange()
	before := c.Legend()
	c.SetColormap(colormap.Viridis)
	if c.Colormap().Name() != "viridis" {
		t.Errorf("expected the colormap to be swapped, got %s", c.Colormap().Name())
	}
	if c.Legend() == before {
		t.Errorf("expected the legend to be rebuilt for the new gradient")
	}
	if c.DisplayRange() != rng {
		t.Errorf("expected the range to be unchanged by a colormap swap")
	}
	if src.calls != reads {
		t.Errorf("expected no source read for a colormap swap, got %d extra", src.calls-reads)
	}
}
