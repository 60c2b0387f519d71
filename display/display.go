// Package display keeps a scan map's rendered views in agreement about the
// active display range.  A Controller owns the range mode, the manual and
// percentile parameters, and the rendered legend; every edit recomputes the
// range exactly once and applies that one value to both the legend and any
// attached image view, so the two can never drift apart.
package display

import (
	"image"

	"github.com/nasa-jpl/scanview/colormap"
	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/render"
	"github.com/nasa-jpl/scanview/scan"
)

// FrameSource supplies scan snapshots.  CurrentFrame returns ok=false while
// no data has been acquired yet; implementations return a consistent
// snapshot, not a buffer that mutates under the caller.
type FrameSource interface {
	CurrentFrame() (f scan.Frame, ok bool)
}

// ImageView is an external rendering of the scan that must track the same
// display levels as the legend.
type ImageView interface {
	ApplyDisplayLevels(min, max float64)
}

// Options configures a Controller.  Zero fields take the defaults: a 100x256
// legend, percentile mode with centiles (0, 100), and manual bounds (0, 100).
// The zero pair doubles as the unset sentinel, so manual bounds of exactly
// (0, 0) cannot be given at construction; use SetManualMax(0) afterward.
type Options struct {
	Width, Height int
	Mode          dynrange.Mode
	Manual        dynrange.Bounds
	Centiles      dynrange.Centiles
}

// Controller is the single owner of range state.  It is not thread safe;
// callers serialize access (the HTTP wrapper does).
type Controller struct {
	src    FrameSource
	view   ImageView
	cm     colormap.Map
	mode   dynrange.Mode
	man    dynrange.Bounds
	cen    dynrange.Centiles
	width  int
	height int
	rng    dynrange.Range
	legend *image.NRGBA
}

// New returns a Controller with an initial legend rendered over the manual
// bounds; the first data event replaces it.
func New(src FrameSource, cm colormap.Map, opts Options) *Controller {
	if opts.Width < 1 {
		opts.Width = 100
	}
	if opts.Height < 1 {
		opts.Height = 256
	}
	if opts.Manual == (dynrange.Bounds{}) {
		opts.Manual = dynrange.Bounds{Min: 0, Max: 100}
	}
	if opts.Centiles == (dynrange.Centiles{}) {
		opts.Centiles = dynrange.Centiles{Low: 0, High: 100}
	}
	c := &Controller{
		src:    src,
		cm:     cm,
		mode:   opts.Mode,
		man:    opts.Manual,
		cen:    opts.Centiles,
		width:  opts.Width,
		height: opts.Height,
	}
	c.rng = dynrange.Range{Min: c.man.Min, Max: c.man.Max}
	c.legend = render.Colorbar(c.cm, c.rng, c.width, c.height)
	return c
}

// update runs one recompute cycle: pull a snapshot, resolve the range once,
// rebuild the legend wholesale, and hand the identical range to the view.
// An absent frame leaves the previous legend and range in place; that is the
// steady state between acquisitions, not an error.
func (c *Controller) update() {
	f, ok := c.src.CurrentFrame()
	if !ok {
		return
	}
	rng := dynrange.Compute(f, c.mode, c.man, c.cen)
	c.rng = rng
	c.legend = render.Colorbar(c.cm, rng, c.width, c.height)
	if c.view != nil {
		c.view.ApplyDisplayLevels(rng.Min, rng.Max)
	}
}

// AttachView registers the image view and immediately brings it in line
// with the current range.
func (c *Controller) AttachView(v ImageView) {
	c.view = v
	if v != nil {
		v.ApplyDisplayLevels(c.rng.Min, c.rng.Max)
	}
}

// Refresh is the data-update event: recompute from the latest snapshot.
func (c *Controller) Refresh() { c.update() }

// SetMode switches the range mode directly.
func (c *Controller) SetMode(m dynrange.Mode) {
	c.mode = m
	c.update()
}

// Mode returns the active range mode.
func (c *Controller) Mode() dynrange.Mode { return c.mode }

// SetManualMin edits the lower manual bound and forces manual mode.  If the
// new value passes the upper bound, the upper bound is dragged along so the
// pair stays ordered.
func (c *Controller) SetManualMin(v float64) {
	c.man.Min = v
	if c.man.Max < v {
		c.man.Max = v
	}
	c.mode = dynrange.ModeManual
	c.update()
}

// SetManualMax edits the upper manual bound and forces manual mode.
func (c *Controller) SetManualMax(v float64) {
	c.man.Max = v
	if c.man.Min > v {
		c.man.Min = v
	}
	c.mode = dynrange.ModeManual
	c.update()
}

// SetCentileLow edits the low percentile and forces percentile mode.
// Callers clamp to [0,100] first.
func (c *Controller) SetCentileLow(p float64) {
	c.cen.Low = p
	if c.cen.High < p {
		c.cen.High = p
	}
	c.mode = dynrange.ModePercentile
	c.update()
}

// SetCentileHigh edits the high percentile and forces percentile mode.
func (c *Controller) SetCentileHigh(p float64) {
	c.cen.High = p
	if c.cen.Low > p {
		c.cen.Low = p
	}
	c.mode = dynrange.ModePercentile
	c.update()
}

// Manual returns the manual bounds.
func (c *Controller) Manual() dynrange.Bounds { return c.man }

// Centiles returns the percentile parameters.
func (c *Controller) Centiles() dynrange.Centiles { return c.cen }

// SetColormap swaps the gradient and rebuilds the legend over the current
// range; the range itself does not depend on the gradient.
func (c *Controller) SetColormap(m colormap.Map) {
	c.cm = m
	c.legend = render.Colorbar(c.cm, c.rng, c.width, c.height)
}

// Colormap returns the active gradient.
func (c *Controller) Colormap() colormap.Map { return c.cm }

// Resize changes the legend geometry and rebuilds it; the range is
// untouched.  Dimensions below 1 are ignored.
func (c *Controller) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.legend = render.Colorbar(c.cm, c.rng, c.width, c.height)
}

// DisplayRange returns the resolved range currently driving both views.
func (c *Controller) DisplayRange() dynrange.Range { return c.rng }

// Legend returns the current legend raster.  It is replaced, never edited,
// on each recompute.
func (c *Controller) Legend() *image.NRGBA { return c.legend }

// Frame passes through the source's current snapshot.
func (c *Controller) Frame() (scan.Frame, bool) { return c.src.CurrentFrame() }
