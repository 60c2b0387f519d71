// Package display exposes control of scan display controllers over HTTP:
// the resolved display range, its mode and parameters, the colorbar legend,
// and falsecolor renders of the frame itself.
package display

import (
	"encoding/json"
	"go/types"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/nasa-jpl/scanview/colormap"
	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/generichttp"
	"github.com/nasa-jpl/scanview/imgrec"
	"github.com/nasa-jpl/scanview/render"
	"github.com/nasa-jpl/scanview/scan"
	"github.com/nasa-jpl/scanview/util"
)

// Display is the set of operations the HTTP layer drives on a display
// controller.
type Display interface {
	// Refresh recomputes the range from the latest frame
	Refresh()

	// SetMode switches between manual and percentile scaling
	SetMode(dynrange.Mode)

	// Mode returns the active scaling mode
	Mode() dynrange.Mode

	// SetManualMin edits the lower manual bound
	SetManualMin(float64)

	// SetManualMax edits the upper manual bound
	SetManualMax(float64)

	// Manual returns the manual bounds
	Manual() dynrange.Bounds

	// SetCentileLow edits the low percentile
	SetCentileLow(float64)

	// SetCentileHigh edits the high percentile
	SetCentileHigh(float64)

	// Centiles returns the percentile parameters
	Centiles() dynrange.Centiles

	// SetColormap swaps the gradient
	SetColormap(colormap.Map)

	// Colormap returns the active gradient
	Colormap() colormap.Map

	// Resize changes the legend geometry
	Resize(int, int)

	// DisplayRange returns the resolved range driving the views
	DisplayRange() dynrange.Range

	// Legend returns the colorbar raster
	Legend() *image.NRGBA

	// Frame returns the current frame snapshot
	Frame() (scan.Frame, bool)
}

// HTTPDisplay wraps a display controller with an HTTP route table.  The
// controller itself is not safe for concurrent use; the wrapper serializes
// access with its embedded mutex.
type HTTPDisplay struct {
	sync.Mutex

	d Display

	rec *imgrec.Recorder

	route generichttp.RouteTable
}

// NewHTTPDisplay returns a new HTTP wrapper around an existing display
// controller.  rec may be nil, in which case no files are recorded.
func NewHTTPDisplay(d Display, rec *imgrec.Recorder) *HTTPDisplay {
	h := &HTTPDisplay{d: d, rec: rec}
	rt := generichttp.RouteTable{}
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/range"}] = h.GetRange
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/range/mode"}] = h.GetMode
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/range/mode"}] = h.SetMode

	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/range/manual/min"}] = h.GetManualMin
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/range/manual/min"}] = h.SetManualMin
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/range/manual/max"}] = h.GetManualMax
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/range/manual/max"}] = h.SetManualMax

	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/range/percentile/low"}] = h.GetCentileLow
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/range/percentile/low"}] = h.SetCentileLow
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/range/percentile/high"}] = h.GetCentileHigh
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/range/percentile/high"}] = h.SetCentileHigh

	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/legend"}] = h.GetLegend
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/legend/size"}] = h.SetLegendSize

	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/frame"}] = h.GetFrame
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/refresh"}] = h.Refresh
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/stats"}] = h.GetStats

	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/colormap"}] = h.GetColormap
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/colormap"}] = h.SetColormap
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/colormap/options"}] = h.GetColormapOptions
	h.route = rt
	return h
}

// RT satisfies the generichttp.HTTPer interface
func (h *HTTPDisplay) RT() generichttp.RouteTable {
	return h.route
}

// GetRange returns the resolved display range as JSON on a GET request
func (h *HTTPDisplay) GetRange(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	rng := h.d.DisplayRange()
	h.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(rng)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetMode returns the scaling mode as json {'str': "percentile"}
func (h *HTTPDisplay) GetMode(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	m := h.d.Mode()
	h.Unlock()
	hp := generichttp.HumanPayload{T: types.String, String: m.String()}
	hp.EncodeAndRespond(w, r)
}

// SetMode switches the scaling mode from json {'str': "manual"}
func (h *HTTPDisplay) SetMode(w http.ResponseWriter, r *http.Request) {
	str := generichttp.StrT{}
	err := json.NewDecoder(r.Body).Decode(&str)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := dynrange.ParseMode(str.Str)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Lock()
	h.d.SetMode(m)
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetManualMin returns the lower manual bound as json {'f64': value}
func (h *HTTPDisplay) GetManualMin(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	man := h.d.Manual()
	h.Unlock()
	hp := generichttp.HumanPayload{T: types.Float64, Float: man.Min}
	hp.EncodeAndRespond(w, r)
}

// SetManualMin edits the lower manual bound; the mode follows the edit
func (h *HTTPDisplay) SetManualMin(w http.ResponseWriter, r *http.Request) {
	f := generichttp.FloatT{}
	err := json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Lock()
	h.d.SetManualMin(f.F64)
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetManualMax returns the upper manual bound as json {'f64': value}
func (h *HTTPDisplay) GetManualMax(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	man := h.d.Manual()
	h.Unlock()
	hp := generichttp.HumanPayload{T: types.Float64, Float: man.Max}
	hp.EncodeAndRespond(w, r)
}

// SetManualMax edits the upper manual bound; the mode follows the edit
func (h *HTTPDisplay) SetManualMax(w http.ResponseWriter, r *http.Request) {
	f := generichttp.FloatT{}
	err := json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Lock()
	h.d.SetManualMax(f.F64)
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetCentileLow returns the low percentile as json {'f64': value}
func (h *HTTPDisplay) GetCentileLow(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	cen := h.d.Centiles()
	h.Unlock()
	hp := generichttp.HumanPayload{T: types.Float64, Float: cen.Low}
	hp.EncodeAndRespond(w, r)
}

// SetCentileLow edits the low percentile, clamped to [0, 100]
func (h *HTTPDisplay) SetCentileLow(w http.ResponseWriter, r *http.Request) {
	f := generichttp.FloatT{}
	err := json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Lock()
	h.d.SetCentileLow(util.Clamp(f.F64, 0, 100))
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetCentileHigh returns the high percentile as json {'f64': value}
func (h *HTTPDisplay) GetCentileHigh(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	cen := h.d.Centiles()
	h.Unlock()
	hp := generichttp.HumanPayload{T: types.Float64, Float: cen.High}
	hp.EncodeAndRespond(w, r)
}

// SetCentileHigh edits the high percentile, clamped to [0, 100]
func (h *HTTPDisplay) SetCentileHigh(w http.ResponseWriter, r *http.Request) {
	f := generichttp.FloatT{}
	err := json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Lock()
	h.d.SetCentileHigh(util.Clamp(f.F64, 0, 100))
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetLegend returns the colorbar legend on a GET request.
//
// The format may be specified in the fmt query parameter, png (default) or
// jpg.  width and height query parameters render a one-off legend at that
// size without changing the controller's geometry.
func (h *HTTPDisplay) GetLegend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.Lock()
	legend := h.d.Legend()
	cm := h.d.Colormap()
	rng := h.d.DisplayRange()
	h.Unlock()
	if q.Get("width") != "" || q.Get("height") != "" {
		width, err := strconv.Atoi(q.Get("width"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		height, err := strconv.Atoi(q.Get("height"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		legend = render.Colorbar(cm, rng, width, height)
	}
	format := q.Get("fmt")
	if format == "" {
		format = "png"
	}
	switch format {
	case "png":
		var w2 io.Writer = w
		if h.recording("png") {
			w2 = io.MultiWriter(w, h.rec)
			defer h.rec.Incr()
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		png.Encode(w2, legend)
	case "jpg":
		var w2 io.Writer = w
		if h.recording("jpg") {
			w2 = io.MultiWriter(w, h.rec)
			defer h.rec.Incr()
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
		jpeg.Encode(w2, legend, nil)
	default:
		http.Error(w, "fmt "+format+" not understood", http.StatusBadRequest)
	}
}

// SetLegendSize changes the legend geometry from width and height query
// parameters
func (h *HTTPDisplay) SetLegendSize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, err := strconv.Atoi(q.Get("width"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := strconv.Atoi(q.Get("height"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Lock()
	h.d.Resize(width, height)
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetFrame returns the current frame on a GET request.
//
// The format may be specified in the fmt query parameter, one of png, jpg,
// fits, or json; default png.  The raster formats are falsecolor renders
// through the active colormap and range; fits carries the raw measurement
// and json the raw frame struct.
func (h *HTTPDisplay) GetFrame(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	f, ok := h.d.Frame()
	cm := h.d.Colormap()
	rng := h.d.DisplayRange()
	h.Unlock()
	if !ok {
		http.Error(w, "no frame available yet", http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("fmt")
	if format == "" {
		format = "png"
	}
	switch format {
	case "png":
		im := render.Falsecolor(f, cm, rng)
		var w2 io.Writer = w
		if h.recording("png") {
			w2 = io.MultiWriter(w, h.rec)
			defer h.rec.Incr()
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		png.Encode(w2, im)
	case "jpg":
		im := render.Falsecolor(f, cm, rng)
		var w2 io.Writer = w
		if h.recording("jpg") {
			w2 = io.MultiWriter(w, h.rec)
			defer h.rec.Incr()
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
		jpeg.Encode(w2, im, nil)
	case "fits":
		var w2 io.Writer = w
		if h.recording("fits") {
			w2 = io.MultiWriter(w, h.rec)
			defer h.rec.Incr()
		}
		hdr := w.Header()
		hdr.Set("Content-Type", "image/fits")
		hdr.Set("Content-Disposition", "attachment; filename=scan.fits")
		err := writeFrameFITS(w2, f, rng, cm.Name())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	default:
		http.Error(w, "fmt "+format+" not understood", http.StatusBadRequest)
	}
}

// recording answers whether the recorder should tee output of the given
// format
func (h *HTTPDisplay) recording(format string) bool {
	return h.rec != nil && h.rec.Enabled && h.rec.Root != "" && h.rec.Extension() == format
}

// Refresh recomputes the range from the latest frame on a POST request
func (h *HTTPDisplay) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	h.d.Refresh()
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetStats returns summary statistics of the measured points as JSON
func (h *HTTPDisplay) GetStats(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	f, ok := h.d.Frame()
	h.Unlock()
	if !ok {
		http.Error(w, "no frame available yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(scan.Stats(f))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetColormap returns the active colormap name as json {'str': "inferno"}
func (h *HTTPDisplay) GetColormap(w http.ResponseWriter, r *http.Request) {
	h.Lock()
	name := h.d.Colormap().Name()
	h.Unlock()
	hp := generichttp.HumanPayload{T: types.String, String: name}
	hp.EncodeAndRespond(w, r)
}

// SetColormap swaps the active colormap from json {'str': "viridis"}
func (h *HTTPDisplay) SetColormap(w http.ResponseWriter, r *http.Request) {
	str := generichttp.StrT{}
	err := json.NewDecoder(r.Body).Decode(&str)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := colormap.Lookup(str.Str)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Lock()
	h.d.SetColormap(m)
	h.Unlock()
	w.WriteHeader(http.StatusOK)
}

// GetColormapOptions returns the names of the built in colormaps as JSON
func (h *HTTPDisplay) GetColormapOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(colormap.Names())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
