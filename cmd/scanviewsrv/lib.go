package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/nasa-jpl/scanview/colormap"
	"github.com/nasa-jpl/scanview/display"
	"github.com/nasa-jpl/scanview/dynrange"
	"github.com/nasa-jpl/scanview/generichttp"
	httpdisplay "github.com/nasa-jpl/scanview/generichttp/display"
	"github.com/nasa-jpl/scanview/imgrec"
	"github.com/nasa-jpl/scanview/monitor"
	"github.com/nasa-jpl/scanview/server/middleware/locker"
	"github.com/nasa-jpl/scanview/source"
	"github.com/nasa-jpl/scanview/util"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// Minmax holds a min and max value
type Minmax struct {
	Min float64 `yaml:"Min"`
	Max float64 `yaml:"Max"`
}

// SourceSetup selects and configures the producer of scan frames for a display.
type SourceSetup struct {
	// Type is the kind of source, one of "sim", "fits", "remote"
	Type string `yaml:"Type"`

	// Path is the FITS file to serve, used when Type is fits
	Path string `yaml:"Path"`

	// Addr is the base URL of another scanviewsrv display to mirror,
	// e.g. http://localhost:8000/display, used when Type is remote
	Addr string `yaml:"Addr"`

	// PollSeconds is how often the remote display is polled for a new frame
	PollSeconds float64 `yaml:"PollSeconds"`

	// Width and Height are the frame dimensions in pixels, used when Type is sim
	Width  int `yaml:"Width"`
	Height int `yaml:"Height"`

	// PixelsPerSecond is the simulated scan rate, used when Type is sim
	PixelsPerSecond float64 `yaml:"PixelsPerSecond"`
}

// RangeSetup holds the display range a node starts with.
type RangeSetup struct {
	// Mode is the range mode at startup, "manual" or "percentile"
	Mode string `yaml:"Mode"`

	// ManualMin and ManualMax are the fixed bounds used in manual mode
	ManualMin float64 `yaml:"ManualMin"`
	ManualMax float64 `yaml:"ManualMax"`

	// PercentileLow and PercentileHigh are the centiles used in percentile
	// mode, in percent on [0,100]
	PercentileLow  float64 `yaml:"PercentileLow"`
	PercentileHigh float64 `yaml:"PercentileHigh"`

	// Limits bounds the manual levels accepted over HTTP.  Not populating
	// it in the config file leaves the levels unlimited.
	Limits *Minmax `yaml:"Limits"`
}

// LegendSetup holds the size of the colorbar legend in pixels.
type LegendSetup struct {
	Width  int `yaml:"Width"`
	Height int `yaml:"Height"`
}

// ColormapSetup selects the colormap for a display.  Positions and Colors
// describe a custom map and take precedence over Name when populated.
type ColormapSetup struct {
	// Name is a builtin colormap, e.g. "inferno"
	Name string `yaml:"Name"`

	// Positions are the stop locations of a custom map, ascending on [0,1]
	Positions []float64 `yaml:"Positions"`

	// Colors are hex strings like #FF0000, one per position
	Colors []string `yaml:"Colors"`
}

// MonitorSetup configures the signal level monitor attached to a display.
type MonitorSetup struct {
	Enabled bool `yaml:"Enabled"`

	// TickSeconds is the sampling cadence
	TickSeconds float64 `yaml:"TickSeconds"`

	// Capacity is the number of samples kept, oldest discarded first
	Capacity int `yaml:"Capacity"`
}

// RecorderSetup configures recording of images downloaded from a display.
type RecorderSetup struct {
	// Root is the folder recordings are written under, empty disables recording
	Root string `yaml:"Root"`

	// Prefix is prepended to recorded file names
	Prefix string `yaml:"Prefix"`

	// Ext is the recorded format, "fits" or "png"
	Ext string `yaml:"Ext"`

	Enabled bool `yaml:"Enabled"`
}

// DisplaySetup holds the parameters for one display node.
type DisplaySetup struct {
	// Endpoint is the URL stem the display's routes are served under,
	// ex. Endpoint="/omc/cam" will produce routes of /omc/cam/range, etc.
	Endpoint string `yaml:"Endpoint"`

	Source   SourceSetup   `yaml:"Source"`
	Range    RangeSetup    `yaml:"Range"`
	Legend   LegendSetup   `yaml:"Legend"`
	Colormap ColormapSetup `yaml:"Colormap"`
	Monitor  MonitorSetup  `yaml:"Monitor"`
	Recorder RecorderSetup `yaml:"Recorder"`
}

// Config is a struct that holds the initialization parameters for the
// server.  It is to be populated by a yaml/unmarshal call.
type Config struct {
	// Addr is the address to listen at
	Addr string `yaml:"Addr"`

	// Displays is the list of display nodes to set up
	Displays []DisplaySetup `yaml:"Displays"`
}

// DefaultDisplay returns a display node backed by the simulator, so a
// freshly minted config runs without any hardware.
func DefaultDisplay() DisplaySetup {
	return DisplaySetup{
		Endpoint: "/display",
		Source: SourceSetup{
			Type:            "sim",
			Width:           100,
			Height:          100,
			PixelsPerSecond: 2000,
			PollSeconds:     1},
		Range: RangeSetup{
			Mode:           "percentile",
			ManualMin:      0,
			ManualMax:      100,
			PercentileLow:  0,
			PercentileHigh: 100},
		Legend:   LegendSetup{Width: 100, Height: 256},
		Colormap: ColormapSetup{Name: "inferno"},
		Monitor:  MonitorSetup{Enabled: true, TickSeconds: 1, Capacity: 86400},
		Recorder: RecorderSetup{Prefix: "scan-", Ext: "fits"},
	}
}

func buildSource(s SourceSetup) display.FrameSource {
	typ := strings.ToLower(s.Type)
	switch typ {
	case "sim":
		sim := source.NewSim(s.Width, s.Height, s.PixelsPerSecond)
		sim.Start()
		return sim
	case "fits":
		f, err := source.NewFITSFile(s.Path)
		if err != nil {
			log.Fatal(err)
		}
		return f
	case "remote":
		rem := source.NewRemote(s.Addr, util.SecsToDuration(s.PollSeconds))
		rem.Start()
		return rem
	default:
		log.Fatal("source type ", typ, " not understood")
	}
	return nil
}

func buildColormap(c ColormapSetup) colormap.Map {
	if len(c.Colors) > 0 {
		name := c.Name
		if name == "" {
			name = "custom"
		}
		m, err := colormap.FromHex(name, c.Positions, c.Colors)
		if err != nil {
			log.Fatal(err)
		}
		return m
	}
	m, err := colormap.Lookup(c.Name)
	if err != nil {
		log.Fatal(err)
	}
	return m
}

// BuildMux builds one display controller per node in the config and mounts
// their routes on a chi mux.  The mux serves a special route, /endpoints,
// which returns a map of stem => routes for all nodes as JSON.
func BuildMux(c Config) chi.Router {
	// make the root handler
	root := chi.NewRouter()
	root.Use(middleware.Logger)
	supergraph := map[string][]string{}

	// for every display specified, build a submux
	for _, node := range c.Displays {
		var middleware []func(http.Handler) http.Handler

		mode, err := dynrange.ParseMode(node.Range.Mode)
		if err != nil {
			log.Fatal(err)
		}
		src := buildSource(node.Source)
		ctl := display.New(src, buildColormap(node.Colormap), display.Options{
			Width:    node.Legend.Width,
			Height:   node.Legend.Height,
			Mode:     mode,
			Manual:   dynrange.Bounds{Min: node.Range.ManualMin, Max: node.Range.ManualMax},
			Centiles: dynrange.Centiles{Low: node.Range.PercentileLow, High: node.Range.PercentileHigh},
		})

		var rec *imgrec.Recorder
		if node.Recorder.Root != "" {
			rec = &imgrec.Recorder{
				Root:    node.Recorder.Root,
				Prefix:  node.Recorder.Prefix,
				Ext:     node.Recorder.Ext,
				Enabled: node.Recorder.Enabled}
		}
		httper := httpdisplay.NewHTTPDisplay(ctl, rec)
		if rec != nil {
			wrap := imgrec.NewHTTPWrapper(rec)
			wrap.Inject(httper)
		}
		if node.Range.Limits != nil {
			limiter := httpdisplay.LimitMiddleware{Limits: util.Limiter{
				Min: node.Range.Limits.Min,
				Max: node.Range.Limits.Max}}
			limiter.Inject(httper)
			middleware = append(middleware, limiter.Check)
		}
		if node.Monitor.Enabled {
			mon := monitor.New(src, util.SecsToDuration(node.Monitor.TickSeconds), node.Monitor.Capacity)
			mon.Start()
			httper.RT()[generichttp.MethodPath{Method: http.MethodGet, Path: "/monitor"}] = mon.HTTPYield
		}

		// prepare the URL, "omc/cam" => "/omc/cam/*"
		hndlS := generichttp.SubMuxSanitize(node.Endpoint)

		// add the endpoints to the graph
		supergraph[hndlS] = httper.RT().Endpoints()

		// add a lock interface for this node
		lock := locker.New()
		locker.Inject(httper, lock)

		// bind to the mux
		r := chi.NewRouter()
		r.Use(middleware...)
		r.Use(lock.Check)
		httper.RT().Bind(r)
		root.Mount(hndlS, r)
		logger.Info().Str("endpoint", hndlS).Str("source", strings.ToLower(node.Source.Type)).Msg("mounted display")
	}
	root.Get("/endpoints", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(supergraph)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return root
}
