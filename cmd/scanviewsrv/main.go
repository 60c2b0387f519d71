package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "scanview.yml"
	k              = koanf.New(".")
)

func setupconfig() {
	k.Load(structs.Provider(Config{
		Addr:     ":8000",
		Displays: []DisplaySetup{DefaultDisplay()}}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `scanviewsrv serves live scan displays and exposes an HTTP interface to them.
This enables a server-client architecture, and the clients can leverage the
excellent HTTP libraries for any programming language.

Usage:
	scanviewsrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `scanviewsrv is amenable to configuration via its .yaml file.  For a primer on YAML, see
https://yaml.org/start.html

Without a configuration, the server runs a single simulated display at
/display, so it can be tried without any hardware.

No two displays can have the same Endpoint.

Endpoints may look like any variation between "omc/cam" or "/omc/cam/*", the
leading and trailing slashes, as well as the *, are added by the server if
missing.

Frame sources and matching "Type" fields, case insensitive:
- sim
	> a synthetic raster scan of a noisy blob, Width x Height pixels
	  measured at PixelsPerSecond.  Needs no hardware.
- fits
	> a 2D image loaded once from the FITS file at Path
- remote
	> a mirror of another scanviewsrv display at Addr, polled every
	  PollSeconds

Range "Mode" fields, case insensitive: manual, percentile.  In percentile
mode the bounds are taken at PercentileLow/PercentileHigh of the measured
(nonzero) pixels of the current frame; unmeasured pixels never pollute the
range.  Limits, when present, bounds the manual levels accepted over HTTP.

Builtin "Colormap" names: grayscale, inferno, magma, viridis.  A custom map
may be given instead with Positions (ascending, on [0,1]) and Colors (hex
strings like #FF0000, one per position).

Recorder.Root non-empty enables recording of downloaded legend and frame
images under dated folders; Ext selects which format is teed, fits or png.`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("scanviewsrv version %v\n", Version)
}

func run() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	mux := BuildMux(c)
	logger.Info().Str("addr", c.Addr).Int("displays", len(c.Displays)).Msg("now listening for requests")
	log.Fatal(http.ListenAndServe(c.Addr, mux))
}

func main() {
	var cmd string
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd = args[1]
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "help":
		help()
		return
	case "mkconf":
		mkconf()
		return
	case "conf":
		printconf()
		return
	case "run":
		run()
		return
	case "version":
		pversion()
		return
	default:
		log.Fatal("unknown command")
	}
}
