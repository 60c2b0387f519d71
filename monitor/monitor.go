/*Package monitor contains the machinery for a signal level monitor.

It samples the mean and peak of the measured points in the current scan
frame every <duration> and stores up to N of them to return over HTTP.

*/
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/nasa-jpl/scanview/scan"

	"github.com/brandondube/ringo"
)

// FrameSource is the monitor's view of an acquisition; CurrentFrame returns
// the latest snapshot and false when no frame exists yet.
type FrameSource interface {
	CurrentFrame() (scan.Frame, bool)
}

// Monitor stores ring buffers of mean and peak signal level and can serve
// the slices over HTTP.
type Monitor struct {
	sync.Mutex
	mean   ringo.CircleF64
	peak   ringo.CircleF64
	time   ringo.CircleTime
	src    FrameSource
	ticker *time.Ticker
	stop   chan struct{}
}

type trace struct {
	Mean *[]float64   `json:"mean"`
	Peak *[]float64   `json:"peak"`
	Time *[]time.Time `json:"timestamp"`
}

// New creates a new Monitor and initializes the internal machinery.
func New(src FrameSource, tick time.Duration, capacity int) *Monitor {
	mean := ringo.CircleF64{}
	mean.Init(capacity)
	peak := ringo.CircleF64{}
	peak.Init(capacity)
	times := ringo.CircleTime{}
	times.Init(capacity)
	return &Monitor{
		mean:   mean,
		peak:   peak,
		time:   times,
		src:    src,
		ticker: time.NewTicker(tick),
		stop:   make(chan struct{})}
}

// Start triggers operation of the monitor.
func (m *Monitor) Start() {
	go m.runner()
}

// Stop kills the monitor.  It may be restarted.
func (m *Monitor) Stop() {
	m.stop <- struct{}{}
}

func (m *Monitor) runner() {
	for {
		select {
		case t := <-m.ticker.C:
			m.sample(t)
		case <-m.stop:
			return
		}
	}
}

// sample takes one measurement.  Frames with no measured points are skipped;
// an interrupted scan leaves a gap in the trace rather than a bogus zero.
func (m *Monitor) sample(t time.Time) {
	f, ok := m.src.CurrentFrame()
	if !ok {
		return
	}
	s := scan.Stats(f)
	if s.Samples == 0 {
		return
	}
	m.Lock()
	m.time.Append(t)
	m.mean.Append(s.Mean)
	m.peak.Append(s.Max)
	m.Unlock()
}

// HTTPYield returns an object over HTTP which contains arrays of mean, peak,
// and timestamps.
func (m *Monitor) HTTPYield(w http.ResponseWriter, r *http.Request) {
	m.Lock()
	defer m.Unlock()
	bufMean := m.mean.Contiguous()
	bufPeak := m.peak.Contiguous()
	bufTime := m.time.Contiguous()
	s := trace{
		Mean: &bufMean,
		Peak: &bufPeak,
		Time: &bufTime}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(s)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
