/*Package source contains producers of scan frames: a simulator, FITS files
on disk, and remote scanview servers.

Frames from every source follow the same convention: a pixel that has not
been measured yet holds exactly zero, and a measured pixel holds a strictly
positive signal level.

*/
package source

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/nasa-jpl/scanview/scan"

	"golang.org/x/time/rate"
)

const (
	simBaseline = 150. // resting count level of the detector
	simNoise    = 25.  // peak to peak noise amplitude, counts
)

// Sim is a simulated scanning acquisition.  It rasters through the frame at
// a fixed pixel rate, measuring a Gaussian blob over a noisy baseline, and
// begins a fresh scan when the raster completes.
type Sim struct {
	sync.Mutex
	frame   scan.Frame
	cursor  int
	limiter *rate.Limiter
	cancel  context.CancelFunc
	cx      float64
	cy      float64
	sigma   float64
	amp     float64
}

// NewSim returns a simulator scanning a width x height grid at
// pixelsPerSecond.
func NewSim(width, height int, pixelsPerSecond float64) *Sim {
	s := &Sim{
		frame:   scan.NewFrame(width, height),
		limiter: rate.NewLimiter(rate.Limit(pixelsPerSecond), 1)}
	s.replaceBlob()
	return s
}

// replaceBlob draws new blob parameters so each scan images a different spot.
func (s *Sim) replaceBlob() {
	w := float64(s.frame.Width)
	h := float64(s.frame.Height)
	s.cx = w * (0.25 + 0.5*rand.Float64())
	s.cy = h * (0.25 + 0.5*rand.Float64())
	s.sigma = (w + h) / 12
	s.amp = 2000 + 4000*rand.Float64()
}

// step measures one pixel and advances the raster.
func (s *Sim) step() {
	s.Lock()
	defer s.Unlock()
	if s.cursor == len(s.frame.Pix) {
		s.frame = scan.NewFrame(s.frame.Width, s.frame.Height)
		s.cursor = 0
		s.replaceBlob()
	}
	x := float64(s.cursor % s.frame.Width)
	y := float64(s.cursor / s.frame.Width)
	dx := x - s.cx
	dy := y - s.cy
	v := simBaseline + s.amp*math.Exp(-(dx*dx+dy*dy)/(2*s.sigma*s.sigma))
	v += simNoise * (rand.Float64() - 0.5)
	s.frame.Pix[s.cursor] = v
	s.cursor++
}

// CurrentFrame returns a copy of the scan in progress.  It returns false
// before the first pixel has been measured.
func (s *Sim) CurrentFrame() (scan.Frame, bool) {
	s.Lock()
	defer s.Unlock()
	if s.cursor == 0 {
		return scan.Frame{}, false
	}
	return s.frame.Clone(), true
}

// Start begins scanning in the background.  Calling Start on a running
// simulator does nothing.
func (s *Sim) Start() {
	s.Lock()
	defer s.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.runner(ctx)
}

// Stop halts the scan where it is.  It may be restarted.
func (s *Sim) Stop() {
	s.Lock()
	defer s.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Sim) runner(ctx context.Context) {
	for {
		err := s.limiter.Wait(ctx)
		if err != nil {
			return
		}
		s.step()
	}
}
