// Package dynrange derives the display range of a scan map: the numeric
// interval mapped onto a color gradient's extremes.  The range comes either
// from user-entered manual bounds or from percentiles of the measured
// (nonzero) samples.
package dynrange

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nasa-jpl/scanview/mathx"
	"github.com/nasa-jpl/scanview/scan"
)

// Mode selects how the display range is derived.  The zero value is
// ModePercentile (autoscaling).
type Mode int

const (
	// ModePercentile derives the range from percentiles of the measured samples
	ModePercentile Mode = iota

	// ModeManual uses user-entered bounds verbatim
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModePercentile:
		return "percentile"
	case ModeManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode, case insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "percentile":
		return ModePercentile, nil
	case "manual":
		return ModeManual, nil
	default:
		return ModePercentile, fmt.Errorf("unknown range mode %q", s)
	}
}

// Bounds are manual display bounds in the sample's physical unit.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Centiles are percentile parameters, each in [0,100] with Low <= High.
// Callers validate before handing them to Compute.
type Centiles struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Range is the resolved display range.  It is a derived value, recomputed
// from its inputs each time and never stored as primary state.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Compute resolves the display range for a frame.
//
// In ModeManual, or when the frame has no measured (nonzero) samples, the
// manual bounds are returned unchanged; an unmeasured frame is an expected
// state, not an error.  Otherwise the low and high centiles of the measured
// samples become the range, interpolated linearly between closest ranks.  A
// single measured sample yields Min == Max, which is legal.
//
// Compute is pure: it does not mutate the frame and holds no state between
// calls.
func Compute(f scan.Frame, mode Mode, man Bounds, cen Centiles) Range {
	if mode == ModeManual {
		return Range{Min: man.Min, Max: man.Max}
	}
	vals := f.Nonzero()
	if len(vals) == 0 {
		return Range{Min: man.Min, Max: man.Max}
	}
	sort.Float64s(vals)
	return Range{
		Min: mathx.PercentileSorted(vals, cen.Low),
		Max: mathx.PercentileSorted(vals, cen.High),
	}
}
