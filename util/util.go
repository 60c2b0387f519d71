// Package util contains misc internal utilities.
package util

import (
	"time"

	"github.com/nasa-jpl/scanview/mathx"
)

// Clamp restricts v to the range [low, high]
func Clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// Limiter is a pair of software limits.  The zero value passes everything.
type Limiter struct {
	// Min is the lower limit
	Min float64 `json:"min" yaml:"Min"`

	// Max is the upper limit
	Max float64 `json:"max" yaml:"Max"`
}

// Check returns true if v is within the limits
func (l Limiter) Check(v float64) bool {
	if l.Min == 0 && l.Max == 0 {
		return true
	}
	return l.Min <= v && v <= l.Max
}

// SecsToDuration converts a floating point number of seconds to a time.Duration
func SecsToDuration(secs float64) time.Duration {
	return time.Duration(mathx.Round(secs*1e9, 1)) * time.Nanosecond
}
