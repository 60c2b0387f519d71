package scan_test

import (
	"testing"

	"github.com/nasa-jpl/scanview/scan"
)

func TestAtSetRoundTrip(t *testing.T) {
	f := scan.NewFrame(4, 3)
	f.Set(2, 1, 7.5)
	if out := f.At(2, 1); out != 7.5 {
		t.Errorf("expected 7.5 got %v", out)
	}
	if out := f.Pix[1*4+2]; out != 7.5 {
		t.Errorf("expected strided layout to place (2,1) at index 6, got %v", out)
	}
}

func TestCloneIsIsolated(t *testing.T) {
	f := scan.NewFrame(2, 2)
	f.Set(0, 0, 1)
	c := f.Clone()
	c.Set(0, 0, 99)
	if f.At(0, 0) != 1 {
		t.Errorf("expected original to be unchanged after mutating clone, got %v", f.At(0, 0))
	}
}

func TestNonzeroExcludesUnmeasured(t *testing.T) {
	f := scan.NewFrame(3, 1)
	f.Set(1, 0, 2.5)
	vals := f.Nonzero()
	if len(vals) != 1 || vals[0] != 2.5 {
		t.Errorf("expected only the measured sample, got %v", vals)
	}
}

func TestEmpty(t *testing.T) {
	var f scan.Frame
	if !f.Empty() {
		t.Errorf("expected zero value frame to be empty")
	}
	if scan.NewFrame(1, 1).Empty() {
		t.Errorf("expected 1x1 frame to be nonempty")
	}
}

func TestStats(t *testing.T) {
	f := scan.NewFrame(3, 2)
	for i, v := range []float64{0, 2, 4, 0, 6, 0} {
		f.Pix[i] = v
	}
	s := scan.Stats(f)
	if s.Samples != 3 {
		t.Errorf("expected 3 samples got %d", s.Samples)
	}
	if s.Min != 2 || s.Max != 6 {
		t.Errorf("expected extrema (2, 6) got (%v, %v)", s.Min, s.Max)
	}
	if s.Mean != 4 {
		t.Errorf("expected mean 4 got %v", s.Mean)
	}
	if s.StdDev != 2 {
		t.Errorf("expected standard deviation 2 got %v", s.StdDev)
	}
}

func TestStatsAllUnmeasured(t *testing.T) {
	s := scan.Stats(scan.NewFrame(4, 4))
	if s.Samples != 0 {
		t.Errorf("expected no samples, got %d", s.Samples)
	}
}

func TestStatsSingleSampleHasZeroStdDev(t *testing.T) {
	f := scan.NewFrame(2, 1)
	f.Set(0, 0, 5)
	s := scan.Stats(f)
	if s.StdDev != 0 {
		t.Errorf("expected stddev 0 for a single sample, got %v", s.StdDev)
	}
	if s.Min != 5 || s.Max != 5 || s.Mean != 5 {
		t.Errorf("expected all statistics to equal the single sample, got %+v", s)
	}
}
