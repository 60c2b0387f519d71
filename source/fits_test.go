package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
)

func writeFITS(t *testing.T, bitpix int, dims []int, data interface{}) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	f, err := fitsio.Create(buf)
	if err != nil {
		t.Fatalf("create error %v", err)
	}
	im := fitsio.NewImage(bitpix, dims)
	err = im.Write(data)
	if err != nil {
		t.Fatalf("image write error %v", err)
	}
	err = f.Write(im)
	if err != nil {
		t.Fatalf("file write error %v", err)
	}
	im.Close()
	f.Close()
	return buf.Bytes()
}

func TestReadFrameRoundTripsFloat64(t *testing.T) {
	want := []float64{0, 1.5, 2.5, 0, 4.5, 5.5}
	raw := writeFITS(t, -64, []int{3, 2}, want)
	frm, err := ReadFrame(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read error %v", err)
	}
	if frm.Width != 3 || frm.Height != 2 {
		t.Fatalf("expected a 3x2 frame, got %dx%d", frm.Width, frm.Height)
	}
	for i := range want {
		if frm.Pix[i] != want[i] {
			t.Errorf("expected pixel %d to be %v, got %v", i, want[i], frm.Pix[i])
		}
	}
}

func TestReadFrameConvertsInt16(t *testing.T) {
	raw := writeFITS(t, 16, []int{2, 2}, []int16{0, 7, 0, 1000})
	frm, err := ReadFrame(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read error %v", err)
	}
	if frm.Pix[1] != 7 || frm.Pix[3] != 1000 {
		t.Errorf("expected converted pixels (7, 1000), got (%v, %v)", frm.Pix[1], frm.Pix[3])
	}
}

func TestReadFrameRejectsCube(t *testing.T) {
	raw := writeFITS(t, -64, []int{2, 2, 2}, make([]float64, 8))
	_, err := ReadFrame(bytes.NewReader(raw))
	if err == nil {
		t.Errorf("expected an error for a 3D image")
	}
}

func TestFITSFileServesClones(t *testing.T) {
	raw := writeFITS(t, -64, []int{2, 2}, []float64{1, 2, 3, 4})
	path := filepath.Join(t.TempDir(), "scan.fits")
	err := os.WriteFile(path, raw, 0o644)
	if err != nil {
		t.Fatalf("setup error %v", err)
	}
	src, err := NewFITSFile(path)
	if err != nil {
		t.Fatalf("load error %v", err)
	}
	f, ok := src.CurrentFrame()
	if !ok {
		t.Fatalf("expected a frame from a loaded file")
	}
	f.Pix[0] = -100
	g, _ := src.CurrentFrame()
	if g.Pix[0] != 1 {
		t.Errorf("expected the stored frame to be isolated from callers, got %v", g.Pix[0])
	}
}
