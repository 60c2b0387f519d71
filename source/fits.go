package source

import (
	"fmt"
	"io"
	"os"

	"github.com/nasa-jpl/scanview/scan"

	"github.com/astrogo/fitsio"
)

// ReadFrame decodes the primary HDU of a FITS stream into a frame.  Integer
// and floating point images up to 64 bits are supported.
func ReadFrame(r io.Reader) (scan.Frame, error) {
	var frm scan.Frame
	f, err := fitsio.Open(r)
	if err != nil {
		return frm, err
	}
	defer f.Close()
	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return frm, fmt.Errorf("fits: primary HDU is not an image")
	}
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return frm, fmt.Errorf("fits: expected a 2D image, got %d axes", len(axes))
	}
	frm = scan.NewFrame(axes[0], axes[1])
	switch bp := hdr.Bitpix(); bp {
	case 16:
		buf := make([]int16, len(frm.Pix))
		if err := img.Read(&buf); err != nil {
			return frm, err
		}
		for i, v := range buf {
			frm.Pix[i] = float64(v)
		}
	case 32:
		buf := make([]int32, len(frm.Pix))
		if err := img.Read(&buf); err != nil {
			return frm, err
		}
		for i, v := range buf {
			frm.Pix[i] = float64(v)
		}
	case -32:
		buf := make([]float32, len(frm.Pix))
		if err := img.Read(&buf); err != nil {
			return frm, err
		}
		for i, v := range buf {
			frm.Pix[i] = float64(v)
		}
	case -64:
		buf := make([]float64, len(frm.Pix))
		if err := img.Read(&buf); err != nil {
			return frm, err
		}
		copy(frm.Pix, buf)
	default:
		return frm, fmt.Errorf("fits: unsupported bitpix %d", bp)
	}
	return frm, nil
}

// FITSFile serves a single frame loaded from a FITS file on disk.
type FITSFile struct {
	frame scan.Frame
}

// NewFITSFile loads the primary HDU of the file at path.
func NewFITSFile(path string) (*FITSFile, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	frm, err := ReadFrame(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &FITSFile{frame: frm}, nil
}

// CurrentFrame returns a copy of the loaded frame.
func (f *FITSFile) CurrentFrame() (scan.Frame, bool) {
	return f.frame.Clone(), true
}
