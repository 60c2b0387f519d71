package imgrec

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nasa-jpl/scanview/generichttp"
)

func datedFolder() string {
	now := time.Now()
	return fmt.Sprintf("%04d-%02d-%02d", now.Year(), now.Month(), now.Day())
}

func TestWriteCreatesDatedFolder(t *testing.T) {
	root := t.TempDir()
	r := &Recorder{Root: root, Prefix: "scan-"}
	_, err := r.Write([]byte("payload"))
	if err != nil {
		t.Fatalf("write error %v", err)
	}
	fn := filepath.Join(root, datedFolder(), "scan-000000.fits")
	if _, err := os.Stat(fn); err != nil {
		t.Errorf("expected %s to exist, got %v", fn, err)
	}
}

func TestWriteAppendsWithinOneImage(t *testing.T) {
	root := t.TempDir()
	r := &Recorder{Root: root, Prefix: "s"}
	r.Write([]byte("ab"))
	r.Write([]byte("cd"))
	fn := filepath.Join(root, datedFolder(), "s000000.fits")
	raw, err := os.ReadFile(fn)
	if err != nil {
		t.Fatalf("read error %v", err)
	}
	if string(raw) != "abcd" {
		t.Errorf("expected streamed chunks to append, got %q", raw)
	}
}

func TestIncrSequencesFilenames(t *testing.T) {
	root := t.TempDir()
	r := &Recorder{Root: root, Prefix: "img-", Ext: "png"}
	r.Write([]byte("a"))
	r.Incr()
	r.Write([]byte("b"))
	fn := filepath.Join(root, datedFolder(), "img-000001.png")
	if _, err := os.Stat(fn); err != nil {
		t.Errorf("expected %s to exist, got %v", fn, err)
	}
}

func TestIncrIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	r := &Recorder{Root: root, Prefix: "img-", Ext: "png"}
	r.updateFolder()
	dn, _ := r.mkDir()
	os.WriteFile(filepath.Join(dn, "img-000007.fits"), []byte("x"), 0o644)
	r.Incr()
	if r.counter != 1 {
		t.Errorf("expected foreign extensions to be skipped, counter is %d", r.counter)
	}
}

func TestExtensionDefaults(t *testing.T) {
	r := &Recorder{}
	if r.Extension() != "fits" {
		t.Errorf("expected the default extension to be fits, got %s", r.Extension())
	}
	r.Ext = ".png"
	if r.Extension() != "png" {
		t.Errorf("expected the dot to be stripped, got %s", r.Extension())
	}
}

type rtHolder struct {
	rt generichttp.RouteTable
}

func (h rtHolder) RT() generichttp.RouteTable { return h.rt }

func TestInjectAddsAutowriteRoutes(t *testing.T) {
	r := &Recorder{}
	wrap := NewHTTPWrapper(r)
	holder := rtHolder{rt: generichttp.RouteTable{}}
	wrap.Inject(holder)
	want := []string{
		"/autowrite/root",
		"/autowrite/prefix",
		"/autowrite/ext",
		"/autowrite/enabled",
	}
	for _, path := range want {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			mp := generichttp.MethodPath{Method: method, Path: path}
			if _, ok := holder.rt[mp]; !ok {
				t.Errorf("expected %s %s to be injected", method, path)
			}
		}
	}
}

func TestHTTPWrapperSetExt(t *testing.T) {
	r := &Recorder{Ext: "fits"}
	wrap := NewHTTPWrapper(r)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/autowrite/ext", strings.NewReader(`{"str": "png"}`))
	wrap.SetExt(w, req)
	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if r.Extension() != "png" {
		t.Errorf("expected the extension to be updated, got %s", r.Extension())
	}
}
