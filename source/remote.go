package source

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nasa-jpl/scanview/scan"

	"github.com/cenkalti/backoff"
)

// Remote mirrors the acquisition running on another scanview server by
// polling its JSON frame route.
type Remote struct {
	sync.Mutex
	url    string
	client *http.Client
	frame  scan.Frame
	have   bool
	ticker *time.Ticker
	stop   chan struct{}
}

// NewRemote returns a mirror of the server rooted at addr, polling every
// tick.  addr may be host:port or a full URL.
func NewRemote(addr string, tick time.Duration) *Remote {
	if !strings.HasPrefix(addr, "http") {
		addr = "http://" + addr
	}
	return &Remote{
		url:    strings.TrimRight(addr, "/") + "/frame?fmt=json",
		client: &http.Client{Timeout: 10 * time.Second},
		ticker: time.NewTicker(tick),
		stop:   make(chan struct{})}
}

// Start begins polling in the background.
func (r *Remote) Start() {
	go r.runner()
}

// Stop halts polling.  It may be restarted.
func (r *Remote) Stop() {
	r.stop <- struct{}{}
}

func (r *Remote) runner() {
	for {
		select {
		case <-r.ticker.C:
			err := r.fetch()
			if err != nil {
				log.Printf("error mirroring frame from %s, %q\n", r.url, err)
			}
		case <-r.stop:
			return
		}
	}
}

// fetch pulls one frame, retrying transient failures before giving up until
// the next tick.
func (r *Remote) fetch() error {
	var frm scan.Frame
	op := func() error {
		resp, err := r.client.Get(r.url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("remote returned status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&frm)
	}
	err := backoff.Retry(op, &backoff.ExponentialBackOff{
		InitialInterval:     100 * time.Millisecond,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         2 * time.Second,
		MaxElapsedTime:      10 * time.Second,
		Clock:               backoff.SystemClock})
	if err != nil {
		return err
	}
	if frm.Width*frm.Height != len(frm.Pix) {
		return fmt.Errorf("frame dims %dx%d do not match %d pixels", frm.Width, frm.Height, len(frm.Pix))
	}
	r.Lock()
	r.frame = frm
	r.have = true
	r.Unlock()
	return nil
}

// CurrentFrame returns a copy of the last mirrored frame.  It returns false
// until the first successful poll.
func (r *Remote) CurrentFrame() (scan.Frame, bool) {
	r.Lock()
	defer r.Unlock()
	if !r.have {
		return scan.Frame{}, false
	}
	return r.frame.Clone(), true
}
