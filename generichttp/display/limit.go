package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/nasa-jpl/scanview/generichttp"
	"github.com/nasa-jpl/scanview/util"
)

var (
	errLimited = errors.New("requested level violates server display limits, aborted")
)

// LimitMiddleware is a type that can impose server imposed limits on manual
// range bounds.  It stops the chain of handling calls when a bound outside
// the limits is requested.
type LimitMiddleware struct {
	// Limits contains the server imposed limits on manual range values
	Limits util.Limiter
}

// Check verifies if a manual bound edit would violate the limit, and if it
// does, responds with StatusBadRequest.
// Otherwise, flows control to the next handler.
func (l *LimitMiddleware) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.String(), "/range/manual") || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		f := generichttp.FloatT{}
		// downstream functions want the body...
		// read it all here, then "paste" it back with ioutil
		bodyContent, _ := ioutil.ReadAll(r.Body)
		defer r.Body.Close()
		r.Body = ioutil.NopCloser(bytes.NewBuffer(bodyContent))
		err := json.NewDecoder(bytes.NewReader(bodyContent)).Decode(&f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !l.Limits.Check(f.F64) {
			http.Error(w, errLimited.Error(), http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Inject places a /range/limits route on the table of the HTTPer
func (l LimitMiddleware) Inject(h generichttp.HTTPer) {
	h.RT()[generichttp.MethodPath{Method: http.MethodGet, Path: "/range/limits"}] = Limits(l)
}

// Limits returns an HTTP handler func that returns the limits
func Limits(l LimitMiddleware) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(l.Limits)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
