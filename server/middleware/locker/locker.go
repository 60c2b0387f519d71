// Package locker provides an HTTP middleware which allows an HTTPHandler to be locked, returning 423 (locked)
package locker

import (
	"net/http"
	"strings"

	"github.com/nasa-jpl/scanview/generichttp"
)

// ManipulableLock is a lock which can be engaged and released and used as
// an HTTP middleware
type ManipulableLock interface {
	// Lock the lock
	Lock()

	// Unlock the lock
	Unlock()

	// Locked returns true if the lock is engaged
	Locked() bool

	// Check is the middleware which bounces mutations while locked
	Check(http.Handler) http.Handler
}

// Inject adds a lock route to a generichttp.HTTPer which is used to manipulate the lock
func Inject(other generichttp.HTTPer, l ManipulableLock) {
	rt := other.RT()
	rt[generichttp.MethodPath{Method: http.MethodGet, Path: "/lock"}] = HTTPGet(l)
	rt[generichttp.MethodPath{Method: http.MethodPost, Path: "/lock"}] = HTTPSet(l)
}

// Locker is a type which behaves like a sync.Mutex without the blocking,
// and holds a list of routes to not protect
type Locker struct {
	isLocked bool

	// DoNotProtect is a list of paths not to apply the lock to
	DoNotProtect []string
}

// New returns a new Locker with DoNotProtect prepopulated with "lock"
func New() *Locker {
	return &Locker{DoNotProtect: []string{"lock"}}
}

// Lock the locker
func (l *Locker) Lock() {
	l.isLocked = true
}

// Unlock the locker
func (l *Locker) Unlock() {
	l.isLocked = false
}

// Locked returns true if the locker is locked
func (l *Locker) Locked() bool {
	return l.isLocked
}

// Check is an HTTP middleware that returns http.StatusLocked for mutations
// if Locked() is true, otherwise passes down the line.  Reads always pass.
func (l *Locker) Check(next http.Handler) http.Handler {
	// return a handlerfunc wrapping a handler, middleware/generator pattern
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Locked() && r.Method != http.MethodGet && r.Method != http.MethodHead {
			// check if the path is protected
			protected := true
			url := r.URL.Path
			for _, str := range l.DoNotProtect {
				if strings.Contains(url, str) {
					protected = false
				}
			}
			// if it is, bounce the request - locked
			if protected {
				w.WriteHeader(http.StatusLocked)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPSet calls Lock or Unlock based on json:bool on the request body
func HTTPSet(l ManipulableLock) http.HandlerFunc {
	return generichttp.SetBool(func(b bool) error {
		if b {
			l.Lock()
		} else {
			l.Unlock()
		}
		return nil
	})
}

// HTTPGet returns Locked() over HTTP as JSON
func HTTPGet(l ManipulableLock) http.HandlerFunc {
	return generichttp.GetBool(func() (bool, error) {
		return l.Locked(), nil
	})
}
