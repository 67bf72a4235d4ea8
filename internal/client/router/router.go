package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

// maxRedirects bounds redirect chains; the route table never needs more
// than one hop.
const maxRedirects = 4

// StateSource is the read side of the session manager.
type StateSource interface {
	State() models.SessionState
	Subscribe(fn func(models.SessionState)) (cancel func())
}

// View is the resolved location: the path now shown and what to do with it.
type View struct {
	Path     string
	Decision Decision
}

// Router keeps the current location and re-derives its decision whenever
// the location or the session changes.
type Router struct {
	source StateSource
	log    logging.Logger

	mu        sync.Mutex
	location  string
	current   View
	listeners []func(View)
}

func New(source StateSource, log logging.Logger) *Router {
	if log == nil {
		log = logging.Nop()
	}
	r := &Router{source: source, log: log, location: PathLanding}
	r.current = View{Path: PathLanding, Decision: Resolve(source.State(), PathLanding)}
	return r
}

// Start follows session changes until the returned func is called.
func (r *Router) Start() (stop func()) {
	return r.source.Subscribe(func(s models.SessionState) {
		r.refresh(s, false)
	})
}

// Navigate moves to path and re-renders even if nothing changed.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	r.location = Normalize(path)
	r.mu.Unlock()
	r.refresh(r.source.State(), true)
}

// Current returns the resolved view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnChange registers fn for view changes. fn runs without the router lock
// and may call Navigate.
func (r *Router) OnChange(fn func(View)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
	idx := len(r.listeners) - 1

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if idx < len(r.listeners) {
			r.listeners[idx] = nil
		}
	}
}

func (r *Router) refresh(state models.SessionState, force bool) {
	r.mu.Lock()

	path := r.location
	d := Resolve(state, path)
	for hops := 0; d.Action == ActionRedirect; hops++ {
		if hops == maxRedirects {
			r.log.Error(context.Background(), "redirect loop", "path", r.location)
			break
		}
		r.log.Debug(context.Background(), "redirect", "from", path, "to", d.Redirect, "status", state.Status().String())
		path = d.Redirect
		d = Resolve(state, path)
	}
	r.location = path

	next := View{Path: path, Decision: d}
	changed := next != r.current
	r.current = next

	var listeners []func(View)
	if changed || force {
		listeners = make([]func(View), 0, len(r.listeners))
		for _, fn := range r.listeners {
			if fn != nil {
				listeners = append(listeners, fn)
			}
		}
	}
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
