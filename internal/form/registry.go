package form

import (
	"sync"
	"time"
)

// Registry keeps the currently mounted form view of every visitor.
type Registry struct {
	generator Generator
	timeout   time.Duration

	mu    sync.Mutex
	views map[string]*mountedView
}

type mountedView struct {
	controller *Controller
	touched    time.Time
}

func NewRegistry(generator Generator, timeout time.Duration) *Registry {
	return &Registry{
		generator: generator,
		timeout:   timeout,
		views:     map[string]*mountedView{},
	}
}

// Mount replaces the visitor's view with a fresh one. The previous view is closed,
// which cancels its in-flight request.
func (r *Registry) Mount(visitorID string) *Controller {
	c := NewController(r.generator, r.timeout)

	r.mu.Lock()
	prev := r.views[visitorID]
	r.views[visitorID] = &mountedView{controller: c, touched: time.Now()}
	r.mu.Unlock()

	if prev != nil {
		prev.controller.Close()
	}
	return c
}

// Current returns the mounted view, mounting one if the visitor has none.
// It never replaces an existing view.
func (r *Registry) Current(visitorID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views[visitorID]; ok {
		v.touched = time.Now()
		return v.controller
	}
	c := NewController(r.generator, r.timeout)
	r.views[visitorID] = &mountedView{controller: c, touched: time.Now()}
	return c
}

// Lookup returns the mounted view without creating one.
func (r *Registry) Lookup(visitorID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[visitorID]
	if !ok {
		return nil, false
	}
	return v.controller, true
}

// Unmount closes and forgets the visitor's view.
func (r *Registry) Unmount(visitorID string) {
	r.mu.Lock()
	v := r.views[visitorID]
	delete(r.views, visitorID)
	r.mu.Unlock()

	if v != nil {
		v.controller.Close()
	}
}

// Sweep unmounts idle views that are not busy and returns how many were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	r.mu.Lock()
	var stale []*Controller
	for id, v := range r.views {
		if v.touched.Before(cutoff) && !v.controller.Busy() {
			stale = append(stale, v.controller)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
