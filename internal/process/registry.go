// Package process owns the external helper processes, one per download URL.
package process

import (
	"sort"
	"sync"

	"github.com/datallboy/toolfetch/internal/domain"
)

// Registry maps a download URL to at most one Handle.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

func (r *Registry) Get(url string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[url]
	return h, ok
}

func (r *Registry) Put(url string, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[url] = h
}

func (r *Registry) Remove(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, url)
}

// RemoveIf evicts url only while it still maps to h, so a finishing run
// never evicts a newer one for the same URL.
func (r *Registry) RemoveIf(url string, h *Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.handles[url]; ok && cur == h {
		delete(r.handles, url)
		return true
	}
	return false
}

// Acquire looks up or creates the handle for url and reserves it for a new
// run. Lookup, creation and the running check happen under one lock, so two
// concurrent callers can never both win. A running handle is returned with
// domain.ErrDownloadInProgress and left untouched.
func (r *Registry) Acquire(url string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[url]
	if !ok {
		h = NewHandle(url)
		r.handles[url] = h
	}

	if !h.reserve() {
		return h, domain.ErrDownloadInProgress
	}
	return h, nil
}

// URLs returns the registered URLs in sorted order
func (r *Registry) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	urls := make([]string, 0, len(r.handles))
	for u := range r.handles {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// Handles returns a snapshot of the registered handles
func (r *Registry) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
