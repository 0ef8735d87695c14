package catalog

import (
	"sort"
	"sync"
)

// State is the lifecycle of a category catalog.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Status describes one category for the storefront's loading indicator.
type Status struct {
	Category Category `json:"category"`
	Mode     string   `json:"mode"`
	State    State    `json:"state"`
	Error    string   `json:"error,omitempty"`
	Options  int      `json:"options"`
}

type entry struct {
	mode    Mode
	state   State
	catalog *Catalog
	err     error
}

// Registry holds every category catalog plus the product list. It is safe
// for concurrent use: background loaders resolve entries while request
// handlers read them.
type Registry struct {
	mu       sync.RWMutex
	entries  map[Category]*entry
	products *Products
	prodErr  error
	prodSt   State
}

func NewRegistry() *Registry {
	return &Registry{
		entries:  make(map[Category]*entry),
		products: NewProducts(),
		prodSt:   StateLoading,
	}
}

// Register adds a ready catalog, replacing any previous entry.
func (r *Registry) Register(c *Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[c.Category()] = &entry{mode: c.Mode(), state: StateReady, catalog: c}
}

// Expect declares a category that will be fetched later and marks it loading.
func (r *Registry) Expect(category Category, mode Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[category] = &entry{mode: mode, state: StateLoading}
}

// Resolve stores the fetched options for a category and marks it ready.
func (r *Registry) Resolve(category Category, options []Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entryLocked(category)
	c, err := New(category, e.mode, options...)
	if err != nil {
		e.state, e.err = StateFailed, err
		return err
	}
	e.state, e.catalog, e.err = StateReady, c, nil
	return nil
}

// Fail records a fetch failure. A catalog resolved earlier stays ready and
// keeps its options; the error is still reported in its status.
func (r *Registry) Fail(category Category, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entryLocked(category)
	e.err = err
	if e.catalog == nil {
		e.state = StateFailed
	}
}

func (r *Registry) entryLocked(category Category) *entry {
	e, ok := r.entries[category]
	if !ok {
		e = &entry{mode: SingleSelect, state: StateLoading}
		r.entries[category] = e
	}
	return e
}

// Options returns the options of category in presentation order. A category
// that is unknown, loading or failed has none.
func (r *Registry) Options(category Category) []Option {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[category]
	if !ok || e.catalog == nil {
		return nil
	}
	return e.catalog.Options()
}

// Find resolves an option id within a category. Absence is reported with
// ok=false and is never an error.
func (r *Registry) Find(category Category, id string) (Option, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[category]
	if !ok || e.catalog == nil {
		return Option{}, false
	}
	return e.catalog.Find(id)
}

// Mode reports the selection mode of category. Unknown categories are
// single-select.
func (r *Registry) Mode(category Category) Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[category]; ok {
		return e.mode
	}
	return SingleSelect
}

// Categories lists the known categories sorted by name.
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.entries))
	for c := range r.entries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Status reports the lifecycle of one category.
func (r *Registry) Status(category Category) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[category]
	if !ok {
		return Status{}, false
	}
	return statusOf(category, e), true
}

// Statuses reports every category, sorted by name.
func (r *Registry) Statuses() []Status {
	cats := r.Categories()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Status, 0, len(cats))
	for _, c := range cats {
		if e, ok := r.entries[c]; ok {
			out = append(out, statusOf(c, e))
		}
	}
	return out
}

func statusOf(c Category, e *entry) Status {
	s := Status{Category: c, Mode: e.mode.String(), State: e.state}
	if e.err != nil {
		s.Error = e.err.Error()
	}
	if e.catalog != nil {
		s.Options = e.catalog.Len()
	}
	return s
}

// SetProducts replaces the product list and marks it ready.
func (r *Registry) SetProducts(p *Products) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products, r.prodSt, r.prodErr = p, StateReady, nil
}

// FailProducts records a product fetch failure, keeping any earlier list.
func (r *Registry) FailProducts(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prodErr = err
	if r.prodSt != StateReady {
		r.prodSt = StateFailed
	}
}

// Products returns the current product list and its state.
func (r *Registry) Products() (*Products, State) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products, r.prodSt
}

// Product finds a product by id.
func (r *Registry) Product(id int) (Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products.Find(id)
}
