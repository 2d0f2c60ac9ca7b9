// Package fetch turns an asynchronous collection load into render state
// for a bubbletea model: data, loading, error and refetch.
//
// Each load runs on a context derived from the owning page's lifetime.
// Starting a new load or closing the resource cancels the previous one,
// and results from superseded or cancelled loads are dropped.
package fetch

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Func loads a collection.
type Func[T any] func(ctx context.Context) ([]T, error)

// One adapts a single-record getter into a Func.
func One[T any](get func(ctx context.Context) (*T, error)) Func[T] {
	return func(ctx context.Context) ([]T, error) {
		v, err := get(ctx)
		if err != nil || v == nil {
			return nil, err
		}
		return []T{*v}, nil
	}
}

// Loaded is the message a load produces.
type Loaded[T any] struct {
	id   uint64
	gen  uint64
	data []T
	err  error
}

var nextID atomic.Uint64

// Resource is the render state of one collection.
type Resource[T any] struct {
	id      uint64
	name    string
	parent  context.Context
	load    Func[T]
	cancel  context.CancelFunc
	gen     uint64
	deps    string
	fetched bool

	data    []T
	loading bool
	err     error
}

// New returns a resource in the loading state. Loads run under parent.
func New[T any](parent context.Context, name string, load Func[T]) Resource[T] {
	if parent == nil {
		parent = context.Background()
	}
	return Resource[T]{
		id:      nextID.Add(1),
		name:    name,
		parent:  parent,
		load:    load,
		loading: true,
	}
}

// Name labels the resource in logs and errors.
func (r *Resource[T]) Name() string { return r.name }

// Data is the last successfully loaded collection. It is never nil.
func (r *Resource[T]) Data() []T {
	if r.data == nil {
		return []T{}
	}
	return r.data
}

// Loading reports an outstanding load.
func (r *Resource[T]) Loading() bool { return r.loading }

// Err is the error of the last load, or nil.
func (r *Resource[T]) Err() error { return r.err }

// Fetch starts a load, cancelling any that is still running.
func (r *Resource[T]) Fetch() tea.Cmd {
	if r.load == nil {
		r.loading = false
		return nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	parent := r.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.gen++
	r.fetched = true
	r.loading = true
	r.err = nil

	id, gen, load, name := r.id, r.gen, r.load, r.name
	return func() tea.Msg {
		data, err := load(ctx)
		if ctx.Err() != nil {
			return Loaded[T]{id: id, gen: gen, err: context.Canceled}
		}
		if err != nil {
			err = fmt.Errorf("load %s: %w", name, err)
		}
		return Loaded[T]{id: id, gen: gen, data: data, err: err}
	}
}

// Refetch repeats the load on demand.
func (r *Resource[T]) Refetch() tea.Cmd {
	return r.Fetch()
}

// Depend fetches when the dependency values differ from the previous call,
// or on the first call. Otherwise it does nothing.
func (r *Resource[T]) Depend(deps ...any) tea.Cmd {
	key := fmt.Sprintf("%v", deps)
	if r.fetched && key == r.deps {
		return nil
	}
	r.deps = key
	return r.Fetch()
}

// Update applies msg if it is the result of this resource's latest load.
// It reports whether the state changed.
func (r *Resource[T]) Update(msg tea.Msg) bool {
	m, ok := msg.(Loaded[T])
	if !ok || m.id != r.id || m.gen != r.gen || !r.loading {
		return false
	}
	if m.err == context.Canceled {
		return false
	}
	r.loading = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if m.err != nil {
		r.err = m.err
		return true
	}
	r.data = m.data
	if r.data == nil {
		r.data = []T{}
	}
	return true
}

// Set replaces the data locally, e.g. after a mutation the page applied
// without refetching.
func (r *Resource[T]) Set(data []T) {
	r.data = data
}

// Close cancels any running load and makes its result stale. Call it when
// the owning page goes away.
func (r *Resource[T]) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	r.loading = false
}
