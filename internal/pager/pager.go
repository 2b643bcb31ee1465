// Package pager implements the paginated fetch controller behind every
// infinite-scrolling list.
//
// The backend sends no total count or cursor; a page shorter than the
// requested limit is the only exhaustion signal. A [Pager] serializes
// fetches with an in-flight guard (at most one request per controller)
// and discards completions that arrive after a newer [Pager.LoadInitial]
// via a generation counter, so a reset never gets clobbered by a stale
// response.
package pager

import (
	"context"
	"net/url"
	"sync"
)

// DefaultPageSize matches the backend's listing chunk size.
const DefaultPageSize = 6

// FetchFunc retrieves one page of resources.
type FetchFunc[T any] func(ctx context.Context, page, limit int, params url.Values) ([]T, error)

// Pager accumulates pages of T. keyFn extracts the resource ID used to
// drop duplicates that straddle page boundaries.
type Pager[T any] struct {
	mu       sync.Mutex
	fetch    FetchFunc[T]
	keyFn    func(T) int
	pageSize int

	items     []T
	seen      map[int]struct{}
	page      int
	params    url.Values
	exhausted bool
	inFlight  bool
	gen       uint64
	err       error
}

// New creates a pager. A pageSize of zero or less falls back to
// [DefaultPageSize].
func New[T any](fetch FetchFunc[T], keyFn func(T) int, pageSize int) *Pager[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager[T]{
		fetch:    fetch,
		keyFn:    keyFn,
		pageSize: pageSize,
		seen:     map[int]struct{}{},
	}
}

// LoadInitial resets the pager and fetches page one. It bumps the
// generation so any fetch still in flight resolves into the void.
func (p *Pager[T]) LoadInitial(ctx context.Context, params url.Values) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.items = nil
	p.seen = map[int]struct{}{}
	p.page = 0
	p.params = params
	p.exhausted = false
	p.inFlight = true
	p.err = nil
	p.mu.Unlock()

	batch, err := p.fetch(ctx, 1, p.pageSize, params)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	p.inFlight = false

	if err != nil {
		p.err = err
		return err
	}

	p.absorb(batch)
	p.page = 1
	p.exhausted = len(batch) < p.pageSize
	return nil
}

// LoadNext fetches the page after the last successful one. It is a
// no-op while a fetch is in flight or after exhaustion, so callers may
// invoke it on every scroll tick without throttling.
func (p *Pager[T]) LoadNext(ctx context.Context) error {
	p.mu.Lock()
	if p.exhausted || p.inFlight || p.page == 0 {
		p.mu.Unlock()
		return nil
	}
	gen := p.gen
	next := p.page + 1
	params := p.params
	p.inFlight = true
	p.mu.Unlock()

	batch, err := p.fetch(ctx, next, p.pageSize, params)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	p.inFlight = false

	if err != nil {
		p.err = err
		return err
	}

	p.absorb(batch)
	p.page = next
	p.exhausted = len(batch) < p.pageSize
	p.err = nil
	return nil
}

// absorb appends batch, dropping IDs already held. Callers hold p.mu.
func (p *Pager[T]) absorb(batch []T) {
	for _, item := range batch {
		key := p.keyFn(item)
		if _, dup := p.seen[key]; dup {
			continue
		}
		p.seen[key] = struct{}{}
		p.items = append(p.items, item)
	}
}

// Items returns a copy of the accumulated resources.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Len returns the number of accumulated resources.
func (p *Pager[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Page returns the last successfully loaded page number, zero before
// the first load.
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Exhausted reports whether the final page has been seen.
func (p *Pager[T]) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exhausted
}

// InFlight reports whether a fetch is currently outstanding.
func (p *Pager[T]) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Err returns the most recent fetch failure, cleared by the next
// successful load.
func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
