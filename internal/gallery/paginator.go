package gallery

import (
	"sync"
	"sync/atomic"

	"github.com/matheuskafuri/spacegallery/internal/cache"
)

const DefaultPageSize = 12

// Batch is one page handed to the view. Append is false when the view should
// discard what it shows and start over.
type Batch struct {
	Entries []cache.Entry
	Append  bool
	Offset  int // index of Entries[0] in the full item list
}

// Paginator exposes a list of entries one fixed-size page at a time.
//
// Batches reach the sink one at a time and in order. A RenderNextPage call
// that arrives while another batch is being emitted (from the sink itself or
// another goroutine) returns without doing anything. SetItems waits for the
// batch in flight instead, so it must not be called from the sink.
type Paginator struct {
	pageSize int
	sink     func(Batch)

	emitting  sync.Mutex
	rendering atomic.Bool

	mu     sync.Mutex
	items  []cache.Entry
	cursor int
}

// NewPaginator panics on a non-positive page size.
func NewPaginator(pageSize int, sink func(Batch)) *Paginator {
	if pageSize <= 0 {
		panic("gallery: page size must be positive")
	}
	if sink == nil {
		sink = func(Batch) {}
	}
	return &Paginator{pageSize: pageSize, sink: sink}
}

// SetItems replaces the list, rewinds to the start and emits the first page.
// An empty list emits an empty replace batch so the view clears.
func (p *Paginator) SetItems(items []cache.Entry) {
	p.emitting.Lock()
	defer p.emitting.Unlock()
	p.rendering.Store(true)
	defer p.rendering.Store(false)

	p.mu.Lock()
	p.items = append([]cache.Entry(nil), items...)
	p.cursor = 0
	empty := len(p.items) == 0
	p.mu.Unlock()

	if empty {
		p.sink(Batch{})
		return
	}
	p.emitNext()
}

// RenderNextPage emits the next page and reports how many entries it emitted
// and whether more remain. It is a no-op when the list is exhausted or a
// batch is already being emitted.
func (p *Paginator) RenderNextPage() (n int, more bool) {
	if !p.emitting.TryLock() {
		return 0, p.HasMore()
	}
	defer p.emitting.Unlock()
	p.rendering.Store(true)
	defer p.rendering.Store(false)

	return p.emitNext()
}

// emitNext must be called with emitting held.
func (p *Paginator) emitNext() (n int, more bool) {
	p.mu.Lock()
	if p.cursor >= len(p.items) {
		p.mu.Unlock()
		return 0, false
	}
	start := p.cursor
	end := start + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	page := append([]cache.Entry(nil), p.items[start:end]...)
	p.cursor = end
	more = p.cursor < len(p.items)
	p.mu.Unlock()

	p.sink(Batch{Entries: page, Append: start > 0, Offset: start})
	return len(page), more
}

func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor < len(p.items)
}

// Rendering reports whether a batch is being emitted right now.
func (p *Paginator) Rendering() bool {
	return p.rendering.Load()
}

func (p *Paginator) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

func (p *Paginator) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

