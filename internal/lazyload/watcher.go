package lazyload

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrUnsupported is returned by watchers that cannot observe proximity.
// Loader treats it as a request to activate immediately.
var ErrUnsupported = errors.New("lazyload: proximity watching unsupported")

// ProximityWatcher calls back once an item comes within the margin of the
// visible area. Callbacks may run synchronously from Watch.
type ProximityWatcher interface {
	Watch(id string, near func()) error
	Unwatch(id string)
}

// RowHeightPx is how many pixels one terminal row stands for when a margin
// given in pixels is applied to the grid.
const RowHeightPx = 16

// MarginRows converts a pixel margin to whole terminal rows, rounding up.
func MarginRows(px int) int {
	if px <= 0 {
		return 0
	}
	return (px + RowHeightPx - 1) / RowHeightPx
}

// ImmediateWatcher reports every item as near as soon as it is watched.
type ImmediateWatcher struct{}

func (ImmediateWatcher) Watch(_ string, near func()) error {
	near()
	return nil
}

func (ImmediateWatcher) Unwatch(string) {}

type span struct {
	top, bottom int
	placed      bool
	near        func()
}

// ViewportWatcher tracks row spans of watched items against a scrolling
// window of rows. An item is near when its span intersects
// [viewTop - margin, viewBottom + margin].
type ViewportWatcher struct {
	margin int

	mu      sync.Mutex
	items   map[string]*span
	viewTop int
	viewBot int
	hasView bool
}

func NewViewportWatcher(marginRows int) *ViewportWatcher {
	if marginRows < 0 {
		marginRows = 0
	}
	return &ViewportWatcher{margin: marginRows, items: make(map[string]*span)}
}

func (w *ViewportWatcher) Watch(id string, near func()) error {
	w.mu.Lock()
	s := &span{near: near}
	w.items[id] = s
	fire := w.takeIfNear(id, s)
	w.mu.Unlock()

	if fire != nil {
		fire()
	}
	return nil
}

func (w *ViewportWatcher) Unwatch(id string) {
	w.mu.Lock()
	delete(w.items, id)
	w.mu.Unlock()
}

// Place records the rows a watched item occupies and may fire its callback.
// Unwatched ids are ignored.
func (w *ViewportWatcher) Place(id string, top, bottom int) {
	w.mu.Lock()
	s, ok := w.items[id]
	if !ok {
		w.mu.Unlock()
		return
	}
	s.top, s.bottom, s.placed = top, bottom, true
	fire := w.takeIfNear(id, s)
	w.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Scroll moves the visible window and fires every item that is now near.
func (w *ViewportWatcher) Scroll(viewTop, viewBottom int) {
	w.mu.Lock()
	w.viewTop, w.viewBot, w.hasView = viewTop, viewBottom, true
	var fire []func()
	for id, s := range w.items {
		if f := w.takeIfNear(id, s); f != nil {
			fire = append(fire, f)
		}
	}
	w.mu.Unlock()

	for _, f := range fire {
		f()
	}
}

func (w *ViewportWatcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// takeIfNear removes and returns the callback of a near item. Callers hold mu
// and must invoke the callback after releasing it.
func (w *ViewportWatcher) takeIfNear(id string, s *span) func() {
	if !w.hasView || !s.placed || s.near == nil {
		return nil
	}
	if s.bottom < w.viewTop-w.margin || s.top > w.viewBot+w.margin {
		return nil
	}
	delete(w.items, id)
	return s.near
}

// PollingWatcher asks a visibility function about every watched item on a
// fixed interval. It suits views that cannot push scroll events.
type PollingWatcher struct {
	interval time.Duration
	visible  func(id string) bool

	mu    sync.Mutex
	items map[string]func()
}

func NewPollingWatcher(interval time.Duration, visible func(id string) bool) *PollingWatcher {
	return &PollingWatcher{
		interval: interval,
		visible:  visible,
		items:    make(map[string]func()),
	}
}

func (w *PollingWatcher) Watch(id string, near func()) error {
	if w.visible == nil || w.interval <= 0 {
		return ErrUnsupported
	}
	w.mu.Lock()
	w.items[id] = near
	w.mu.Unlock()
	return nil
}

func (w *PollingWatcher) Unwatch(id string) {
	w.mu.Lock()
	delete(w.items, id)
	w.mu.Unlock()
}

// Run polls until ctx is done.
func (w *PollingWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll checks every watched item once and fires the near ones.
func (w *PollingWatcher) Poll() {
	w.mu.Lock()
	ids := make(map[string]func(), len(w.items))
	for id, fn := range w.items {
		ids[id] = fn
	}
	w.mu.Unlock()

	for id, fn := range ids {
		if !w.visible(id) {
			continue
		}
		w.mu.Lock()
		_, still := w.items[id]
		delete(w.items, id)
		w.mu.Unlock()
		if still {
			fn()
		}
	}
}
