package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matheuskafuri/spacegallery/internal/gallery"
	"github.com/matheuskafuri/spacegallery/internal/lazyload"
)

// programObserver turns session and loader callbacks into tea messages.
// Callbacks run on command goroutines, never inside Update, so Send cannot
// block the event loop against itself.
type programObserver struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (o *programObserver) attach(send func(tea.Msg)) {
	o.mu.Lock()
	o.send = send
	o.mu.Unlock()
}

func (o *programObserver) post(msg tea.Msg) {
	o.mu.RLock()
	send := o.send
	o.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (o *programObserver) LoadingChanged(on bool) { o.post(loadingMsg{on: on}) }
func (o *programObserver) Rendered(b gallery.Batch) { o.post(batchMsg{batch: b}) }
func (o *programObserver) HasMoreChanged(more bool) { o.post(hasMoreMsg{more: more}) }
func (o *programObserver) Selected(d gallery.Detail) { o.post(selectedMsg{detail: d}) }
func (o *programObserver) Empty(r gallery.Range) { o.post(emptyMsg{rng: r}) }
func (o *programObserver) Failed(f gallery.Failure) { o.post(failedMsg{failure: f}) }
func (o *programObserver) MediaChanged(p *lazyload.Placeholder) { o.post(mediaMsg{id: p.ID}) }
