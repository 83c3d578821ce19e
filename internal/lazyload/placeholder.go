// Package lazyload defers media fetches until a card is close to the visible
// part of the grid.
package lazyload

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type State int

const (
	Pending State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MediaInfo describes fetched media.
type MediaInfo struct {
	Format string // "jpeg", "png", "webp", ...
	Width  int
	Height int
	Bytes  int64 // -1 when the server did not say
}

// Placeholder stands in for one card's media until it is activated.
type Placeholder struct {
	ID     string
	Source string // deferred URL, fetched on activation

	activated atomic.Bool

	mu      sync.Mutex
	state   State
	standIn string
	info    MediaInfo
	err     error
}

// NewPlaceholder creates a pending placeholder. standIn is an optional
// low-resolution URL shown until the real source loads.
func NewPlaceholder(source, standIn string) *Placeholder {
	return &Placeholder{
		ID:      uuid.NewString(),
		Source:  source,
		standIn: standIn,
	}
}

func (p *Placeholder) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// StandIn returns the low-resolution URL, empty once the source has loaded.
func (p *Placeholder) StandIn() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.standIn
}

func (p *Placeholder) Info() MediaInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.info
}

// Err is the activation failure, if any.
func (p *Placeholder) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Activated reports whether activation has started.
func (p *Placeholder) Activated() bool {
	return p.activated.Load()
}

func (p *Placeholder) setLoading() {
	p.mu.Lock()
	p.state = Loading
	p.mu.Unlock()
}

func (p *Placeholder) setLoaded(info MediaInfo) {
	p.mu.Lock()
	p.state = Loaded
	p.info = info
	p.standIn = ""
	p.mu.Unlock()
}

func (p *Placeholder) setFailed(err error) {
	p.mu.Lock()
	p.state = Failed
	p.err = err
	p.mu.Unlock()
}
