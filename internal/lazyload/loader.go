package lazyload

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"

	"github.com/matheuskafuri/spacegallery/internal/logging"
)

var errNoSource = errors.New("lazyload: placeholder has no source")

// Loader activates placeholders when its watcher reports them near the
// viewport. Activations run on their own goroutines and are independent.
type Loader struct {
	watcher  ProximityWatcher
	fetcher  MediaFetcher
	limiter  *rate.Limiter
	onChange func(*Placeholder)

	wg      sync.WaitGroup
	mu      sync.Mutex
	watched map[string]*Placeholder
}

type Option func(*Loader)

// WithRate caps activations per second. Zero or negative means unlimited.
func WithRate(perSecond float64) Option {
	return func(l *Loader) {
		if perSecond <= 0 {
			l.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithOnChange registers fn to be called after each state transition. It is
// called from the activating goroutine.
func WithOnChange(fn func(*Placeholder)) Option {
	return func(l *Loader) { l.onChange = fn }
}

// NewLoader returns a Loader. A nil watcher activates on Register.
func NewLoader(w ProximityWatcher, f MediaFetcher, opts ...Option) *Loader {
	l := &Loader{
		watcher: w,
		fetcher: f,
		watched: make(map[string]*Placeholder),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Register watches p and activates it once it is near. Without working
// proximity support p is activated right away.
func (l *Loader) Register(ctx context.Context, p *Placeholder) {
	if p.Activated() {
		return
	}
	if l.watcher == nil {
		l.trigger(ctx, p)
		return
	}

	l.mu.Lock()
	l.watched[p.ID] = p
	l.mu.Unlock()

	err := l.watcher.Watch(p.ID, func() { l.trigger(ctx, p) })
	if err != nil {
		if !errors.Is(err, ErrUnsupported) {
			logging.Debug("proximity watch failed, loading now", "id", p.ID, "err", err)
		}
		l.trigger(ctx, p)
	}
}

// Forget stops watching p without activating it.
func (l *Loader) Forget(p *Placeholder) {
	l.mu.Lock()
	_, ok := l.watched[p.ID]
	delete(l.watched, p.ID)
	l.mu.Unlock()
	if ok && l.watcher != nil {
		l.watcher.Unwatch(p.ID)
	}
}

// Watching reports how many placeholders still wait for proximity.
func (l *Loader) Watching() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.watched)
}

func (l *Loader) trigger(ctx context.Context, p *Placeholder) {
	l.Forget(p)
	if p.Activated() {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.Activate(ctx, p)
	}()
}

// Activate loads p's source. It runs at most once per placeholder and reports
// whether this call did the work. Failures are recorded on p, never returned.
func (l *Loader) Activate(ctx context.Context, p *Placeholder) bool {
	if !p.activated.CompareAndSwap(false, true) {
		return false
	}

	p.setLoading()
	l.changed(p)

	info, err := l.load(ctx, p)
	if err != nil {
		logging.Debug("media load failed", "id", p.ID, "source", p.Source, "err", err)
		p.setFailed(err)
	} else {
		p.setLoaded(info)
	}
	l.changed(p)
	return true
}

func (l *Loader) load(ctx context.Context, p *Placeholder) (MediaInfo, error) {
	if p.Source == "" {
		return MediaInfo{}, errNoSource
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return MediaInfo{}, err
		}
	}
	if l.fetcher == nil {
		return MediaInfo{Bytes: -1}, nil
	}
	return l.fetcher.Fetch(ctx, p.Source)
}

func (l *Loader) changed(p *Placeholder) {
	if l.onChange != nil {
		l.onChange(p)
	}
}

// Wait blocks until every started activation has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}
