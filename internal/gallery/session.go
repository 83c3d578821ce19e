// Package gallery turns the cached catalog into what the view shows: a date
// range, the entries inside it, and those entries a page at a time.
package gallery

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/calendar"
	"github.com/matheuskafuri/spacegallery/internal/logging"
)

// Observer receives the signals the view renders. Calls arrive on the
// goroutine that invoked the Session method.
type Observer interface {
	LoadingChanged(loading bool)
	Rendered(b Batch)
	HasMoreChanged(more bool)
	Selected(d Detail)
	Empty(r Range)
	Failed(f Failure)
}

type FailureKind int

const (
	FailureInitialLoad FailureKind = iota
	FailureRangeQuery
)

// Failure is a user-visible error state. Empty results are not failures.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f Failure) Message() string {
	if f.Kind == FailureInitialLoad {
		return "Unable to load initial data."
	}
	return "There was an error loading data for that range."
}

// Query is one filter request from the view. Empty fields mean "not given".
type Query struct {
	Start  string
	End    string
	Search string
}

// Session owns one user's view: the catalog cache, the current range and the
// paginated result. Independent sessions share nothing.
type Session struct {
	cache    *cache.Cache
	index    *cache.Index // optional, enables Query.Search
	obs      Observer
	today    func() calendar.Date
	pages    *Paginator
	loadMu   sync.Mutex // serializes Init and Run
	stateMu  sync.Mutex // guards rng, hasRange, index
	rng      Range
	hasRange bool
	indexed  bool
}

type Option func(*Session)

// WithIndex enables keyword search backed by ix.
func WithIndex(ix *cache.Index) Option {
	return func(s *Session) { s.index = ix }
}

// WithClock overrides how "today" is determined.
func WithClock(today func() calendar.Date) Option {
	return func(s *Session) { s.today = today }
}

func NewSession(c *cache.Cache, pageSize int, obs Observer, opts ...Option) *Session {
	if obs == nil {
		obs = NopObserver{}
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := &Session{cache: c, obs: obs, today: calendar.Today}
	s.pages = NewPaginator(pageSize, s.emit)
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) emit(b Batch) {
	s.obs.Rendered(b)
	s.obs.HasMoreChanged(s.pages.HasMore())
}

func (s *Session) setLoading(on bool) {
	s.obs.LoadingChanged(on)
}

// Init loads the catalog and shows all of it, newest first.
func (s *Session) Init(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	ds, err := s.load(ctx)
	if err != nil {
		s.obs.Failed(Failure{Kind: FailureInitialLoad, Err: err})
		return err
	}

	s.stateMu.Lock()
	s.hasRange = false
	s.stateMu.Unlock()

	s.pages.SetItems(ds.Entries())
	return nil
}

// Run resolves q against the catalog and shows the matches oldest first.
// It fetches the catalog if Init never succeeded. The resolved range is
// returned even when nothing matches.
func (s *Session) Run(ctx context.Context, q Query) (Range, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	ds, err := s.load(ctx)
	if err != nil {
		s.obs.Failed(Failure{Kind: FailureRangeQuery, Err: err})
		return Range{}, err
	}

	r := ResolveRange(q.Start, q.End, ds, s.today())

	var items []cache.Entry
	search := strings.TrimSpace(q.Search)
	if ix := s.searchIndex(); search != "" && ix != nil {
		items, err = ix.Query(cache.QueryOpts{Start: r.Start, End: r.End, Search: search})
		if err != nil {
			s.obs.Failed(Failure{Kind: FailureRangeQuery, Err: err})
			return r, err
		}
	} else {
		items = Apply(ds, r)
	}

	s.stateMu.Lock()
	s.rng = r
	s.hasRange = true
	s.stateMu.Unlock()

	logging.Debug("range query", "range", r.String(), "search", search, "matches", len(items))

	s.pages.SetItems(items)
	if len(items) == 0 {
		s.obs.Empty(r)
	}
	return r, nil
}

func (s *Session) load(ctx context.Context) (*cache.Dataset, error) {
	ds, err := s.cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	ix := s.searchIndex()
	if ix != nil && !s.indexed {
		if err := ix.Build(ds); err != nil {
			// Search degrades to unavailable; filtering still works.
			logging.Warn("building search index", "err", err)
			s.stateMu.Lock()
			s.index = nil
			s.stateMu.Unlock()
		} else {
			s.indexed = true
		}
	}
	return ds, nil
}

func (s *Session) searchIndex() *cache.Index {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.index
}

// LoadMore emits the next page. Safe to call from a scroll trigger and a
// manual control at once; only one of them advances.
func (s *Session) LoadMore() int {
	n, _ := s.pages.RenderNextPage()
	if n == 0 && s.pages.Rendering() {
		logging.Debug("load more collapsed into the page in flight")
	}
	return n
}

// Select reports the detail view for e.
func (s *Session) Select(e cache.Entry) Detail {
	d := DetailFor(e)
	s.obs.Selected(d)
	return d
}

func (s *Session) HasMore() bool { return s.pages.HasMore() }

func (s *Session) Cursor() int { return s.pages.Cursor() }

func (s *Session) Total() int { return s.pages.Len() }

// Range returns the last resolved range. ok is false while showing the
// unfiltered initial view.
func (s *Session) Range() (r Range, ok bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.rng, s.hasRange
}

// Dataset returns the cached catalog if it has been loaded.
func (s *Session) Dataset() (*cache.Dataset, bool) {
	return s.cache.Peek()
}

// SearchEnabled reports whether Query.Search is honored.
func (s *Session) SearchEnabled() bool {
	return s.searchIndex() != nil
}

// IsFetchFailure reports whether err came from the network or feed shape.
func IsFetchFailure(err error) bool {
	var fe *cache.FetchError
	var se *cache.FeedShapeError
	return errors.As(err, &fe) || errors.As(err, &se)
}

// NopObserver ignores every signal.
type NopObserver struct{}

func (NopObserver) LoadingChanged(bool) {}
func (NopObserver) Rendered(Batch) {}
func (NopObserver) HasMoreChanged(bool) {}
func (NopObserver) Selected(Detail) {}
func (NopObserver) Empty(Range) {}
func (NopObserver) Failed(Failure) {}
