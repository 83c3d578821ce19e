package gallery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/spacegallery/internal/cache"
	"github.com/matheuskafuri/spacegallery/internal/calendar"
)

type stubFetcher struct {
	entries []cache.Entry
	err     error
	calls   atomic.Int32
}

func (f *stubFetcher) Fetch(ctx context.Context) ([]cache.Entry, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

// signals records every Observer call in order.
type signals struct {
	mu       sync.Mutex
	loading  []bool
	batches  []Batch
	more     []bool
	selected []Detail
	empty    []Range
	failures []Failure
}

func (s *signals) record(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *signals) LoadingChanged(on bool) { s.record(func() { s.loading = append(s.loading, on) }) }
func (s *signals) Rendered(b Batch) { s.record(func() { s.batches = append(s.batches, b) }) }
func (s *signals) HasMoreChanged(m bool) { s.record(func() { s.more = append(s.more, m) }) }
func (s *signals) Selected(d Detail) { s.record(func() { s.selected = append(s.selected, d) }) }
func (s *signals) Empty(r Range) { s.record(func() { s.empty = append(s.empty, r) }) }
func (s *signals) Failed(f Failure) { s.record(func() { s.failures = append(s.failures, f) }) }

func (s *signals) lastBatch() Batch {
	return s.batches[len(s.batches)-1]
}

func newTestSession(t *testing.T, f cache.Fetcher, opts ...Option) (*Session, *signals) {
	t.Helper()
	obs := &signals{}
	opts = append([]Option{WithClock(func() calendar.Date { return day("2024-06-01") })}, opts...)
	return NewSession(cache.New(f), 4, obs, opts...), obs
}

func TestSessionInitShowsNewestFirst(t *testing.T) {
	f := &stubFetcher{entries: tenDays().Entries()}
	s, obs := newTestSession(t, f)

	require.NoError(t, s.Init(context.Background()))
	require.Equal(t, []bool{true, false}, obs.loading)
	require.Len(t, obs.batches, 1)
	require.Equal(t, []string{"Day 10", "Day 9", "Day 8", "Day 7"}, titles(obs.batches[0].Entries))
	require.Equal(t, []bool{true}, obs.more)
	require.Equal(t, 11, s.Total())

	_, ok := s.Range()
	require.False(t, ok)
}

func TestSessionInitFailure(t *testing.T) {
	f := &stubFetcher{err: &cache.FetchError{URL: "http://feed", StatusCode: 500}}
	s, obs := newTestSession(t, f)

	err := s.Init(context.Background())
	require.Error(t, err)
	require.True(t, IsFetchFailure(err))
	require.Equal(t, []bool{true, false}, obs.loading, "loading must clear on failure")
	require.Len(t, obs.failures, 1)
	require.Equal(t, FailureInitialLoad, obs.failures[0].Kind)
	require.Equal(t, "Unable to load initial data.", obs.failures[0].Message())
	require.Empty(t, obs.batches)
}

func TestSessionRunRetriesFetch(t *testing.T) {
	f := &stubFetcher{err: errors.New("offline")}
	s, obs := newTestSession(t, f)
	require.Error(t, s.Init(context.Background()))

	f.err = nil
	f.entries = tenDays().Entries()
	r, err := s.Run(context.Background(), Query{Start: "2020-01-03", End: "2020-01-01"})
	require.NoError(t, err)
	require.Equal(t, "2020-01-01 → 2020-01-03", r.String())
	require.Equal(t, []string{"Day 1", "Day 2", "Day 3"}, titles(obs.lastBatch().Entries))
	require.EqualValues(t, 2, f.calls.Load())
}

func TestSessionRunFailureKind(t *testing.T) {
	f := &stubFetcher{err: errors.New("offline")}
	s, obs := newTestSession(t, f)

	_, err := s.Run(context.Background(), Query{})
	require.Error(t, err)
	require.Len(t, obs.failures, 1)
	require.Equal(t, FailureRangeQuery, obs.failures[0].Kind)
	require.Equal(t, []bool{true, false}, obs.loading)
	require.Empty(t, obs.empty)
}

func TestSessionRunEmptyIsNotFailure(t *testing.T) {
	f := &stubFetcher{entries: tenDays().Entries()}
	s, obs := newTestSession(t, f)
	require.NoError(t, s.Init(context.Background()))

	r, err := s.Run(context.Background(), Query{Start: "1999-01-01", End: "1999-01-31"})
	require.NoError(t, err)
	require.Empty(t, obs.failures)
	require.Len(t, obs.empty, 1)
	require.Equal(t, r, obs.empty[0])

	last := obs.lastBatch()
	require.Empty(t, last.Entries)
	require.False(t, last.Append)
	require.False(t, s.HasMore())
	require.EqualValues(t, 1, f.calls.Load(), "catalog is fetched once")
}

func TestSessionLoadMore(t *testing.T) {
	f := &stubFetcher{entries: tenDays().Entries()}
	s, obs := newTestSession(t, f)

	_, err := s.Run(context.Background(), Query{})
	require.NoError(t, err)
	require.Equal(t, 4, s.Cursor())

	require.Equal(t, 4, s.LoadMore())
	require.Equal(t, 2, s.LoadMore())
	require.Zero(t, s.LoadMore())
	require.False(t, s.HasMore())
	require.Equal(t, []bool{true, true, false}, obs.more)
	require.Equal(t, []string{"Day 9", "Day 10"}, titles(obs.lastBatch().Entries))
}

func TestSessionSearchUsesIndex(t *testing.T) {
	ix, err := cache.OpenIndex()
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })

	entries := tenDays().Entries()
	entries = append(entries, cache.Entry{Date: "2020-01-05", Title: "Comet Over Lake", Explanation: "A bright comet."})
	f := &stubFetcher{entries: entries}
	s, obs := newTestSession(t, f, WithIndex(ix))
	require.True(t, s.SearchEnabled())

	_, err = s.Run(context.Background(), Query{Search: "comet"})
	require.NoError(t, err)
	require.Equal(t, []string{"Comet Over Lake"}, titles(obs.lastBatch().Entries))

	_, err = s.Run(context.Background(), Query{Start: "2020-01-06", Search: "comet"})
	require.NoError(t, err)
	require.Len(t, obs.empty, 1)
}

func TestSessionSearchIgnoredWithoutIndex(t *testing.T) {
	f := &stubFetcher{entries: tenDays().Entries()}
	s, obs := newTestSession(t, f)
	require.False(t, s.SearchEnabled())

	_, err := s.Run(context.Background(), Query{Start: "2020-01-01", End: "2020-01-02", Search: "anything"})
	require.NoError(t, err)
	require.Len(t, obs.lastBatch().Entries, 2)
}

func TestSessionSelect(t *testing.T) {
	s, obs := newTestSession(t, &stubFetcher{})
	d := s.Select(cache.Entry{Date: "2020-01-03", MediaType: cache.MediaImage, URL: "https://x/a.jpg", HDURL: "https://x/a_hd.jpg"})
	require.Equal(t, "Jan 3, 2020", d.Date)
	require.Equal(t, "https://x/a_hd.jpg", d.OpenURL)
	require.Len(t, obs.selected, 1)
}

func TestSessionsAreIndependent(t *testing.T) {
	f := &stubFetcher{entries: tenDays().Entries()}
	a, _ := newTestSession(t, f)
	b, _ := newTestSession(t, f)

	_, err := a.Run(context.Background(), Query{Start: "2020-01-01", End: "2020-01-01"})
	require.NoError(t, err)
	require.NoError(t, b.Init(context.Background()))

	require.Equal(t, 1, a.Total())
	require.Equal(t, 11, b.Total())
}
