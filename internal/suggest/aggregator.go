// Package suggest implements the debounced, multi-source suggestion pipeline
// behind the search view. Keystrokes arm a trailing-edge timer; when the
// input goes quiet the pending query is accepted, looked up against the
// remote metadata service and the local tables, and the merged batch is
// handed back through callbacks.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/tmdb"
)

// Metadata is the remote lookup surface the aggregator needs. *tmdb.Client
// satisfies it; tests substitute fakes.
type Metadata interface {
	Enabled() bool
	SearchMovies(ctx context.Context, query string, limit int) ([]tmdb.Movie, error)
	SearchPeople(ctx context.Context, query string, limit int) ([]tmdb.Person, error)
}

// Callbacks connect the aggregator to its consumer. Both callbacks may be
// invoked from the debounce timer's goroutine.
type Callbacks struct {
	// OnSearch receives every accepted submission, and "" when the query is
	// cleared.
	OnSearch func(query string)
	// OnSuggestions receives each freshly built batch.
	OnSuggestions func(batch []Suggestion)
}

// Options tune a new Aggregator.
type Options struct {
	// Debounce is the quiet period before a pending query fires.
	// DefaultDebounce when zero.
	Debounce time.Duration
	Logger   *zap.Logger
}

// Aggregator owns the pending-query state: the current input text, at most
// one armed debounce timer, and the session's recency list. Every state
// change bumps a generation counter; timers and lookups carry the generation
// they were born under and abandon their work when it has moved on.
type Aggregator struct {
	remote  Metadata
	catalog *catalog.Catalog
	cb      Callbacks
	log     *zap.Logger

	mu       sync.Mutex
	recent   *RecencyList
	pending  string
	timer    *time.Timer
	loading  bool
	gen      uint64
	closed   bool
	debounce time.Duration
}

func New(remote Metadata, cat *catalog.Catalog, cb Callbacks, opts Options) *Aggregator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Aggregator{
		remote:   remote,
		catalog:  cat,
		cb:       cb,
		log:      log,
		recent:   NewRecencyList(maxRecent),
		debounce: debounce,
	}
}

// SetQuery records a keystroke. Empty input clears immediately: the timer is
// cancelled and the search callback fires with "" right away. Anything else
// re-arms the debounce timer; the most recent text wins when it fires.
func (a *Aggregator) SetQuery(text string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}

	a.pending = text
	a.gen++
	a.stopTimerLocked()

	if strings.TrimSpace(text) == "" {
		a.loading = false
		batch := a.defaultBatchLocked()
		cb := a.cb
		a.mu.Unlock()

		if cb.OnSearch != nil {
			cb.OnSearch("")
		}
		if cb.OnSuggestions != nil {
			cb.OnSuggestions(batch)
		}
		return
	}

	gen := a.gen
	a.loading = true
	a.timer = time.AfterFunc(a.debounce, func() { a.fire(gen) })
	a.mu.Unlock()
}

// Submit accepts text immediately (Enter key or a clicked suggestion),
// bypassing any armed timer. Empty submissions are clears.
func (a *Aggregator) Submit(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		a.Clear()
		return
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.gen++
	a.stopTimerLocked()
	a.pending = text
	a.loading = false
	cb := a.cb
	a.mu.Unlock()

	if cb.OnSearch != nil {
		cb.OnSearch(trimmed)
	}

	a.mu.Lock()
	if !a.closed {
		a.recent.Push(trimmed)
	}
	a.mu.Unlock()
}

// Clear resets the pending query: any armed timer is cancelled, the search
// callback fires immediately with "", and the recency list stays untouched.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.gen++
	a.stopTimerLocked()
	a.pending = ""
	a.loading = false
	batch := a.defaultBatchLocked()
	cb := a.cb
	a.mu.Unlock()

	if cb.OnSearch != nil {
		cb.OnSearch("")
	}
	if cb.OnSuggestions != nil {
		cb.OnSuggestions(batch)
	}
}

// Close cancels any armed timer and invalidates in-flight lookups; their
// eventual results are discarded. Safe to call more than once.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.gen++
	a.stopTimerLocked()
	a.loading = false
}

// Loading reports whether a debounced lookup is pending or in flight.
func (a *Aggregator) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Recent returns the session's recency entries, newest first.
func (a *Aggregator) Recent() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recent.Entries()
}

// fire runs on the timer goroutine once the input has been quiet for the
// debounce interval. A fire whose generation is stale does nothing.
func (a *Aggregator) fire(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	query := strings.TrimSpace(a.pending)
	cb := a.cb
	a.mu.Unlock()

	if query == "" {
		return
	}

	// A debounced fire is an accepted submission: callback first, then the
	// recency push, then the lookup.
	if cb.OnSearch != nil {
		cb.OnSearch(query)
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.recent.Push(query)
	a.mu.Unlock()

	batch := a.Lookup(context.Background(), query)
	a.deliver(gen, batch)
}

// deliver hands a batch to the consumer unless a newer query owns the UI.
func (a *Aggregator) deliver(gen uint64, batch []Suggestion) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.loading = false
	cb := a.cb
	a.mu.Unlock()

	if cb.OnSuggestions != nil {
		cb.OnSuggestions(batch)
	}
}

// Lookup builds one merged suggestion batch for query, without touching the
// debounce machinery. Categories keep a fixed priority: recency matches,
// then remote titles, then remote people, then genre matches. No scoring;
// source order breaks ties within a category.
func (a *Aggregator) Lookup(ctx context.Context, query string) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" {
		return a.DefaultSuggestions()
	}

	a.mu.Lock()
	recentMatches := a.recent.Matches(query, maxSuggestions)
	a.mu.Unlock()

	titles, people := a.fetchRemote(ctx, query)
	genres := a.catalog.MatchGenres(query, maxGenreMatches)

	batch := make([]Suggestion, 0, maxSuggestions)
	for _, text := range recentMatches {
		batch = append(batch, Suggestion{
			ID:   "recent:" + text,
			Text: text,
			Kind: KindRecent,
		})
	}
	for _, m := range titles {
		batch = append(batch, Suggestion{
			ID:     fmt.Sprintf("movie:%d", m.ID),
			Text:   m.Title,
			Kind:   KindTitle,
			Year:   m.Year(),
			Rating: m.VoteAverage,
			Poster: m.PosterPath,
		})
	}
	for _, p := range people {
		batch = append(batch, Suggestion{
			ID:   fmt.Sprintf("person:%d", p.ID),
			Text: p.Name,
			Kind: KindPerson,
		})
	}
	for _, g := range genres {
		batch = append(batch, Suggestion{
			ID:   fmt.Sprintf("genre:%d", g.ID),
			Text: g.Name,
			Kind: KindGenre,
		})
	}

	if len(batch) > maxSuggestions {
		batch = batch[:maxSuggestions]
	}
	return batch
}

// DefaultSuggestions is the empty-query display mode: the newest recency
// entries followed by the static trending terms.
func (a *Aggregator) DefaultSuggestions() []Suggestion {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.defaultBatchLocked()
}

func (a *Aggregator) defaultBatchLocked() []Suggestion {
	batch := make([]Suggestion, 0, maxSuggestions)
	for _, text := range a.recent.Head(emptyQueryRecent) {
		batch = append(batch, Suggestion{
			ID:   "recent:" + text,
			Text: text,
			Kind: KindRecent,
		})
	}
	for _, term := range a.catalog.Trending(emptyQueryTrending) {
		if len(batch) == maxSuggestions {
			break
		}
		batch = append(batch, Suggestion{
			ID:   "trending:" + term,
			Text: term,
			Kind: KindTrending,
		})
	}
	return batch
}

// fetchRemote runs the title and person lookups in parallel. Each failure
// degrades to zero entries for that source: logged, swallowed, no retries.
func (a *Aggregator) fetchRemote(ctx context.Context, query string) ([]tmdb.Movie, []tmdb.Person) {
	if a.remote == nil || !a.remote.Enabled() {
		return nil, nil
	}

	var (
		titles []tmdb.Movie
		people []tmdb.Person
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movies, err := a.remote.SearchMovies(gctx, query, maxTitleMatches)
		if err != nil {
			a.log.Warn("title lookup failed", zap.String("query", query), zap.Error(err))
			return nil
		}
		titles = movies
		return nil
	})
	g.Go(func() error {
		found, err := a.remote.SearchPeople(gctx, query, maxPersonMatches)
		if err != nil {
			a.log.Warn("person lookup failed", zap.String("query", query), zap.Error(err))
			return nil
		}
		people = found
		return nil
	})
	_ = g.Wait()

	if len(titles) > maxTitleMatches {
		titles = titles[:maxTitleMatches]
	}
	if len(people) > maxPersonMatches {
		people = people[:maxPersonMatches]
	}
	return titles, people
}

func (a *Aggregator) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
