package tui

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/logging"
	"github.com/pders01/marquee/internal/suggest"
	"github.com/pders01/marquee/internal/tmdb"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.TestConfig()
	cat, err := catalog.Load()
	require.NoError(t, err)

	client := tmdb.NewClient(cfg.TMDB, logging.Nop())
	app := NewApp(client, cat, cfg, logging.Nop())
	t.Cleanup(app.Close)

	return app
}

// newStubApp backs the client with a local TMDB stub and forwards
// aggregator emissions to the returned channel.
func newStubApp(t *testing.T, handler http.Handler) (*App, chan tea.Msg) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.TestConfig()
	cfg.TMDB.BaseURL = srv.URL
	cfg.Search.Debounce = 10 * time.Millisecond

	cat, err := catalog.Load()
	require.NoError(t, err)

	client := tmdb.NewClient(cfg.TMDB, logging.Nop())
	app := NewApp(client, cat, cfg, logging.Nop())
	t.Cleanup(app.Close)

	msgs := make(chan tea.Msg, emitBuffer)
	app.SetEmitter(func(m tea.Msg) { msgs <- m })

	return app, msgs
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func nextMsg(t *testing.T, ch <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func testMovies(titles ...string) []tmdb.Movie {
	movies := make([]tmdb.Movie, len(titles))
	for i, title := range titles {
		movies[i] = tmdb.Movie{ID: i + 1, Title: title, Overview: "Test overview"}
	}
	return movies
}

func movieItems(movies []tmdb.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

func TestViewStateTransitions(t *testing.T) {
	tests := []struct {
		name         string
		msg          tea.Msg
		expectedView View
		setupFunc    func(*App)
	}{
		{
			name:         "ViewBrowse to ViewSearch on 's'",
			msg:          keyRunes('s'),
			expectedView: ViewSearch,
		},
		{
			name:         "ViewSearch back to ViewBrowse on Escape",
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewBrowse,
			setupFunc: func(a *App) {
				a.view = ViewSearch
			},
		},
		{
			name:         "ViewBrowse to ViewDetail on Enter",
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewDetail,
			setupFunc: func(a *App) {
				a.movies = testMovies("The Matrix")
				a.movieList.SetItems(movieItems(a.movies))
			},
		},
		{
			name:         "ViewDetail to ViewBrowse on Escape",
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewBrowse,
			setupFunc: func(a *App) {
				a.view = ViewDetail
			},
		},
		{
			name:         "ViewDetail back to ViewSearch when opened from results",
			msg:          tea.KeyMsg{Type: tea.KeyEsc},
			expectedView: ViewSearch,
			setupFunc: func(a *App) {
				a.view = ViewDetail
				a.cameFromSearch = true
			},
		},
		{
			name:         "Result selection opens ViewDetail",
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			expectedView: ViewDetail,
			setupFunc: func(a *App) {
				a.view = ViewSearch
				a.searchInput.Blur()
				a.searchFocus = focusResults
				a.results = testMovies("Dune")
				a.resultList.SetItems(movieItems(a.results))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			if tt.setupFunc != nil {
				tt.setupFunc(app)
			}

			updatedModel, _ := app.Update(tt.msg)
			updatedApp, ok := updatedModel.(*App)
			require.True(t, ok, "model should be *App")

			assert.Equal(t, tt.expectedView, updatedApp.view,
				"expected view to be %v but got %v", tt.expectedView, updatedApp.view)
		})
	}
}

func TestEnterSearchModeFocusesInput(t *testing.T) {
	app := newTestApp(t)

	updatedModel, _ := app.Update(keyRunes('s'))
	updatedApp := updatedModel.(*App)

	assert.Equal(t, ViewSearch, updatedApp.view)
	assert.True(t, updatedApp.searchInput.Focused(), "search input should be focused")
	assert.Equal(t, focusInput, updatedApp.searchFocus)
}

func TestDetailFromSearchLandsOnResults(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewDetail
	app.cameFromSearch = true
	app.results = testMovies("Dune")
	app.resultList.SetItems(movieItems(app.results))

	updatedModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	updatedApp := updatedModel.(*App)

	assert.Equal(t, ViewSearch, updatedApp.view)
	assert.Equal(t, focusResults, updatedApp.searchFocus)
	assert.False(t, updatedApp.searchInput.Focused(), "results should hold focus, not the input")
	assert.False(t, updatedApp.cameFromSearch, "flag should reset after use")
}

func TestCategoryCycling(t *testing.T) {
	app := newTestApp(t)

	updatedModel, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	updatedApp := updatedModel.(*App)

	assert.Equal(t, 1, updatedApp.categoryIndex)
	assert.Equal(t, "› top rated", updatedApp.movieList.Title)
	assert.NotNil(t, cmd, "switching categories should queue a load")

	// Wrap backwards past the first category
	updatedModel, _ = updatedApp.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	updatedModel, _ = updatedModel.(*App).Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	updatedApp = updatedModel.(*App)

	assert.Equal(t, len(categories)-1, updatedApp.categoryIndex)
	assert.Equal(t, "› trending", updatedApp.movieList.Title)
}

func TestTypingEmitsSearchThenSuggestions(t *testing.T) {
	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/movie"):
			fmt.Fprint(w, `{"page":1,"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-31","vote_average":8.2}],"total_pages":1,"total_results":1}`)
		case strings.HasPrefix(r.URL.Path, "/search/person"):
			fmt.Fprint(w, `{"page":1,"results":[{"id":6384,"name":"Keanu Reeves"}],"total_pages":1,"total_results":1}`)
		default:
			fmt.Fprint(w, `{"page":1,"results":[],"total_pages":1,"total_results":0}`)
		}
	})

	app, msgs := newStubApp(t, stub)

	// Entering search mode clears the query, which emits an empty
	// search plus the default suggestion batch.
	app.Update(keyRunes('s'))

	accepted := nextMsg(t, msgs)
	require.IsType(t, searchAcceptedMsg{}, accepted)
	assert.Equal(t, "", accepted.(searchAcceptedMsg).query)

	defaults := nextMsg(t, msgs)
	require.IsType(t, suggestionsMsg{}, defaults)

	// One keystroke, then the debounce fires: the accepted query comes
	// first, the fetched batch afterwards.
	app.Update(keyRunes('m'))

	accepted = nextMsg(t, msgs)
	require.IsType(t, searchAcceptedMsg{}, accepted)
	assert.Equal(t, "m", accepted.(searchAcceptedMsg).query)

	batchMsg := nextMsg(t, msgs)
	require.IsType(t, suggestionsMsg{}, batchMsg)
	batch := batchMsg.(suggestionsMsg).batch
	require.NotEmpty(t, batch)
	assert.Equal(t, suggest.KindTitle, batch[0].Kind, "titles rank first with no recency matches")
	assert.Equal(t, "The Matrix", batch[0].Text)

	var personFound bool
	for _, s := range batch {
		if s.Kind == suggest.KindPerson && s.Text == "Keanu Reeves" {
			personFound = true
		}
	}
	assert.True(t, personFound, "person matches should be merged into the batch")

	assert.Equal(t, []string{"m"}, app.agg.Recent(), "a debounced fire counts as an accepted search")

	// Feeding the batch back through Update populates the dropdown.
	updatedModel, _ := app.Update(batchMsg)
	assert.Len(t, updatedModel.(*App).suggestions, len(batch))
}

func TestSuggestionsIgnoredOutsideSearchView(t *testing.T) {
	app := newTestApp(t)

	batch := []suggest.Suggestion{{ID: "trending:Dune", Text: "Dune", Kind: suggest.KindTrending}}
	updatedModel, _ := app.Update(suggestionsMsg{batch: batch})
	updatedApp := updatedModel.(*App)

	assert.Empty(t, updatedApp.suggestions, "browse view should drop suggestion batches")
}

func TestSearchAcceptedStartsRemoteSearch(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewSearch

	updatedModel, cmd := app.Update(searchAcceptedMsg{query: "dune"})
	updatedApp := updatedModel.(*App)

	assert.Equal(t, "dune", updatedApp.searchQuery)
	assert.True(t, updatedApp.spinning)
	assert.Equal(t, MsgSearching, updatedApp.status)
	assert.NotNil(t, cmd, "a non-empty acceptance should queue the search")
}

func TestSearchAcceptedEmptyClearsResults(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewSearch
	app.searchQuery = "dune"
	app.results = testMovies("Dune")
	app.resultList.SetItems(movieItems(app.results))

	updatedModel, _ := app.Update(searchAcceptedMsg{query: ""})
	updatedApp := updatedModel.(*App)

	assert.Equal(t, "", updatedApp.searchQuery)
	assert.Empty(t, updatedApp.results)
	assert.Empty(t, updatedApp.resultList.Items())
	assert.False(t, updatedApp.spinning)
}

func TestSearchResultsStaleQueryDropped(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewSearch
	app.searchQuery = "dune part two"

	updatedModel, _ := app.Update(searchResultsMsg{query: "dune", movies: testMovies("Dune")})
	updatedApp := updatedModel.(*App)

	assert.Empty(t, updatedApp.results, "results for an outdated query should be discarded")

	updatedModel, _ = updatedApp.Update(searchResultsMsg{query: "dune part two", movies: testMovies("Dune: Part Two")})
	updatedApp = updatedModel.(*App)

	require.Len(t, updatedApp.results, 1)
	assert.Equal(t, "1 result", updatedApp.status)
}

func TestSearchResultsRemoteDisabled(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewSearch
	app.searchQuery = "dune"

	updatedModel, _ := app.Update(searchResultsMsg{query: "dune", remoteDisabled: true})
	updatedApp := updatedModel.(*App)

	assert.Equal(t, MsgRemoteDisabled, updatedApp.status)
	assert.Equal(t, StatusWarn, updatedApp.statusKind)
}

func TestDetailRenderedClearsLoading(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewDetail
	app.loadingDetail = true
	app.spinning = true

	updatedModel, _ := app.Update(detailRenderedMsg{content: "# The Matrix"})
	updatedApp := updatedModel.(*App)

	assert.False(t, updatedApp.loadingDetail)
	assert.False(t, updatedApp.spinning)
}

func TestErrorShowsInStatusBar(t *testing.T) {
	app := newTestApp(t)
	app.width = 80
	app.height = 24

	updatedModel, _ := app.Update(errorMsg{err: errors.New("boom")})
	updatedApp := updatedModel.(*App)

	require.Error(t, updatedApp.err)
	bar := updatedApp.getCustomStatusBar()
	assert.Contains(t, bar, "✗")
	assert.Contains(t, bar, "boom")
}

func TestWelcomeBannerWithoutAPIKey(t *testing.T) {
	cfg := config.TestConfig()
	cfg.TMDB.APIKey = ""

	cat, err := catalog.Load()
	require.NoError(t, err)

	app := NewApp(tmdb.NewClient(cfg.TMDB, logging.Nop()), cat, cfg, logging.Nop())
	t.Cleanup(app.Close)

	updatedModel, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := updatedModel.(*App).View()

	assert.Contains(t, view, "MARQUEE_TMDB_API_KEY")
}

func TestSuggestionSelectionSubmitsQuery(t *testing.T) {
	app := newTestApp(t)
	app.Update(keyRunes('s'))
	app.suggestions = []suggest.Suggestion{
		{ID: "trending:Dune", Text: "Dune", Kind: suggest.KindTrending},
		{ID: "genre:878", Text: "Science Fiction", Kind: suggest.KindGenre},
	}

	// Tab moves focus into the dropdown, enter promotes the selection.
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusSuggestions, app.searchFocus)
	require.Equal(t, 0, app.suggestionCursor)

	updatedModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updatedApp := updatedModel.(*App)

	assert.Equal(t, "Dune", updatedApp.searchInput.Value())
	assert.Equal(t, []string{"Dune"}, updatedApp.agg.Recent(), "submitting a suggestion should push it into recents")
	assert.Equal(t, focusInput, updatedApp.searchFocus)
	assert.True(t, updatedApp.searchInput.Focused())
}

func TestSuggestionCursorNavigation(t *testing.T) {
	app := newTestApp(t)
	app.Update(keyRunes('s'))
	app.suggestions = []suggest.Suggestion{
		{ID: "trending:Dune", Text: "Dune", Kind: suggest.KindTrending},
		{ID: "trending:Oppenheimer", Text: "Oppenheimer", Kind: suggest.KindTrending},
	}

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 0, app.suggestionCursor)

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.suggestionCursor)

	// Down at the bottom stays put
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, app.suggestionCursor)

	// Up past the top hands focus back to the input
	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, focusInput, app.searchFocus)
	assert.True(t, app.searchInput.Focused())
}

func TestLeaveSearchKeepsRecents(t *testing.T) {
	app := newTestApp(t)
	app.Update(keyRunes('s'))
	app.agg.Submit("dune")

	updatedModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	updatedApp := updatedModel.(*App)

	assert.Equal(t, ViewBrowse, updatedApp.view)
	assert.Equal(t, "", updatedApp.searchInput.Value())
	assert.Empty(t, updatedApp.suggestions)
	assert.Equal(t, []string{"dune"}, updatedApp.agg.Recent(), "escape must not wipe recent searches")
}

func TestNoSuggestionsPlaceholder(t *testing.T) {
	app := newTestApp(t)
	app.view = ViewSearch
	app.width = 80
	app.height = 40
	app.searchInput.SetValue("zzzz")

	out := app.renderSuggestions()
	assert.Contains(t, out, MsgNoSuggestions)

	// An empty input shows nothing instead
	app.searchInput.SetValue("")
	out = app.renderSuggestions()
	assert.NotContains(t, out, MsgNoSuggestions)
}

func TestMovieItemRendering(t *testing.T) {
	m := tmdb.Movie{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-31",
		Overview:    strings.Repeat("a", 200),
		VoteAverage: 8.2,
	}

	item := movieItem{movie: m, descLimit: 50}

	assert.Equal(t, "The Matrix (1999)", item.Title())
	assert.Contains(t, item.Description(), "★ 8.2")
	assert.Contains(t, item.Description(), ellipsis)
	assert.Equal(t, "The Matrix", item.FilterValue())
}
