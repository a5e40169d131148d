package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/suggest"
	"github.com/pders01/marquee/internal/tmdb"
)

type KeyHandler struct {
	app *App
	kb  config.KeyBindings
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, kb: cfg.Keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is open every plain key is filter text,
	// so custom bindings must not intercept it.
	if kh.isFiltering() {
		if msg.String() == "ctrl+c" {
			return kh.app, tea.Quit
		}
		return kh.delegateToCharm(msg)
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg.String()); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isFiltering() bool {
	return kh.app.view == ViewBrowse && kh.app.movieList.FilterState() == list.Filtering
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewSearch && kh.app.searchInput.Focused()
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return kh.app, tea.Quit
	case "esc":
		return kh.leaveSearch()
	case "enter":
		kh.app.agg.Submit(kh.app.searchInput.Value())
		return kh.app, nil
	case "tab", "down":
		if len(kh.app.suggestions) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchFocus = focusSuggestions
			kh.app.suggestionCursor = 0
			return kh.app, nil
		}
		if len(kh.app.resultList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchFocus = focusResults
			kh.app.resultList.Select(0)
			return kh.app, nil
		}
		return kh.app, nil
	default:
		return kh.delegateToSearchInput(msg)
	}
}

// delegateToSearchInput passes the key to the input box, then tells
// the aggregator about the new text if it changed.
func (kh *KeyHandler) delegateToSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	if val := kh.app.searchInput.Value(); val != prev {
		kh.app.agg.SetQuery(sanitizeSearchInput(val))
	}
	return kh.app, cmd
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	// Global custom keys
	switch key {
	case "ctrl+c", kh.kb.Quit:
		return kh.app, tea.Quit, true
	case kh.kb.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.kb.Search:
		if kh.app.view != ViewSearch {
			model, cmd := kh.enterSearchMode()
			return model, cmd, true
		}
	}

	// View-specific custom keys
	switch kh.app.view {
	case ViewBrowse:
		return kh.handleBrowseKeys(key)
	case ViewDetail:
		return kh.handleDetailKeys(key)
	default:
		return kh.app, nil, false
	}
}

// handleBrowseKeys handles only custom action keys in browse view
func (kh *KeyHandler) handleBrowseKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case kh.kb.NextCategory:
		return kh.switchCategory(1)
	case kh.kb.PrevCategory:
		return kh.switchCategory(-1)
	case kh.kb.Refresh:
		return kh.app, tea.Batch(
			kh.app.startSpinner(MsgLoadingMovies),
			kh.app.loadCategory(kh.app.categoryIndex),
		), true
	case kh.kb.OpenBrowser:
		if i, ok := kh.app.movieList.SelectedItem().(movieItem); ok {
			return kh.app, kh.app.openMoviePage(i.movie.ID), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) switchCategory(delta int) (tea.Model, tea.Cmd, bool) {
	n := len(categories)
	kh.app.categoryIndex = (kh.app.categoryIndex + delta + n) % n
	kh.app.movieList.Title = "› " + strings.ToLower(categories[kh.app.categoryIndex].title)
	return kh.app, tea.Batch(
		kh.app.startSpinner(MsgLoadingMovies),
		kh.app.loadCategory(kh.app.categoryIndex),
	), true
}

// handleDetailKeys handles only custom action keys in detail view
func (kh *KeyHandler) handleDetailKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == kh.kb.OpenBrowser && kh.app.currentMovie != nil {
		return kh.app, kh.app.openMoviePage(kh.app.currentMovie.ID), true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewBrowse:
		// Capture before Update: accepting a filter consumes this
		// enter, so it must not also open the selection.
		wasFiltering := kh.app.movieList.FilterState() == list.Filtering
		kh.app.movieList, cmd = kh.app.movieList.Update(msg)
		if msg.String() == "enter" && !wasFiltering {
			if i, ok := kh.app.movieList.SelectedItem().(movieItem); ok {
				return kh.openDetail(i.movie, false)
			}
		}
		return kh.app, cmd

	case ViewSearch:
		return kh.handleSearchListKeys(msg)

	case ViewDetail:
		// Let viewport handle scrolling
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleSearchListKeys drives focus between the suggestion block and
// the result list once the input box has been blurred.
func (kh *KeyHandler) handleSearchListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch kh.app.searchFocus {
	case focusSuggestions:
		switch key {
		case "up", "k":
			if kh.app.suggestionCursor <= 0 {
				return kh.focusSearchInput()
			}
			kh.app.suggestionCursor--
			return kh.app, nil
		case "down", "j":
			if kh.app.suggestionCursor < len(kh.app.suggestions)-1 {
				kh.app.suggestionCursor++
			}
			return kh.app, nil
		case "tab":
			if len(kh.app.resultList.Items()) > 0 {
				kh.app.searchFocus = focusResults
				kh.app.resultList.Select(0)
				return kh.app, nil
			}
			return kh.focusSearchInput()
		case "enter":
			if kh.app.suggestionCursor >= 0 && kh.app.suggestionCursor < len(kh.app.suggestions) {
				return kh.selectSuggestion(kh.app.suggestions[kh.app.suggestionCursor])
			}
			return kh.app, nil
		case "/", "i":
			return kh.focusSearchInput()
		default:
			return kh.app, nil
		}

	case focusResults:
		switch key {
		case "tab", "shift+tab", "/", "i":
			return kh.focusSearchInput()
		case "up":
			// Navigate up in results, climb back out at the top
			if kh.app.resultList.Index() == 0 {
				if len(kh.app.suggestions) > 0 {
					kh.app.searchFocus = focusSuggestions
					kh.app.suggestionCursor = len(kh.app.suggestions) - 1
					return kh.app, nil
				}
				return kh.focusSearchInput()
			}
		case "enter":
			if i, ok := kh.app.resultList.SelectedItem().(movieItem); ok {
				return kh.openDetail(i.movie, true)
			}
			return kh.app, nil
		}

		var cmd tea.Cmd
		kh.app.resultList, cmd = kh.app.resultList.Update(msg)
		return kh.app, cmd

	default:
		return kh.focusSearchInput()
	}
}

// selectSuggestion promotes a suggestion to a full search.
func (kh *KeyHandler) selectSuggestion(s suggest.Suggestion) (tea.Model, tea.Cmd) {
	kh.app.searchInput.SetValue(s.Text)
	kh.app.agg.Submit(s.Text)
	return kh.focusSearchInput()
}

func (kh *KeyHandler) focusSearchInput() (tea.Model, tea.Cmd) {
	kh.app.searchFocus = focusInput
	kh.app.suggestionCursor = -1
	return kh.app, kh.app.searchInput.Focus()
}

func (kh *KeyHandler) openDetail(movie tmdb.Movie, fromSearch bool) (tea.Model, tea.Cmd) {
	m := movie
	kh.app.currentMovie = &m
	kh.app.cameFromSearch = fromSearch
	kh.app.loadingDetail = true
	kh.app.previousView = kh.app.view
	kh.app.view = ViewDetail
	return kh.app, tea.Batch(
		kh.app.startSpinner(MsgLoadingDetails),
		kh.app.loadDetail(movie.ID),
	)
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		return kh.leaveSearch()

	case ViewDetail:
		kh.app.currentMovie = nil
		kh.app.loadingDetail = false
		if kh.app.cameFromSearch {
			kh.app.cameFromSearch = false
			kh.app.view = ViewSearch
			// Land on the results, not the input, for quick browsing
			kh.app.searchInput.Blur()
			kh.app.searchFocus = focusResults
			return kh.app, nil
		}
		kh.app.view = ViewBrowse
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// leaveSearch abandons the search session. Recent searches survive,
// everything else resets.
func (kh *KeyHandler) leaveSearch() (tea.Model, tea.Cmd) {
	kh.app.agg.Clear()
	kh.app.searchInput.Reset()
	kh.app.searchInput.Blur()
	kh.app.searchFocus = focusInput
	kh.app.suggestionCursor = -1
	kh.app.suggestions = nil
	kh.app.results = nil
	kh.app.searchQuery = ""
	kh.app.resultList.SetItems([]list.Item{})
	kh.app.setStatus("", StatusInfo)
	kh.app.view = kh.app.previousView
	return kh.app, nil
}

// enterSearchMode transitions to search view
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.previousView = kh.app.view
	kh.app.view = ViewSearch
	kh.app.searchFocus = focusInput
	kh.app.suggestionCursor = -1
	kh.app.suggestions = nil
	kh.app.results = nil
	kh.app.searchQuery = ""
	kh.app.resultList.SetItems([]list.Item{})
	kh.app.setStatus("", StatusInfo)
	kh.app.searchInput.Reset()

	// Clearing emits the empty-query batch, so recent searches and
	// trending titles show up before the first keystroke.
	kh.app.agg.Clear()

	return kh.app, kh.app.searchInput.Focus()
}

// sanitizeSearchInput normalizes whitespace and caps query length.
func sanitizeSearchInput(input string) string {
	input = strings.TrimSpace(input)

	if len(input) > maxQueryLength {
		input = input[:maxQueryLength]
	}

	// Remove newlines/tabs
	input = strings.ReplaceAll(input, "\n", " ")
	input = strings.ReplaceAll(input, "\r", " ")
	input = strings.ReplaceAll(input, "\t", " ")

	// Collapse multiple spaces
	for strings.Contains(input, "  ") {
		input = strings.ReplaceAll(input, "  ", " ")
	}

	return strings.TrimSpace(input)
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewBrowse:
		return []string{
			kh.kb.NextCategory + ": category",
			kh.kb.Search + ": search",
			"enter: details",
			kh.kb.OpenBrowser + ": open tmdb",
			kh.kb.Refresh + ": refresh",
			kh.kb.Quit + ": quit",
		}

	case ViewSearch:
		return []string{"enter: search", kh.kb.Back + ": back"}

	case ViewDetail:
		return []string{
			kh.kb.OpenBrowser + ": open tmdb",
			kh.kb.Back + ": back",
			kh.kb.Quit + ": quit",
		}

	default:
		return []string{}
	}
}
