package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pders01/marquee/internal/browser"
	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/suggest"
	"github.com/pders01/marquee/internal/tmdb"
)

const (
	// searchChromeHeight is the vertical budget above the result list:
	// header, input frame, suggestion block, and hint line.
	searchChromeHeight = 19
	// suggestionRows matches the aggregator's batch cap.
	suggestionRows = 8

	maxSearchResults = 20
	maxQueryLength   = 256
	emitBuffer       = 32
)

type App struct {
	config  *config.Config
	client  *tmdb.Client
	catalog *catalog.Catalog
	agg     *suggest.Aggregator
	opener  *browser.Opener
	log     *zap.Logger

	keyHandler *KeyHandler

	movieList   list.Model
	resultList  list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model

	view           View
	previousView   View
	cameFromSearch bool // Track if current movie was selected from search
	searchFocus    searchFocus

	categoryIndex int
	movies        []tmdb.Movie
	results       []tmdb.Movie

	suggestions      []suggest.Suggestion
	suggestionCursor int
	searchQuery      string

	currentMovie *tmdb.Movie

	width  int
	height int

	err        error
	status     string
	statusKind StatusKind
	spinning   bool

	loadingDetail bool // Track if we're loading movie details

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int // Track the width used for the renderer

	msgc chan tea.Msg
}

func NewApp(client *tmdb.Client, cat *catalog.Catalog, cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}

	ApplyTheme(cfg.UI.Colors)

	movieList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	movieList.Title = "› " + strings.ToLower(categories[0].title)
	movieList.SetShowStatusBar(false)
	movieList.SetFilteringEnabled(true)
	movieList.SetShowHelp(true) // Let Charm show native help

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.Title = "› results"
	resultList.SetShowStatusBar(false)
	resultList.SetShowHelp(false) // No native filtering for search results
	resultList.SetFilteringEnabled(false)

	vp := viewport.New(0, 0)

	si := textinput.New()
	si.Placeholder = cfg.Search.Placeholder
	si.CharLimit = maxQueryLength

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:           cfg,
		client:           client,
		catalog:          cat,
		opener:           browser.NewOpener(""),
		log:              log,
		movieList:        movieList,
		resultList:       resultList,
		searchInput:      si,
		viewport:         vp,
		spinner:          sp,
		view:             ViewBrowse,
		previousView:     ViewBrowse,
		suggestionCursor: -1,
		msgc:             make(chan tea.Msg, emitBuffer),
	}

	app.agg = suggest.New(client, cat, suggest.Callbacks{
		OnSearch: func(query string) {
			app.send(searchAcceptedMsg{query: query})
		},
		OnSuggestions: func(batch []suggest.Suggestion) {
			app.send(suggestionsMsg{batch: batch})
		},
	}, suggest.Options{
		Debounce: cfg.Search.Debounce,
		Logger:   log,
	})

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// send posts a message toward the running program. It must never
// block: callbacks fire on timer goroutines and, for immediate
// emissions, on the update loop itself. Drop rather than deadlock.
func (a *App) send(msg tea.Msg) {
	select {
	case a.msgc <- msg:
	default:
		a.log.Warn("dropping ui message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// SetEmitter starts forwarding aggregator messages to the program.
// Wire it to Program.Send after tea.NewProgram, before Run.
func (a *App) SetEmitter(emit func(tea.Msg)) {
	go func() {
		for msg := range a.msgc {
			emit(msg)
		}
	}()
}

// Close releases the aggregator's timer and workers. The message
// channel stays open: a batch already past the staleness check may
// still deliver while we shut down.
func (a *App) Close() {
	a.agg.Close()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.startSpinner(MsgLoadingMovies),
		a.loadCategory(a.categoryIndex),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.movieList.SetSize(msg.Width, msg.Height-3)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3
		resultHeight := msg.Height - searchChromeHeight
		if resultHeight < 5 {
			resultHeight = 5 // Minimum height
		}
		a.resultList.SetSize(msg.Width, resultHeight)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.spinning {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case categoryLoadedMsg:
		// A slow response for a category the user already left is
		// stale; the switch queued a fresh load for the current one.
		if msg.index == a.categoryIndex {
			a.movies = msg.movies
			items := make([]list.Item, len(msg.movies))
			for i, m := range msg.movies {
				items[i] = movieItem{movie: m, descLimit: a.config.UI.Detail.MaxOverviewLength}
			}
			a.movieList.SetItems(items)
			a.err = nil
			a.stopSpinner()
			a.setStatus("", StatusInfo)
		}

	case suggestionsMsg:
		if a.view == ViewSearch {
			a.suggestions = msg.batch
			if a.suggestionCursor >= len(msg.batch) {
				a.suggestionCursor = len(msg.batch) - 1
			}
		}

	case searchAcceptedMsg:
		if a.view == ViewSearch {
			if msg.query == "" {
				a.searchQuery = ""
				a.results = nil
				a.resultList.SetItems([]list.Item{})
				a.stopSpinner()
				a.setStatus("", StatusInfo)
			} else {
				a.searchQuery = msg.query
				cmds = append(cmds, a.startSpinner(MsgSearching), a.searchMovies(msg.query))
			}
		}

	case searchResultsMsg:
		// Only the response for the query we are still showing counts.
		if a.view == ViewSearch && msg.query == a.searchQuery {
			a.results = msg.movies
			items := make([]list.Item, len(msg.movies))
			for i, m := range msg.movies {
				items[i] = movieItem{movie: m, descLimit: a.config.UI.Detail.MaxOverviewLength}
			}
			a.resultList.SetItems(items)
			a.err = nil
			a.stopSpinner()
			if msg.remoteDisabled {
				a.setStatus(MsgRemoteDisabled, StatusWarn)
			} else {
				a.setStatus(MsgResultsCount(len(msg.movies)), StatusInfo)
			}
		}

	case detailRenderedMsg:
		if a.view == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
			a.stopSpinner()
			a.setStatus("", StatusInfo)
		}

	case browserOpenedMsg:
		a.setStatus(MsgOpenedBrowser, StatusSuccess)

	case errorMsg:
		a.err = msg.err
		a.loadingDetail = false
		a.stopSpinner()
	}

	switch a.view {
	case ViewBrowse:
		newListModel, cmd := a.movieList.Update(msg)
		a.movieList = newListModel
		cmds = append(cmds, cmd)
	case ViewSearch:
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)

		newResultList, listCmd := a.resultList.Update(msg)
		a.resultList = newResultList
		cmds = append(cmds, listCmd)
	case ViewDetail:
		switch msg.(type) {
		case tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewBrowse:
		if len(a.movies) == 0 {
			hint := "Loading movies…"
			if !a.client.Enabled() {
				hint = "Set MARQUEE_TMDB_API_KEY to browse TMDB • s: search • q: quit"
			}
			content = renderCentered(a.width, a.height-3, GetCompactBanner(hint))
		} else {
			content = a.movieList.View()
		}
	case ViewSearch:
		content = a.renderSearchView()
	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, a.height-3, renderMuted(MsgLoadingDetails))
		} else {
			content = a.viewport.View()
		}
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

func (a *App) renderSearchView() string {
	inputWidth := a.width - 8 // Account for border, padding, and margins
	if inputWidth < 10 {
		inputWidth = a.width - 4
	}
	a.searchInput.Width = inputWidth

	header := "› search"
	if a.searchQuery != "" {
		header = "› search: " + a.searchQuery
	}

	var hint string
	switch a.searchFocus {
	case focusSuggestions:
		hint = "↑↓: suggestions • Enter: search • Tab: results • Esc: back"
	case focusResults:
		hint = "↑↓: navigate • Enter: details • Tab: search box • Esc: back"
	default:
		hint = "Type to search • Tab/↓: suggestions • Esc: back"
	}

	searchContent := lipgloss.JoinVertical(
		lipgloss.Top,
		renderHeader(header, "", a.width),
		"",
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), inputWidth),
		a.renderSuggestions(),
		renderHelp(hint),
		"",
		a.resultList.View(),
	)

	return ContentWrapper(a.width, a.height-3).Render(searchContent)
}

// renderSuggestions draws the dropdown under the input box. The block
// has a fixed height so the result list does not jump around while
// batches come and go.
func (a *App) renderSuggestions() string {
	var lines []string
	switch {
	case len(a.suggestions) > 0:
		for i, s := range a.suggestions {
			lines = append(lines, a.renderSuggestionLine(s, i == a.suggestionCursor))
		}
	case a.agg.Loading():
		lines = append(lines, renderMuted("…"))
	case strings.TrimSpace(a.searchInput.Value()) != "":
		lines = append(lines, renderMuted(MsgNoSuggestions))
	}

	return lipgloss.NewStyle().
		Height(suggestionRows).
		MaxHeight(suggestionRows).
		Render(strings.Join(lines, "\n"))
}

func (a *App) renderSuggestionLine(s suggest.Suggestion, selected bool) string {
	text := s.Text
	if s.Year > 0 {
		text = fmt.Sprintf("%s (%d)", text, s.Year)
	}
	if s.Rating > 0 {
		text = fmt.Sprintf("%s ★ %.1f", text, s.Rating)
	}

	line := suggestionGlyph(s.Kind) + " " + text
	if a.width > 4 {
		line = truncateEnd(line, a.width-4)
	}

	if selected {
		return SelectedItemStyle.Render(line)
	}
	return lipgloss.NewStyle().Foreground(TextColor).Render(line)
}

func suggestionGlyph(k suggest.Kind) string {
	switch k {
	case suggest.KindRecent:
		return "🕘"
	case suggest.KindTrending:
		return "🔥"
	case suggest.KindTitle:
		return "🎬"
	case suggest.KindPerson:
		return "👤"
	case suggest.KindGenre:
		return "🎭"
	default:
		return "•"
	}
}

func (a *App) getCustomStatusBar() string {
	bar := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor)

	if a.err != nil {
		return bar.Render(ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	if a.status != "" {
		text := statusStyle(a.statusKind).Render(a.status)
		if a.spinning {
			text = a.spinner.View() + " " + text
		}
		return bar.Render(text)
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}

	return bar.Render(strings.Join(commands, " • "))
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

// startSpinner begins the tick loop unless one is already running. A
// second Tick command would double the animation speed.
func (a *App) startSpinner(text string) tea.Cmd {
	a.setStatus(text, StatusInfo)
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) stopSpinner() {
	a.spinning = false
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Detail.WordWrapMaxWidth
	if maxWidth <= 0 {
		maxWidth = 120
	}
	minWidth := a.config.UI.Detail.WordWrapMinWidth
	if minWidth <= 0 {
		minWidth = 40
	}

	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth // maximum for readability
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth // minimum for readability
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type movieItem struct {
	movie     tmdb.Movie
	descLimit int
}

func (i movieItem) Title() string {
	if year := i.movie.Year(); year > 0 {
		return fmt.Sprintf("%s (%d)", i.movie.Title, year)
	}
	return i.movie.Title
}

func (i movieItem) Description() string {
	limit := i.descLimit
	if limit <= 0 {
		limit = 80
	}
	desc := truncateEnd(i.movie.Overview, limit)
	if desc == "" {
		desc = "No overview available."
	}

	rating := ""
	if i.movie.VoteAverage > 0 {
		rating = RatingStyle.Render(fmt.Sprintf(" • ★ %.1f", i.movie.VoteAverage))
	}

	return renderMuted(desc) + rating
}

func (i movieItem) FilterValue() string { return i.movie.Title }

type categoryLoadedMsg struct {
	index  int
	movies []tmdb.Movie
}

type suggestionsMsg struct {
	batch []suggest.Suggestion
}

type searchAcceptedMsg struct {
	query string
}

type searchResultsMsg struct {
	query          string
	movies         []tmdb.Movie
	remoteDisabled bool
}

type detailRenderedMsg struct {
	content string
}

type browserOpenedMsg struct{}

type errorMsg struct {
	err error
}
