package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/logging"
	"github.com/pders01/marquee/internal/tmdb"
)

func TestKeyHandler_BindingsFromConfig(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Search = "f"

	cat, err := catalog.Load()
	require.NoError(t, err)

	app := NewApp(tmdb.NewClient(cfg.TMDB, logging.Nop()), cat, cfg, logging.Nop())
	t.Cleanup(app.Close)

	assert.NotNil(t, app.keyHandler)
	assert.Equal(t, "f", app.keyHandler.kb.Search)

	updatedModel, _ := app.Update(keyRunes('f'))
	assert.Equal(t, ViewSearch, updatedModel.(*App).view, "rebound search key should open search")
}

func TestKeyHandler_QuitKey(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(keyRunes('q'))
	require.NotNil(t, cmd, "quit key should produce a command")
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestKeyHandler_FilteringSwallowsCustomKeys(t *testing.T) {
	app := newTestApp(t)
	app.movies = testMovies("The Matrix", "Dune", "Heat")
	app.movieList.SetItems(movieItems(app.movies))

	// "/" opens the list filter; from here plain keys are filter text.
	app.Update(keyRunes('/'))
	require.Equal(t, list.Filtering, app.movieList.FilterState())

	_, cmd := app.Update(keyRunes('q'))
	assert.Equal(t, ViewBrowse, app.view)
	assert.Equal(t, list.Filtering, app.movieList.FilterState())
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd(), "q while filtering must not quit")
	}
}

func TestKeyHandler_EnterWhileFilteringDoesNotOpenDetail(t *testing.T) {
	app := newTestApp(t)
	app.movies = testMovies("The Matrix", "Dune")
	app.movieList.SetItems(movieItems(app.movies))

	app.Update(keyRunes('/'))
	app.Update(keyRunes('d'))
	require.Equal(t, list.Filtering, app.movieList.FilterState())

	// This enter accepts the filter; it must not also open the movie.
	updatedModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewBrowse, updatedModel.(*App).view)
}

func TestSanitizeSearchInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"passthrough", "dune", "dune"},
		{"trims whitespace", "  dune  ", "dune"},
		{"collapses spaces", "dune   part    two", "dune part two"},
		{"newlines and tabs become spaces", "dune\npart\ttwo", "dune part two"},
		{"carriage returns stripped", "dune\r\npart", "dune part"},
		{"empty stays empty", "   ", ""},
		{"long input is capped", strings.Repeat("a", 300), strings.Repeat("a", maxQueryLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeSearchInput(tt.input))
		})
	}
}

func TestGetHelpForCurrentView(t *testing.T) {
	app := newTestApp(t)

	help := app.keyHandler.GetHelpForCurrentView()
	assert.NotEmpty(t, help)
	assert.Contains(t, strings.Join(help, " "), "search")

	app.view = ViewDetail
	help = app.keyHandler.GetHelpForCurrentView()
	assert.Contains(t, strings.Join(help, " "), "tmdb")
}
