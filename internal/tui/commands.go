package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/marquee/internal/tmdb"
)

// wrapErr gives transport errors a short user-facing prefix.
func wrapErr(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

func (a *App) loadCategory(index int) tea.Cmd {
	cat := categories[index]
	return func() tea.Msg {
		if !a.client.Enabled() {
			return categoryLoadedMsg{index: index}
		}

		var (
			page *tmdb.MoviePage
			err  error
		)
		if cat.list == "" {
			page, err = a.client.Trending(context.Background(), "week", 1)
		} else {
			page, err = a.client.Movies(context.Background(), cat.list, 1)
		}
		if err != nil {
			return errorMsg{err: wrapErr("loading "+strings.ToLower(cat.title), err)}
		}

		return categoryLoadedMsg{index: index, movies: page.Results}
	}
}

func (a *App) searchMovies(query string) tea.Cmd {
	return func() tea.Msg {
		if !a.client.Enabled() {
			return searchResultsMsg{query: query, remoteDisabled: true}
		}

		movies, err := a.client.SearchMovies(context.Background(), query, maxSearchResults)
		if err != nil {
			return errorMsg{err: wrapErr("searching", err)}
		}

		return searchResultsMsg{query: query, movies: movies}
	}
}

func (a *App) loadDetail(id int) tea.Cmd {
	return func() tea.Msg {
		details, err := a.client.MovieDetails(context.Background(), id)
		if err != nil {
			return errorMsg{err: wrapErr("loading details", err)}
		}

		// Use cached renderer for better performance
		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(detailMarkdown(details))
		if err != nil {
			// Keep the message type so the loading flag always clears
			return detailRenderedMsg{content: fmt.Sprintf("# Error\n\nFailed to render details: %s\n\nPress Escape to go back.", err.Error())}
		}

		return detailRenderedMsg{content: rendered}
	}
}

// detailMarkdown lays out movie details for the glamour renderer.
func detailMarkdown(d *tmdb.MovieDetails) string {
	var content strings.Builder

	title := d.Title
	if year := d.Year(); year > 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	content.WriteString(fmt.Sprintf("# %s\n\n", title))

	if d.Tagline != "" {
		content.WriteString(fmt.Sprintf("*%s*\n\n", d.Tagline))
	}

	var facts []string
	if d.VoteAverage > 0 {
		facts = append(facts, fmt.Sprintf("★ %.1f (%d votes)", d.VoteAverage, d.VoteCount))
	}
	if d.Runtime > 0 {
		facts = append(facts, fmt.Sprintf("%d min", d.Runtime))
	}
	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		facts = append(facts, strings.Join(names, ", "))
	}
	if d.ReleaseDate != "" {
		facts = append(facts, d.ReleaseDate)
	}
	if len(facts) > 0 {
		content.WriteString("**" + strings.Join(facts, " • ") + "**\n\n")
	}

	content.WriteString("---\n\n")

	if d.Overview != "" {
		content.WriteString(d.Overview)
	} else {
		content.WriteString("No overview available.")
	}
	content.WriteString("\n\n")

	if d.Homepage != "" {
		content.WriteString(fmt.Sprintf("[Homepage](%s)\n\n", d.Homepage))
	}
	content.WriteString(fmt.Sprintf("[TMDB](%s)\n", tmdb.MoviePageURL(d.ID)))

	return content.String()
}

// openMoviePage opens the movie's TMDB page in the default browser.
func (a *App) openMoviePage(id int) tea.Cmd {
	url := tmdb.MoviePageURL(id)
	a.setStatus("Opening "+truncateMiddle(url, 48), StatusInfo)
	return func() tea.Msg {
		if err := a.opener.Open(url); err != nil {
			return errorMsg{err: wrapErr("opening browser", err)}
		}
		return browserOpenedMsg{}
	}
}
