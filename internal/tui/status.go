package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind indicates severity for status bar messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

// Canonical short status messages used across the app.
const (
	MsgLoadingMovies  = "Loading movies…"
	MsgSearching      = "Searching…"
	MsgLoadingDetails = "Loading details…"
	MsgNoSuggestions  = "No suggestions"
	MsgOpenedBrowser  = "Opened in browser"
	MsgRemoteDisabled = "Searching requires a TMDB API key"
)

func MsgResultsCount(n int) string {
	switch n {
	case 0:
		return "No results"
	case 1:
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}
