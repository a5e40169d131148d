package tui

import "github.com/pders01/marquee/internal/tmdb"

// View identifies the top-level screen being rendered.
type View int

const (
	ViewBrowse View = iota
	ViewSearch
	ViewDetail
)

// searchFocus tracks which part of the search view receives keys while
// the text input is blurred.
type searchFocus int

const (
	focusInput searchFocus = iota
	focusSuggestions
	focusResults
)

// category is one browsable movie listing. Trending is served by its
// own endpoint and is marked by an empty list value.
type category struct {
	title string
	list  tmdb.List
}

var categories = []category{
	{title: "Popular", list: tmdb.ListPopular},
	{title: "Top Rated", list: tmdb.ListTopRated},
	{title: "Now Playing", list: tmdb.ListNowPlaying},
	{title: "Upcoming", list: tmdb.ListUpcoming},
	{title: "Trending"},
}
