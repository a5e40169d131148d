package suggest

import "time"

// Category caps mirror the UI: a narrow dropdown under the search box.
const (
	maxRecent        = 5
	maxTitleMatches  = 4
	maxPersonMatches = 3
	maxGenreMatches  = 2
	maxSuggestions   = 8

	emptyQueryRecent   = 3
	emptyQueryTrending = 6
)

// DefaultDebounce is the quiet period before a pending query fires.
const DefaultDebounce = 500 * time.Millisecond

// Kind classifies where a suggestion came from.
type Kind int

const (
	KindRecent Kind = iota
	KindTrending
	KindTitle
	KindPerson
	KindGenre
)

func (k Kind) String() string {
	switch k {
	case KindRecent:
		return "recent"
	case KindTrending:
		return "trending"
	case KindTitle:
		return "title"
	case KindPerson:
		return "person"
	case KindGenre:
		return "genre"
	default:
		return "unknown"
	}
}

// Suggestion is one entry in a suggestion batch. Batches are ephemeral:
// rebuilt on every emission, never stored anywhere.
type Suggestion struct {
	ID     string  // unique within one batch, e.g. "movie:603"
	Text   string
	Kind   Kind
	Year   int     // 0 when unknown
	Rating float64 // 0 when unrated
	Poster string  // TMDB poster path, "" when absent
}
