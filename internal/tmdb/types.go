package tmdb

import "strconv"

// Movie is a single entry from TMDB search and listing responses.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// Year extracts the release year, 0 when unknown.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Person is a single entry from TMDB person search responses.
type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	ProfilePath        string  `json:"profile_path"`
	Popularity         float64 `json:"popularity"`
	KnownFor           []Movie `json:"known_for"`
}

// Genre as embedded in movie detail responses.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full record behind a single movie.
type MovieDetails struct {
	Movie
	Runtime  int     `json:"runtime"`
	Genres   []Genre `json:"genres"`
	Tagline  string  `json:"tagline"`
	Status   string  `json:"status"`
	Homepage string  `json:"homepage"`
	IMDbID   string  `json:"imdb_id"`
}

// MoviePage is one page of a paginated movie response.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type personPage struct {
	Page         int      `json:"page"`
	Results      []Person `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}
