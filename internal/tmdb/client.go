// Package tmdb is a minimal client for the themoviedb.org v3 API, covering
// the endpoints marquee actually uses: movie/person search, the canned
// movie listings, trending, and single-movie details.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/pders01/marquee/internal/config"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultUserAgent    = "marquee/1.0 (terminal movie browser)"
	defaultTimeout      = 10 * time.Second
)

// ErrMissingAPIKey is returned by every remote call when the client was
// built without an API key. Callers degrade to local-only behavior.
var ErrMissingAPIKey = errors.New("tmdb: missing API key")

// List identifies one of TMDB's canned movie listings.
type List string

const (
	ListPopular    List = "popular"
	ListTopRated   List = "top_rated"
	ListNowPlaying List = "now_playing"
	ListUpcoming   List = "upcoming"
)

// Title returns a human-readable name for the listing.
func (l List) Title() string {
	switch l {
	case ListPopular:
		return "Popular"
	case ListTopRated:
		return "Top Rated"
	case ListNowPlaying:
		return "Now Playing"
	case ListUpcoming:
		return "Upcoming"
	default:
		return string(l)
	}
}

// PosterSize selects a TMDB image rendition.
type PosterSize string

const (
	PosterSmall    PosterSize = "w185"
	PosterMedium   PosterSize = "w342"
	PosterLarge    PosterSize = "w500"
	PosterOriginal PosterSize = "original"
)

// APIError is TMDB's error payload. Code is TMDB's own status code (7 for an
// invalid key, 34 for a missing resource), not the HTTP status.
type APIError struct {
	Code       int    `json:"status_code"`
	Message    string `json:"status_message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: %s (code %d)", e.Message, e.Code)
}

type Client struct {
	client       *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	userAgent    string
	log          *zap.Logger
}

// NewClient builds a client from config. Zero-valued fields fall back to
// sensible defaults; a missing API key is allowed and surfaces later as
// ErrMissingAPIKey on each call.
func NewClient(cfg config.TMDBConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBaseURL := cfg.ImageBaseURL
	if imageBaseURL == "" {
		imageBaseURL = defaultImageBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		client:       &http.Client{Timeout: timeout},
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		language:     cfg.Language,
		userAgent:    userAgent,
		log:          log,
	}
}

// Enabled reports whether remote lookups can be attempted at all.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// SearchMovies runs a title search and returns at most limit results.
func (c *Client) SearchMovies(ctx context.Context, query string, limit int) ([]Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var page MoviePage
	if err := c.get(ctx, "/search/movie", params, &page); err != nil {
		return nil, fmt.Errorf("searching movies: %w", err)
	}
	return capMovies(page.Results, limit), nil
}

// SearchPeople runs a person search and returns at most limit results.
func (c *Client) SearchPeople(ctx context.Context, query string, limit int) ([]Person, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var page personPage
	if err := c.get(ctx, "/search/person", params, &page); err != nil {
		return nil, fmt.Errorf("searching people: %w", err)
	}

	results := page.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Movies fetches one page of a canned listing.
func (c *Client) Movies(ctx context.Context, list List, page int) (*MoviePage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))

	var result MoviePage
	if err := c.get(ctx, "/movie/"+string(list), params, &result); err != nil {
		return nil, fmt.Errorf("fetching %s movies: %w", list, err)
	}
	return &result, nil
}

// Trending fetches one page of trending movies. Window is "day" or "week".
func (c *Client) Trending(ctx context.Context, window string, page int) (*MoviePage, error) {
	if window != "day" && window != "week" {
		window = "week"
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))

	var result MoviePage
	if err := c.get(ctx, "/trending/movie/"+window, params, &result); err != nil {
		return nil, fmt.Errorf("fetching trending movies: %w", err)
	}
	return &result, nil
}

// MovieDetails fetches the full record for one movie.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return nil, fmt.Errorf("fetching movie %d: %w", id, err)
	}
	return &details, nil
}

// PosterURL builds the full image URL for a poster path, "" for no poster.
func (c *Client) PosterURL(path string, size PosterSize) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/" + string(size) + path
}

// MoviePageURL is the public themoviedb.org page for a movie, suitable for
// handing to a browser.
func MoviePageURL(id int) string {
	return fmt.Sprintf("https://www.themoviedb.org/movie/%d", id)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling TMDB: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("tmdb request", zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			apiErr.HTTPStatus = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func capMovies(movies []Movie, limit int) []Movie {
	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	return movies
}
