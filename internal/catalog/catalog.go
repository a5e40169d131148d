// Package catalog holds the static genre and trending tables shipped with
// marquee. The tables are process-wide constants loaded once at startup;
// nothing here talks to the network.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var catalogTOML []byte

// Genre is a TMDB movie genre.
type Genre struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
}

type catalogFile struct {
	Trending []string `toml:"trending"`
	Genres   []Genre  `toml:"genres"`
}

// Catalog is an immutable view over the genre and trending tables.
type Catalog struct {
	genres   []Genre
	names    map[int]string
	trending []string
}

// Load parses the embedded tables and merges any user overrides on top.
func Load() (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(catalogTOML, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog.toml: %w", err)
	}

	c := newCatalog(file)
	c.loadUserConfig()
	return c, nil
}

func newCatalog(file catalogFile) *Catalog {
	c := &Catalog{
		genres:   file.Genres,
		trending: file.Trending,
		names:    make(map[int]string, len(file.Genres)),
	}
	for _, g := range file.Genres {
		c.names[g.ID] = g.Name
	}
	return c
}

// loadUserConfig merges custom tables from the user's config directory.
// Genres merge by ID; a non-empty trending list replaces the built-in one.
func (c *Catalog) loadUserConfig() {
	configPaths := []string{
		"~/.config/marquee/catalog.toml",
		"./catalog.toml",
	}

	for _, path := range configPaths {
		if len(path) >= 2 && path[:2] == "~/" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var userFile catalogFile
		if err := toml.Unmarshal(data, &userFile); err != nil {
			continue
		}

		for _, g := range userFile.Genres {
			if _, exists := c.names[g.ID]; exists {
				for i := range c.genres {
					if c.genres[i].ID == g.ID {
						c.genres[i].Name = g.Name
						break
					}
				}
			} else {
				c.genres = append(c.genres, g)
			}
			c.names[g.ID] = g.Name
		}

		if len(userFile.Trending) > 0 {
			c.trending = userFile.Trending
		}
	}
}

// Genres returns the full genre table in file order.
func (c *Catalog) Genres() []Genre {
	out := make([]Genre, len(c.genres))
	copy(out, c.genres)
	return out
}

// GenreName resolves a TMDB genre ID, returning "" for unknown IDs.
func (c *Catalog) GenreName(id int) string {
	return c.names[id]
}

// GenreNames resolves a list of genre IDs, skipping unknown ones.
func (c *Catalog) GenreNames(ids []int) []string {
	var names []string
	for _, id := range ids {
		if name := c.names[id]; name != "" {
			names = append(names, name)
		}
	}
	return names
}

// MatchGenres returns up to limit genres whose name contains the query,
// case-insensitively, in table order.
func (c *Catalog) MatchGenres(query string, limit int) []Genre {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var matches []Genre
	for _, g := range c.genres {
		if strings.Contains(strings.ToLower(g.Name), query) {
			matches = append(matches, g)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}

// Trending returns up to limit static trending terms in table order.
func (c *Catalog) Trending(limit int) []string {
	if limit <= 0 || limit > len(c.trending) {
		limit = len(c.trending)
	}
	out := make([]string, limit)
	copy(out, c.trending[:limit])
	return out
}
