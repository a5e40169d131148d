package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			APIKey:       "test-key",
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
			HTTPTimeout:  5 * time.Second,
			UserAgent:    "marquee-test/1.0",
		},
		Search: SearchConfig{
			Debounce:    10 * time.Millisecond, // Keep tests fast
			Placeholder: defaultConfig().Search.Placeholder,
		},
		UI:   defaultConfig().UI,
		Keys: defaultConfig().Keys,
		Log:  LogConfig{},
	}
}
