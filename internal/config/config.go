package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	TMDB   TMDBConfig   `mapstructure:"tmdb"`
	Search SearchConfig `mapstructure:"search"`
	UI     UIConfig     `mapstructure:"ui"`
	Keys   KeyBindings  `mapstructure:"keys"`
	Log    LogConfig    `mapstructure:"log"`
}

type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Language     string        `mapstructure:"language"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	Debounce    time.Duration `mapstructure:"debounce"`
	Placeholder string        `mapstructure:"placeholder"`
}

type UIConfig struct {
	Colors UIColors     `mapstructure:"colors"`
	Detail DetailConfig `mapstructure:"detail"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type DetailConfig struct {
	MaxOverviewLength int `mapstructure:"max_overview_length"`
	WordWrapMaxWidth  int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth  int `mapstructure:"word_wrap_min_width"`
}

type KeyBindings struct {
	Quit         string `mapstructure:"quit"`
	Search       string `mapstructure:"search"`
	Refresh      string `mapstructure:"refresh"`
	OpenBrowser  string `mapstructure:"open_browser"`
	NextCategory string `mapstructure:"next_category"`
	PrevCategory string `mapstructure:"prev_category"`
	Back         string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".local", "state", "marquee", "marquee.log")

	return &Config{
		TMDB: TMDBConfig{
			APIKey:       "",
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
			HTTPTimeout:  10 * time.Second,
			UserAgent:    "marquee/1.0 (terminal movie browser)",
		},
		Search: SearchConfig{
			Debounce:    500 * time.Millisecond,
			Placeholder: "Search movies, people, genres...",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Detail: DetailConfig{
				MaxOverviewLength: 150,
				WordWrapMaxWidth:  120,
				WordWrapMinWidth:  40,
			},
		},
		Keys: KeyBindings{
			Quit:         "q",
			Search:       "s",
			Refresh:      "r",
			OpenBrowser:  "o",
			NextCategory: "tab",
			PrevCategory: "shift+tab",
			Back:         "esc",
		},
		Log: LogConfig{
			Level: "",
			File:  logPath,
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("tmdb", cfg.TMDB)
	v.SetDefault("search", cfg.Search)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "marquee")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand paths after loading
	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand tilde
	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	// Convert to absolute path if not already absolute
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// expandPaths expands all paths in the config
func expandPaths(cfg *Config) {
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	tmdbCfg := map[string]interface{}{
		"api_key":        config.TMDB.APIKey,
		"base_url":       config.TMDB.BaseURL,
		"image_base_url": config.TMDB.ImageBaseURL,
		"language":       config.TMDB.Language,
		"http_timeout":   config.TMDB.HTTPTimeout.String(),
		"user_agent":     config.TMDB.UserAgent,
	}

	searchCfg := map[string]interface{}{
		"debounce":    config.Search.Debounce.String(),
		"placeholder": config.Search.Placeholder,
	}

	v.Set("tmdb", tmdbCfg)
	v.Set("search", searchCfg)
	v.Set("ui", config.UI)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
