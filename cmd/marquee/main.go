package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/logging"
	"github.com/pders01/marquee/internal/suggest"
	"github.com/pders01/marquee/internal/tmdb"
	"github.com/pders01/marquee/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig string
	flagAPIKey string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:          "marquee",
	Short:        "Browse and search movies from the terminal",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marquee %s\n", Version)
		fmt.Println("Movie discovery for the terminal")
		fmt.Println("github.com/pders01/marquee")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate default config file",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "marquee", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Print search suggestions for a query and exit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagAPIKey != "" {
			cfg.TMDB.APIKey = flagAPIKey
		}

		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		client := tmdb.NewClient(cfg.TMDB, logging.Nop())
		agg := suggest.New(client, cat, suggest.Callbacks{}, suggest.Options{})
		defer agg.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		batch := agg.Lookup(ctx, args[0])
		if len(batch) == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		for _, s := range batch {
			if s.Year > 0 {
				fmt.Printf("%-7s %s (%d)\n", s.Kind, s.Text, s.Year)
			} else {
				fmt.Printf("%-7s %s\n", s.Kind, s.Text)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "TMDB API key (overrides config)")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, suggestCmd)
}

func runTUI() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagAPIKey != "" {
		cfg.TMDB.APIKey = flagAPIKey
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	client := tmdb.NewClient(cfg.TMDB, log)

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(client, cat, cfg, log)
	defer app.Close()

	// The emitter hands aggregator callbacks back to the bubbletea loop.
	// It must be wired before Run so no early callback is dropped silently.
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.SetEmitter(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
