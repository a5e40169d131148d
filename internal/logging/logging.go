package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a file-backed JSON logger. The TUI owns stdout and stderr, so
// log output always goes to a file. An empty level disables logging entirely.
func New(level, file string) (*zap.Logger, error) {
	lvl := parseLevel(level)
	if lvl == nil {
		return zap.NewNop(), nil
	}

	if file == "" {
		home, _ := os.UserHomeDir()
		file = filepath.Join(home, ".local", "state", "marquee", "marquee.log")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(*lvl)
	cfg.OutputPaths = []string{file}
	cfg.ErrorOutputPaths = []string{file}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func parseLevel(lvl string) *zapcore.Level {
	switch lvl {
	case "debug":
		l := zapcore.DebugLevel
		return &l
	case "info":
		l := zapcore.InfoLevel
		return &l
	case "warn":
		l := zapcore.WarnLevel
		return &l
	case "error":
		l := zapcore.ErrorLevel
		return &l
	default:
		return nil
	}
}
