package debug

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// EnvVar names the environment variable holding the debug log path.
const EnvVar = "LIVETERM_DEBUG"

var (
	once   sync.Once
	logger *slog.Logger
)

// Logger returns the process-wide debug logger. It writes text records to the
// file named by LIVETERM_DEBUG, or discards everything when the variable is
// unset or the file cannot be opened.
func Logger() *slog.Logger {
	once.Do(func() {
		logger = slog.New(slog.DiscardHandler)
		path := os.Getenv(EnvVar)
		if path == "" {
			return
		}
		f, err := open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "liveterm: debug log disabled: %v\n", err)
			return
		}
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})
	return logger
}

func open(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return f, nil
}
