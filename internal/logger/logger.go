// Package logger builds the application's slog.Logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the logger's level, format and destination.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means warn.
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Output defaults to os.Stderr so log lines never mix with REPL output.
	Output io.Writer
}

// New returns a logger for opts. An unknown level or format falls back to
// the default and the fallback is logged at warn.
func New(opts Options) *slog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	var problems []string

	level := slog.LevelWarn
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			level = slog.LevelWarn
			problems = append(problems, "level")
		}
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(output, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(output, handlerOpts)
	default:
		handler = slog.NewTextHandler(output, handlerOpts)
		problems = append(problems, "format")
	}

	log := slog.New(handler)
	for _, p := range problems {
		log.Warn("could not parse logger "+p, "level", opts.Level, "format", opts.Format)
	}
	return log
}
