package middleware

import (
	"context"
	"log/slog"
	"time"
)

// NewSlogLogger returns a middleware that logs each command as a structured
// line via the provided slog.Logger. It captures the command name, argument
// count, outcome, duration, and the session id set by WithSessionID.
// Argument values are not logged; they carry phone numbers.
//
// Wire it before Recoverer so a recovered panic is logged as an error outcome.
func NewSlogLogger(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command) error {
			start := time.Now()

			err := next(ctx, cmd)

			attrs := []any{
				"command", cmd.Name,
				"args", len(cmd.Args),
				"outcome", "ok",
				"duration_ms", time.Since(start).Milliseconds(),
				"session_id", GetSessionID(ctx),
			}
			if err != nil {
				attrs[5] = "error"
				attrs = append(attrs, "error", err.Error())
			}
			log.InfoContext(ctx, "command", attrs...)
			return err
		}
	}
}
