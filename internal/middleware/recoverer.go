package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrPanic is returned by a handler wrapped in Recoverer when it panicked.
var ErrPanic = errors.New("command panicked")

// Recoverer converts a panic inside a command into an ErrPanic error so one
// broken command cannot end the session. The panic value and stack are
// logged at error.
func Recoverer(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					log.ErrorContext(ctx, "panic in command",
						"command", cmd.Name,
						"panic", fmt.Sprint(rec),
						"stack", string(debug.Stack()),
						"session_id", GetSessionID(ctx),
					)
					err = fmt.Errorf("%w: %s: %v", ErrPanic, cmd.Name, rec)
				}
			}()
			return next(ctx, cmd)
		}
	}
}
