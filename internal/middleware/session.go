package middleware

import (
	"context"

	"github.com/google/uuid"
)

type ctxKeySessionID int

// SessionIDKey is the context key that holds the REPL session id.
const SessionIDKey ctxKeySessionID = 0

// WithSessionID returns a copy of ctx carrying a new random session id.
// Every command logged within one REPL run shares it.
func WithSessionID(ctx context.Context) context.Context {
	return context.WithValue(ctx, SessionIDKey, uuid.NewString())
}

// GetSessionID returns the session id stored in ctx, or "" if there is none.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}
