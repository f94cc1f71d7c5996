// Package middleware provides command middleware for the contactbook REPL.
// A Middleware wraps a Handler the way HTTP middleware wraps an http.Handler:
// each REPL line becomes one Command passed down the chain.
package middleware

import "context"

// Command is one parsed REPL line: a lower-cased name and its arguments.
type Command struct {
	Name string
	Args []string
}

// Handler runs a single command.
type Handler func(ctx context.Context, cmd Command) error

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Chain wraps h with mws. The first middleware is the outermost, matching
// the order of chi's Use calls.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
