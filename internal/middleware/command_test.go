package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/contactbook/internal/middleware"
)

// ---- Chain -----------------------------------------------------------------

func TestChain_FirstIsOutermost(t *testing.T) {
	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next middleware.Handler) middleware.Handler {
			return func(ctx context.Context, cmd middleware.Command) error {
				order = append(order, name)
				return next(ctx, cmd)
			}
		}
	}
	h := middleware.Chain(func(context.Context, middleware.Command) error {
		order = append(order, "handler")
		return nil
	}, mark("a"), mark("b"))

	require.NoError(t, h(context.Background(), middleware.Command{Name: "hello"}))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

// ---- Recoverer -------------------------------------------------------------

func TestRecoverer_TurnsPanicIntoError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := middleware.Recoverer(log)(func(context.Context, middleware.Command) error {
		panic("nil map")
	})

	err := h(context.Background(), middleware.Command{Name: "all"})

	require.ErrorIs(t, err, middleware.ErrPanic)
	assert.Contains(t, err.Error(), "nil map")
}

func TestRecoverer_PassesThrough(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	want := errors.New("plain")
	h := middleware.Recoverer(log)(func(context.Context, middleware.Command) error { return want })

	assert.ErrorIs(t, h(context.Background(), middleware.Command{Name: "all"}), want)
}

// ---- session id ------------------------------------------------------------

func TestWithSessionID(t *testing.T) {
	ctx := middleware.WithSessionID(context.Background())
	other := middleware.WithSessionID(context.Background())

	id := middleware.GetSessionID(ctx)
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, middleware.GetSessionID(other))
	assert.Empty(t, middleware.GetSessionID(context.Background()))
}
