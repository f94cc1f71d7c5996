// Package repo contains all persistence logic for the contact directory.
// Each backend implements Store: the flat text file in file.go and Postgres
// in postgres.go. No business logic lives here, only encoding and I/O.
package repo

import (
	"context"

	"github.com/pkordes/contactbook/internal/domain"
)

// Store loads and saves a whole Directory.
// The service layer depends on this interface, not on a concrete backend,
// which allows the service to be unit-tested with a mock.
type Store interface {
	// Load returns the persisted directory. A store that has never been
	// saved to yields an empty directory, not an error.
	Load(ctx context.Context) (*domain.Directory, error)

	// Save replaces the persisted contents with dir. It is a full rewrite:
	// records missing from dir are removed from the store.
	Save(ctx context.Context, dir *domain.Directory) error
}
