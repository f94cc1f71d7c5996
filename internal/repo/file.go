package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pkordes/contactbook/internal/domain"
)

// fileStore is the flat text file implementation of Store.
type fileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore constructs a Store backed by the text file at path.
// Decode warnings are logged through log at warn level.
func NewFileStore(path string, log *slog.Logger) Store {
	if log == nil {
		log = slog.Default()
	}
	return &fileStore{path: path, log: log}
}

// Load reads and decodes the file. A missing file is an empty directory.
func (s *fileStore) Load(ctx context.Context) (*domain.Directory, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.InfoContext(ctx, "contacts file not found, starting empty", "path", s.path)
		return domain.NewDirectory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.fileStore.Load: %w: %w", domain.ErrStorage, err)
	}
	defer f.Close()

	dir, warnings, err := Decode(f)
	for _, w := range warnings {
		s.log.WarnContext(ctx, "skipped invalid contact data", "path", s.path, "error", w)
	}
	if err != nil {
		return nil, fmt.Errorf("repo.fileStore.Load: %w: %w", domain.ErrStorage, err)
	}
	s.log.DebugContext(ctx, "contacts loaded", "path", s.path, "count", dir.Len())
	return dir, nil
}

// Save truncates the file and writes every record.
// Returns domain.ErrStorage, without touching the file, when a name cannot
// be encoded.
// The rewrite is not atomic: a crash mid-write can leave a truncated file.
func (s *fileStore) Save(ctx context.Context, dir *domain.Directory) error {
	// Checked before os.Create so a refused save leaves the old file intact.
	if err := CheckEncodable(dir); err != nil {
		return fmt.Errorf("repo.fileStore.Save: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("repo.fileStore.Save: %w: %w", domain.ErrStorage, err)
	}
	if err := Encode(f, dir); err != nil {
		f.Close()
		return fmt.Errorf("repo.fileStore.Save: %w: %w", domain.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("repo.fileStore.Save: %w: %w", domain.ErrStorage, err)
	}
	s.log.DebugContext(ctx, "contacts saved", "path", s.path, "count", dir.Len())
	return nil
}
