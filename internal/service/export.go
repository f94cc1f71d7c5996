package service

import (
	"context"
	"fmt"

	"github.com/pkordes/contactbook/internal/domain"
	"github.com/pkordes/contactbook/internal/repo"
)

// ExportService assembles a flat export of every stored contact.
// It reads straight from the store, so it works without a running session.
type ExportService struct {
	store repo.Store
}

// NewExportService constructs an ExportService backed by the provided store.
func NewExportService(store repo.Store) *ExportService {
	return &ExportService{store: store}
}

// Export returns one ExportRow per contact in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	dir, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, dir.Len())
	for _, rec := range dir.Records() {
		row := domain.ExportRow{
			Name:   rec.Name(),
			Phones: rec.Phones(),
		}
		if b, ok := rec.Birthday(); ok {
			row.Birthday = b.String()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
