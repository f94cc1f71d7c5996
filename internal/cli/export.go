package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/contactbook/internal/domain"
)

// ExportServicer defines the operation the export command depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{"name", "phones", "birthday"}

// ExportCSV writes every contact to w as CSV, one row per contact.
// Phones within a row are pipe-separated ("|") to keep each contact on a
// single CSV line. A contact without a birthday gets an empty birthday cell.
func ExportCSV(ctx context.Context, svc ExportServicer, w io.Writer) error {
	rows, err := svc.Export(ctx)
	if err != nil {
		return fmt.Errorf("cli.ExportCSV: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("cli.ExportCSV: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(rowToCSVRecord(r)); err != nil {
			return fmt.Errorf("cli.ExportCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cli.ExportCSV: %w", err)
	}
	return nil
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{r.Name, strings.Join(r.Phones, "|"), r.Birthday}
}
