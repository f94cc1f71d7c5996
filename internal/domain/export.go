package domain

// ExportRow is a single row in the flat contact export: one row per record.
//
// Phones keep the record's insertion order. Birthday is DD.MM.YYYY, or empty
// when the record has none.
type ExportRow struct {
	Name     string
	Phones   []string
	Birthday string
}
