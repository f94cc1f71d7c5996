// Package domain contains the contact directory's data model: validated
// fields, records, and the directory with its upcoming-birthday query.
// This package has no external dependencies and is imported by every other
// internal package (repo, service, cli).
package domain

import (
	"fmt"
	"slices"
	"time"
)

// BirthdayWindowDays is how many days past the reference date the upcoming
// birthday search looks. The window is inclusive, so it spans 8 calendar days.
const BirthdayWindowDays = 7

// Directory maps contact names to records and remembers insertion order,
// so listings and saved files keep the order contacts were first added in.
// The zero value is an empty directory ready to use.
type Directory struct {
	order   []string
	records map[string]*Record
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// Add inserts rec under its name, replacing any record already stored there.
// A replaced name keeps its original position.
// Returns ErrInvalidName, and stores nothing, if rec has no usable name.
func (d *Directory) Add(rec *Record) error {
	if rec == nil || !rec.HasName() {
		return fmt.Errorf("domain.Directory.Add: %w", ErrInvalidName)
	}
	if d.records == nil {
		d.records = make(map[string]*Record)
	}
	name := rec.Name()
	if _, ok := d.records[name]; !ok {
		d.order = append(d.order, name)
	}
	d.records[name] = rec
	return nil
}

// Find returns the record stored under name, or nil if there is none.
func (d *Directory) Find(name string) *Record {
	return d.records[name]
}

// Delete removes the record stored under name.
// Returns ErrNotFound, leaving the directory unchanged, when name is absent.
func (d *Directory) Delete(name string) error {
	if _, ok := d.records[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(d.records, name)
	d.order = slices.DeleteFunc(d.order, func(n string) bool { return n == name })
	return nil
}

// Len returns the number of records.
func (d *Directory) Len() int { return len(d.records) }

// Records returns all records in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (d *Directory) Records() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.records[name])
	}
	return out
}

// Congratulation is one hit of the upcoming-birthday search.
// Date is the stored birthday itself, birth year included.
type Congratulation struct {
	Name string
	Date Birthday
}

// UpcomingBirthdays returns every record whose birthday falls on ref or on
// one of the BirthdayWindowDays days after it.
//
// Only month and day are compared; the first matching day in the window wins.
// Results are sorted by the stored birthday, birth year included, so two
// contacts sharing a day are ordered by age rather than by upcoming date.
// Records without a birthday are left out.
func (d *Directory) UpcomingBirthdays(ref time.Time) []Congratulation {
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	out := []Congratulation{}
	for _, rec := range d.Records() {
		b, ok := rec.Birthday()
		if !ok {
			continue
		}
		for delta := 0; delta <= BirthdayWindowDays; delta++ {
			if b.FallsOn(start.AddDate(0, 0, delta)) {
				out = append(out, Congratulation{Name: rec.Name(), Date: b})
				break
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Congratulation) int { return a.Date.Compare(b.Date) })
	return out
}

// referenceLayout matches DateLayout but also takes a one-digit day or month.
const referenceLayout = "2.1.2006"

// ParseReferenceDate parses raw as D.M.YYYY (zero padding optional) for use
// as the start of the birthday window. Any failure, including empty input,
// yields the calendar day of now and ok=false; callers decide whether to
// mention the fallback.
func ParseReferenceDate(raw string, now time.Time) (t time.Time, ok bool) {
	parsed, err := time.Parse(referenceLayout, raw)
	if err != nil {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), false
	}
	return parsed, true
}
