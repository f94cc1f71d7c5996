package domain

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only date format the directory reads or writes.
const DateLayout = "02.01.2006"

var (
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
	birthdayPattern = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])\.(0[1-9]|1[0-2])\.(19|20)\d{2}$`)
)

// Name is a contact's identity within a Directory.
type Name string

// NewName rejects empty and whitespace-only input.
// The value is stored as given; callers decide whether to trim.
func NewName(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidName
	}
	return Name(raw), nil
}

func (n Name) String() string { return string(n) }

// Phone is exactly ten ASCII digits, no separators or leading '+'.
type Phone string

func NewPhone(raw string) (Phone, error) {
	if !phonePattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return Phone(raw), nil
}

func (p Phone) String() string { return string(p) }

// Birthday is a date-only value parsed from DD.MM.YYYY.
//
// Validation is pattern-level: day 01-31, month 01-12, year 19xx or 20xx.
// A value such as 31.02.2020 is accepted and kept literally rather than being
// normalized into March, so it formats back exactly as it was entered.
type Birthday struct {
	year  int
	month time.Month
	day   int
}

func NewBirthday(raw string) (Birthday, error) {
	if !birthdayPattern.MatchString(raw) {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	// The pattern guarantees two-digit day and month and a four-digit year.
	day, _ := strconv.Atoi(raw[0:2])
	month, _ := strconv.Atoi(raw[3:5])
	year, _ := strconv.Atoi(raw[6:10])
	return Birthday{year: year, month: time.Month(month), day: day}, nil
}

// BirthdayFromParts rebuilds a Birthday from stored components.
// It applies the same rules as NewBirthday.
func BirthdayFromParts(day int, month time.Month, year int) (Birthday, error) {
	return NewBirthday(fmt.Sprintf("%02d.%02d.%04d", day, int(month), year))
}

func (b Birthday) Day() int          { return b.day }
func (b Birthday) Month() time.Month { return b.month }
func (b Birthday) Year() int         { return b.year }

// IsZero reports whether b is the zero value (never a valid birthday).
func (b Birthday) IsZero() bool { return b == Birthday{} }

// String formats b as DD.MM.YYYY.
func (b Birthday) String() string {
	return fmt.Sprintf("%02d.%02d.%04d", b.day, int(b.month), b.year)
}

// Compare orders birthdays by year, then month, then day.
// It returns -1, 0 or +1.
func (b Birthday) Compare(other Birthday) int {
	if c := cmp.Compare(b.year, other.year); c != 0 {
		return c
	}
	if c := cmp.Compare(b.month, other.month); c != 0 {
		return c
	}
	return cmp.Compare(b.day, other.day)
}

// FallsOn reports whether t has the same month and day as b.
func (b Birthday) FallsOn(t time.Time) bool {
	return t.Month() == b.month && t.Day() == b.day
}
