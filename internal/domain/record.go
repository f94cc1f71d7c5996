package domain

import (
	"fmt"
	"slices"
)

// BirthdayNotSet is what ShowBirthday returns for a record without a birthday.
const BirthdayNotSet = "not set"

// Record is a single contact: a name, an ordered list of phones and an
// optional birthday. Phones keep insertion order and may repeat.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord validates name and builds an empty record.
//
// On a bad name the returned record is still usable for phone and birthday
// operations but has no identity: Directory.Add will refuse it. The error is
// returned alongside so callers can report it before trying to insert.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return &Record{}, fmt.Errorf("domain.NewRecord: %w", err)
	}
	return &Record{name: n}, nil
}

// Name returns the record's name, or "" when construction failed.
func (r *Record) Name() string { return string(r.name) }

// HasName reports whether the record has a usable identity.
func (r *Record) HasName() bool { return r.name != "" }

// Phones returns a copy of the phone list in insertion order.
func (r *Record) Phones() []string {
	out := make([]string, 0, len(r.phones))
	for _, p := range r.phones {
		out = append(out, string(p))
	}
	return out
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates raw and appends it. The list is unchanged on error.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// DeletePhone removes every entry equal to raw and reports how many went.
// Removing a number that is not present is not an error.
func (r *Record) DeletePhone(raw string) int {
	before := len(r.phones)
	r.phones = slices.DeleteFunc(r.phones, func(p Phone) bool { return string(p) == raw })
	return before - len(r.phones)
}

// EditPhone replaces oldPhone with newPhone.
//
// The new number is appended first and every entry equal to oldPhone is
// removed afterwards. If newPhone fails validation the append is skipped but
// the removal still happens, so the record loses oldPhone and the validation
// error is returned. Returns ErrPhoneNotFound, with the record untouched, when
// oldPhone is absent.
func (r *Record) EditPhone(oldPhone, newPhone string) error {
	if !slices.Contains(r.phones, Phone(oldPhone)) {
		return fmt.Errorf("%w: %s", ErrPhoneNotFound, oldPhone)
	}
	addErr := r.AddPhone(newPhone)
	r.DeletePhone(oldPhone)
	return addErr
}

// AddBirthday sets the birthday when none is set yet.
func (r *Record) AddBirthday(raw string) error {
	if r.birthday != nil {
		return fmt.Errorf("%w for %s", ErrDuplicateBirthday, r.name)
	}
	return r.EditBirthday(raw)
}

// EditBirthday overwrites the birthday. Invalid input keeps the old value.
func (r *Record) EditBirthday(raw string) error {
	b, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// SetBirthday stores an already validated birthday, replacing any previous one.
func (r *Record) SetBirthday(b Birthday) {
	r.birthday = &b
}

func (r *Record) DeleteBirthday() {
	r.birthday = nil
}

// ShowBirthday returns the birthday as DD.MM.YYYY or BirthdayNotSet.
func (r *Record) ShowBirthday() string {
	if r.birthday == nil {
		return BirthdayNotSet
	}
	return r.birthday.String()
}
