// Package service contains the business logic of the contact directory.
// ContactService owns the in-memory Directory, applies each command to it and
// saves through a repo.Store after every mutation. No I/O formats live here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/contactbook/internal/domain"
	"github.com/pkordes/contactbook/internal/repo"
)

// ContactService implements the directory commands.
// It is not safe for concurrent use; commands run one at a time.
type ContactService struct {
	store repo.Store
	dir   *domain.Directory
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a ContactService.
type Option func(*ContactService)

// WithClock overrides the clock used as "today" by UpcomingBirthdays.
func WithClock(now func() time.Time) Option {
	return func(s *ContactService) { s.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *ContactService) { s.log = log }
}

// NewContactService constructs a ContactService backed by store.
// It starts with an empty directory; call Load to read the persisted one.
func NewContactService(store repo.Store, opts ...Option) *ContactService {
	s := &ContactService{
		store: store,
		dir:   domain.NewDirectory(),
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory directory with the persisted one.
func (s *ContactService) Load(ctx context.Context) error {
	dir, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("service.ContactService.Load: %w", err)
	}
	s.dir = dir
	s.log.DebugContext(ctx, "directory loaded", "count", dir.Len())
	return nil
}

// Save writes the in-memory directory to the store.
func (s *ContactService) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.dir); err != nil {
		return fmt.Errorf("service.ContactService.Save: %w", err)
	}
	return nil
}

// AddOutcome reports what Add stored. Rejected holds the validation errors
// for the optional phone and birthday; the contact is added regardless.
type AddOutcome struct {
	Record   *domain.Record
	Rejected []error
}

// Add creates a contact with an optional phone and birthday ("" to omit).
// Returns domain.ErrAlreadyExists if the name is taken,
// domain.ErrInvalidName if it is empty and domain.ErrNameSeparator if it
// contains a comma or line break the contacts file cannot hold. A bad phone
// or birthday does not stop the contact from being added; see
// AddOutcome.Rejected.
func (s *ContactService) Add(ctx context.Context, name, phone, birthday string) (AddOutcome, error) {
	if s.dir.Find(name) != nil {
		return AddOutcome{}, fmt.Errorf("service.ContactService.Add: %w: %s", domain.ErrAlreadyExists, name)
	}
	if strings.ContainsAny(name, ",\r\n") {
		return AddOutcome{}, fmt.Errorf("service.ContactService.Add: %w: %q", domain.ErrNameSeparator, name)
	}
	rec, err := domain.NewRecord(name)
	if err != nil {
		return AddOutcome{}, fmt.Errorf("service.ContactService.Add: %w", err)
	}

	out := AddOutcome{Record: rec}
	if phone != "" {
		if err := rec.AddPhone(phone); err != nil {
			out.Rejected = append(out.Rejected, err)
		}
	}
	if birthday != "" {
		if err := rec.AddBirthday(birthday); err != nil {
			out.Rejected = append(out.Rejected, err)
		}
	}
	if err := s.dir.Add(rec); err != nil {
		return AddOutcome{}, fmt.Errorf("service.ContactService.Add: %w", err)
	}
	if err := s.Save(ctx); err != nil {
		return out, err
	}
	return out, nil
}

// Find returns the contact stored under name.
// Returns domain.ErrNotFound if there is none.
func (s *ContactService) Find(name string) (*domain.Record, error) {
	rec := s.dir.Find(name)
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return rec, nil
}

// List returns every contact in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ContactService) List() []*domain.Record {
	return s.dir.Records()
}

// AddPhone appends a phone to an existing contact.
func (s *ContactService) AddPhone(ctx context.Context, name, phone string) error {
	return s.mutate(ctx, "AddPhone", name, func(rec *domain.Record) error {
		return rec.AddPhone(phone)
	})
}

// AddBirthday sets the birthday of a contact that has none.
// Returns domain.ErrDuplicateBirthday if one is already set.
func (s *ContactService) AddBirthday(ctx context.Context, name, birthday string) error {
	return s.mutate(ctx, "AddBirthday", name, func(rec *domain.Record) error {
		return rec.AddBirthday(birthday)
	})
}

// EditBirthday overwrites a contact's birthday.
func (s *ContactService) EditBirthday(ctx context.Context, name, birthday string) error {
	return s.mutate(ctx, "EditBirthday", name, func(rec *domain.Record) error {
		return rec.EditBirthday(birthday)
	})
}

// DeleteBirthday clears a contact's birthday.
func (s *ContactService) DeleteBirthday(ctx context.Context, name string) error {
	return s.mutate(ctx, "DeleteBirthday", name, func(rec *domain.Record) error {
		rec.DeleteBirthday()
		return nil
	})
}

// DeletePhone removes every copy of phone from a contact and returns how
// many were removed. Removing an absent number is not an error.
func (s *ContactService) DeletePhone(ctx context.Context, name, phone string) (int, error) {
	var removed int
	err := s.mutate(ctx, "DeletePhone", name, func(rec *domain.Record) error {
		removed = rec.DeletePhone(phone)
		return nil
	})
	return removed, err
}

// EditPhone replaces oldPhone with newPhone on a contact.
//
// If newPhone is invalid the contact still loses oldPhone (see
// domain.Record.EditPhone); that partial change is saved and the validation
// error is returned.
func (s *ContactService) EditPhone(ctx context.Context, name, oldPhone, newPhone string) error {
	rec, err := s.Find(name)
	if err != nil {
		return fmt.Errorf("service.ContactService.EditPhone: %w", err)
	}
	editErr := rec.EditPhone(oldPhone, newPhone)
	if errors.Is(editErr, domain.ErrPhoneNotFound) {
		return fmt.Errorf("service.ContactService.EditPhone: %w", editErr)
	}
	if err := s.Save(ctx); err != nil {
		return err
	}
	if editErr != nil {
		s.log.WarnContext(ctx, "phone removed without replacement", "name", name, "phone", oldPhone, "error", editErr)
		return fmt.Errorf("service.ContactService.EditPhone: %w", editErr)
	}
	return nil
}

// Delete removes a contact.
// Returns domain.ErrNotFound, changing nothing, if there is none.
func (s *ContactService) Delete(ctx context.Context, name string) error {
	if err := s.dir.Delete(name); err != nil {
		return fmt.Errorf("service.ContactService.Delete: %w", err)
	}
	return s.Save(ctx)
}

// BirthdayWindow is the result of an upcoming-birthday search.
type BirthdayWindow struct {
	// From is the first day of the window.
	From time.Time
	// FellBack is true when the requested start date could not be parsed
	// and today was used instead.
	FellBack bool
	Entries  []domain.Congratulation
}

// UpcomingBirthdays searches the 8-day window starting at from (DD.MM.YYYY).
// An empty or unparsable from starts the window today; a non-empty
// unparsable value is logged and flagged in the result, never an error.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, from string) BirthdayWindow {
	start, ok := domain.ParseReferenceDate(from, s.now())
	fellBack := !ok && from != ""
	if fellBack {
		s.log.WarnContext(ctx, "invalid reference date, using today", "input", from)
	}
	return BirthdayWindow{
		From:     start,
		FellBack: fellBack,
		Entries:  s.dir.UpcomingBirthdays(start),
	}
}

// mutate applies fn to the named contact, re-inserts it under its name and
// saves. Nothing is saved when fn fails.
func (s *ContactService) mutate(ctx context.Context, op, name string, fn func(*domain.Record) error) error {
	rec, err := s.Find(name)
	if err != nil {
		return fmt.Errorf("service.ContactService.%s: %w", op, err)
	}
	if err := fn(rec); err != nil {
		return fmt.Errorf("service.ContactService.%s: %w", op, err)
	}
	if err := s.dir.Add(rec); err != nil {
		return fmt.Errorf("service.ContactService.%s: %w", op, err)
	}
	return s.Save(ctx)
}
