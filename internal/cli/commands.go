package cli

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkordes/contactbook/internal/domain"
)

const unknownDate = "unknown date"

func usage(line string) error {
	return fmt.Errorf("%w, usage: %s", ErrUsage, line)
}

func (s *Shell) hello(_ context.Context, _ []string) error {
	s.p.bye.Fprintln(s.out, "How can I help you?")
	return nil
}

// add <name> [phone] [birthday]
func (s *Shell) add(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("add <name> [phone] [DD.MM.YYYY]")
	}
	name := args[0]
	var phone, birthday string
	if len(args) > 1 {
		phone = args[1]
	}
	if len(args) > 2 {
		birthday = args[2]
	}

	out, err := s.svc.Add(ctx, name, phone, birthday)
	if errors.Is(err, domain.ErrAlreadyExists) {
		s.p.fail.Fprintf(s.out, "You already have contact %s in your book\n", name)
		return shownError{err}
	}
	if err != nil {
		return err
	}

	for _, rejected := range out.Rejected {
		s.p.fail.Fprintf(s.out, "Error: %s\n", userMessage(rejected))
	}
	var with []string
	if phones := out.Record.Phones(); len(phones) > 0 {
		with = append(with, "with phone "+phones[0])
	}
	if b, ok := out.Record.Birthday(); ok {
		with = append(with, "with birthday "+b.String())
	}
	msg := "Added " + name
	if len(with) > 0 {
		msg += " " + strings.Join(with, " and ")
	}
	s.p.ok.Fprintln(s.out, msg+".")
	return nil
}

// add-phone <name> <phone>
func (s *Shell) addPhone(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("add-phone <name> <phone>")
	}
	if err := s.svc.AddPhone(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.p.ok.Fprintf(s.out, "Added %s with phone %s.\n", args[0], args[1])
	return nil
}

// add-birthday <name> <DD.MM.YYYY>
func (s *Shell) addBirthday(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("add-birthday <name> <DD.MM.YYYY>")
	}
	if err := s.svc.AddBirthday(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.p.ok.Fprintf(s.out, "Added %s with birthday %s.\n", args[0], args[1])
	return nil
}

// phone <name>
func (s *Shell) phone(_ context.Context, args []string) error {
	if len(args) < 1 {
		return usage("phone <name>")
	}
	rec, err := s.svc.Find(args[0])
	if err != nil {
		return err
	}
	phones := rec.Phones()
	if len(phones) == 0 {
		s.p.fail.Fprintf(s.out, "Contact %s doesn't have phones\n", rec.Name())
		return nil
	}
	s.p.ok.Fprintf(s.out, "Phones for %s: %s\n", rec.Name(), strings.Join(phones, ", "))
	return nil
}

// birthday <name>
func (s *Shell) birthday(_ context.Context, args []string) error {
	if len(args) < 1 {
		return usage("birthday <name>")
	}
	rec, err := s.svc.Find(args[0])
	if err != nil {
		return err
	}
	if _, ok := rec.Birthday(); !ok {
		s.p.fail.Fprintf(s.out, "Contact %s doesn't have birthday date\n", rec.Name())
		return nil
	}
	s.p.ok.Fprintf(s.out, "Birthday for %s: %s\n", rec.Name(), rec.ShowBirthday())
	return nil
}

// all
func (s *Shell) all(_ context.Context, _ []string) error {
	records := s.svc.List()
	if len(records) == 0 {
		s.p.warn.Fprintln(s.out, "No contacts saved.")
		return nil
	}
	for _, rec := range records {
		birthday := unknownDate
		if b, ok := rec.Birthday(); ok {
			birthday = b.String()
		}
		phones := "no phones"
		if p := rec.Phones(); len(p) > 0 {
			phones = strings.Join(p, "; ")
		}
		fmt.Fprintf(s.out, "%s %s %s %s %s %s\n",
			s.p.label.Sprint("Contact name:"), s.p.ok.Sprintf("%-10s", rec.Name()),
			s.p.label.Sprint("birthday:"), s.p.ok.Sprintf("%-15s", birthday),
			s.p.label.Sprint("phones:"), s.p.ok.Sprint(phones),
		)
	}
	return nil
}

// delete <name>
func (s *Shell) delete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("delete <name>")
	}
	if err := s.svc.Delete(ctx, args[0]); err != nil {
		return err
	}
	s.p.ok.Fprintf(s.out, "Deleted contact %s.\n", args[0])
	return nil
}

// delete-phone <name> <phone>
func (s *Shell) deletePhone(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("delete-phone <name> <phone>")
	}
	removed, err := s.svc.DeletePhone(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if removed == 0 {
		s.p.warn.Fprintf(s.out, "Contact %s doesn't have phone %s\n", args[0], args[1])
		return nil
	}
	s.p.ok.Fprintf(s.out, "Deleted phone %s for %s.\n", args[1], args[0])
	return nil
}

// delete-birthday <name>
func (s *Shell) deleteBirthday(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("delete-birthday <name>")
	}
	if err := s.svc.DeleteBirthday(ctx, args[0]); err != nil {
		return err
	}
	s.p.ok.Fprintf(s.out, "Deleted birthday for %s.\n", args[0])
	return nil
}

// edit-phone <name> <old> <new>
func (s *Shell) editPhone(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("edit-phone <name> <old phone> <new phone>")
	}
	if err := s.svc.EditPhone(ctx, args[0], args[1], args[2]); err != nil {
		if errors.Is(err, domain.ErrInvalidPhone) {
			s.p.warn.Fprintf(s.out, "Phone %s was removed from %s but not replaced.\n", args[1], args[0])
		}
		return err
	}
	s.p.ok.Fprintf(s.out, "Changed phone for %s.\n", args[0])
	return nil
}

// edit-birthday <name> <DD.MM.YYYY>
func (s *Shell) editBirthday(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("edit-birthday <name> <DD.MM.YYYY>")
	}
	if err := s.svc.EditBirthday(ctx, args[0], args[1]); err != nil {
		return err
	}
	s.p.ok.Fprintf(s.out, "Edited birthday for %s.\n", args[0])
	return nil
}

// birthdays [DD.MM.YYYY]
func (s *Shell) birthdays(ctx context.Context, args []string) error {
	var from string
	if len(args) > 0 {
		from = args[0]
	}
	window := s.svc.UpcomingBirthdays(ctx, from)
	if window.FellBack {
		s.p.warn.Fprintf(s.out, "Invalid date %s, counting from today.\n", from)
	}
	if len(window.Entries) == 0 {
		s.p.name.Fprintf(s.out, "No upcoming birthdays in the next %d days.\n", domain.BirthdayWindowDays)
		return nil
	}
	s.p.ok.Fprintln(s.out, "Upcoming birthdays:")
	for _, c := range window.Entries {
		fmt.Fprintf(s.out, "%s %s %s\n", s.p.name.Sprint(c.Name), s.p.warn.Sprint("on"), s.p.name.Sprint(c.Date.String()))
	}
	return nil
}

// birthdays-all
func (s *Shell) birthdaysAll(_ context.Context, _ []string) error {
	s.p.ok.Fprintln(s.out, "All birthdays:")
	for _, rec := range s.svc.List() {
		s.p.name.Fprintf(s.out, "%s: %s\n", rec.Name(), rec.ShowBirthday())
	}
	return nil
}

// opPrefix matches the "pkg.Type.Method: " prefixes layers add when wrapping.
var opPrefix = regexp.MustCompile(`^[a-z]+(\.[A-Za-z]+)+: `)

// userMessage extracts the human-readable part from a wrapped error.
// e.g. "service.ContactService.AddPhone: validation error: invalid phone ..." → "invalid phone ..."
func userMessage(err error) string {
	msg := err.Error()
	for {
		loc := opPrefix.FindStringIndex(msg)
		if loc == nil {
			break
		}
		msg = msg[loc[1]:]
	}
	return strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
}
