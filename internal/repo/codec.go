package repo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/contactbook/internal/domain"
)

// The flat file holds one record per line:
//
//	<name>, <phone1>-<phone2>-...-<phoneN>, <DD.MM.YYYY or empty>
//
// A record without a birthday ends in a bare trailing comma. The format has
// no escaping, so Encode refuses names containing a comma or a line break.
const (
	fieldSep = ","
	phoneSep = "-"
)

// nameReserved lists the characters a stored name cannot contain.
const nameReserved = fieldSep + "\r\n"

// CheckEncodable reports the first record whose name cannot be written to a
// flat file without changing its meaning on the next Decode.
func CheckEncodable(dir *domain.Directory) error {
	for _, rec := range dir.Records() {
		if strings.ContainsAny(rec.Name(), nameReserved) {
			return fmt.Errorf("%w: %w: %q", domain.ErrStorage, domain.ErrNameSeparator, rec.Name())
		}
	}
	return nil
}

// LineError describes a problem with one line of a flat file.
// Decode reports these as warnings and keeps going.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// Encode writes dir to w in the flat file format, in insertion order.
// Nothing is written when a name fails CheckEncodable.
func Encode(w io.Writer, dir *domain.Directory) error {
	if err := CheckEncodable(dir); err != nil {
		return fmt.Errorf("repo.Encode: %w", err)
	}
	bw := bufio.NewWriter(w)
	for _, rec := range dir.Records() {
		line := rec.Name() + fieldSep + " " + strings.Join(rec.Phones(), phoneSep) + fieldSep
		if b, ok := rec.Birthday(); ok {
			line += " " + b.String()
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("repo.Encode: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("repo.Encode: %w", err)
	}
	return nil
}

// Decode reads a directory in the flat file format.
//
// Bad data never aborts the read. A line whose name is invalid is skipped.
// An invalid phone or birthday token is skipped while the rest of its line
// still applies. A name that appears twice merges into the first record, and
// a second birthday for the same name is rejected like AddBirthday would.
// Each of these is returned as a *LineError in warnings.
// The error return is reserved for failures of r itself.
func Decode(r io.Reader) (dir *domain.Directory, warnings []error, err error) {
	dir = domain.NewDirectory()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		warn := func(err error) { warnings = append(warnings, &LineError{Line: lineNo, Err: err}) }

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, fieldSep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		name := parts[0]
		var phones, birthday string
		if len(parts) > 1 {
			phones = parts[1]
		}
		if len(parts) > 2 {
			birthday = parts[2]
		}

		rec := dir.Find(name)
		if rec == nil {
			var err error
			rec, err = domain.NewRecord(name)
			if err != nil {
				warn(err)
				continue
			}
			// NewRecord succeeded, so Add cannot fail.
			_ = dir.Add(rec)
		}

		for _, p := range strings.Split(phones, phoneSep) {
			if p = strings.TrimSpace(p); p == "" {
				continue
			}
			if err := rec.AddPhone(p); err != nil {
				warn(fmt.Errorf("%s: %w", name, err))
			}
		}
		if birthday != "" {
			if err := rec.AddBirthday(birthday); err != nil {
				warn(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, warnings, fmt.Errorf("repo.Decode: %w", err)
	}
	return dir, warnings, nil
}
