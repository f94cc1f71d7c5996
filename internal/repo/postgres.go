package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/contactbook/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so Save stays atomic either way.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// pgStore is the Postgres implementation of Store.
// Contacts live in the contacts table, ordered by position; phones live in
// contact_phones, ordered by position within their contact.
type pgStore struct {
	db db
}

// NewPGStore constructs a Store backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
// The schema in migrations/ must already be applied.
func NewPGStore(db db) Store {
	return &pgStore{db: db}
}

// Load reads every contact with its phones in insertion order.
func (s *pgStore) Load(ctx context.Context) (*domain.Directory, error) {
	const q = `
		SELECT c.id, c.name, c.birth_day, c.birth_month, c.birth_year, p.phone
		FROM contacts c
		LEFT JOIN contact_phones p ON p.contact_id = c.id
		ORDER BY c.position, p.position`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.pgStore.Load: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	dir := domain.NewDirectory()
	var (
		current   *domain.Record
		currentID uuid.UUID
	)
	for rows.Next() {
		var (
			id               pgtype.UUID
			name             string
			day, month, year pgtype.Int2
			phone            pgtype.Text
		)
		if err := rows.Scan(&id, &name, &day, &month, &year, &phone); err != nil {
			return nil, fmt.Errorf("repo.pgStore.Load: scan: %w: %w", domain.ErrStorage, err)
		}

		if current == nil || uuid.UUID(id.Bytes) != currentID {
			current, err = domain.NewRecord(name)
			if err != nil {
				return nil, fmt.Errorf("repo.pgStore.Load: contact %s: %w", uuid.UUID(id.Bytes), err)
			}
			currentID = uuid.UUID(id.Bytes)
			if day.Valid && month.Valid && year.Valid {
				b, err := domain.BirthdayFromParts(int(day.Int16), time.Month(month.Int16), int(year.Int16))
				if err != nil {
					return nil, fmt.Errorf("repo.pgStore.Load: contact %s: %w", name, err)
				}
				current.SetBirthday(b)
			}
			if err := dir.Add(current); err != nil {
				return nil, fmt.Errorf("repo.pgStore.Load: %w", err)
			}
		}

		if phone.Valid {
			if err := current.AddPhone(phone.String); err != nil {
				return nil, fmt.Errorf("repo.pgStore.Load: contact %s: %w", name, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.pgStore.Load: rows: %w: %w", domain.ErrStorage, err)
	}

	return dir, nil
}

// Save replaces all stored contacts with dir inside a single transaction.
// Contact ids are regenerated on every save; nothing outside this package
// refers to them.
func (s *pgStore) Save(ctx context.Context, dir *domain.Directory) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.pgStore.Save: begin: %w: %w", domain.ErrStorage, err)
	}
	defer func() {
		if err != nil {
			// Rollback after a failed statement only reports the original failure.
			_ = tx.Rollback(ctx)
		}
	}()

	// contact_phones rows go with their contact via ON DELETE CASCADE.
	if _, err = tx.Exec(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("repo.pgStore.Save: clear: %w: %w", domain.ErrStorage, err)
	}

	const insertContact = `
		INSERT INTO contacts (id, name, position, birth_day, birth_month, birth_year)
		VALUES (@id, @name, @position, @birth_day, @birth_month, @birth_year)`

	var phoneRows [][]any
	for i, rec := range dir.Records() {
		id := uuid.New()
		args := pgx.NamedArgs{
			"id":          id,
			"name":        rec.Name(),
			"position":    i,
			"birth_day":   nil, // NULL when the contact has no birthday
			"birth_month": nil,
			"birth_year":  nil,
		}
		if b, ok := rec.Birthday(); ok {
			args["birth_day"] = int16(b.Day())
			args["birth_month"] = int16(b.Month())
			args["birth_year"] = int16(b.Year())
		}
		if _, err = tx.Exec(ctx, insertContact, args); err != nil {
			return fmt.Errorf("repo.pgStore.Save: insert %s: %w: %w", rec.Name(), domain.ErrStorage, err)
		}
		for j, p := range rec.Phones() {
			phoneRows = append(phoneRows, []any{id, j, p})
		}
	}

	if len(phoneRows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"contact_phones"},
			[]string{"contact_id", "position", "phone"},
			pgx.CopyFromRows(phoneRows),
		)
		if err != nil {
			return fmt.Errorf("repo.pgStore.Save: phones: %w: %w", domain.ErrStorage, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.pgStore.Save: commit: %w: %w", domain.ErrStorage, err)
	}
	return nil
}
