// Package sqlite implements the repository interfaces on a local SQLite
// database. The per-user document is stored as a JSON column, keeping the
// same one-document-per-user shape the hosted store imposes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"github.com/gestorfacil/gestor-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Store implements domain.CompanyRepository and domain.EventRepository
// backed by SQLite
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at dbPath and runs
// pending migrations
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements domain.CompanyRepository
func (s *Store) Get(ctx context.Context, userID string) (*domain.UserDocument, error) {
	var (
		registered bool
		payload    string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT company_registered, document FROM user_documents WHERE user_id = ?`,
		userID,
	).Scan(&registered, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user document: %w", err)
	}

	doc, err := decodeDocument(ctx, payload)
	if err != nil {
		return nil, err
	}
	doc.CompanyRegistered = registered
	return doc, nil
}

// Save implements domain.CompanyRepository.
// Merge keeps the stored company when the incoming document carries none;
// otherwise the write replaces the whole document (last-write-wins).
func (s *Store) Save(ctx context.Context, userID string, doc *domain.UserDocument, merge bool) error {
	next := doc
	if merge && doc.Company == nil {
		existing, err := s.Get(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			next = &domain.UserDocument{
				CompanyRegistered: doc.CompanyRegistered,
				Company:           existing.Company,
			}
		}
	}

	payload, err := encodeDocument(next)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_documents (user_id, company_registered, document)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   company_registered = excluded.company_registered,
		   document           = excluded.document`,
		userID, next.CompanyRegistered, payload,
	)
	if err != nil {
		return fmt.Errorf("upsert user document: %w", err)
	}
	return nil
}

// Add implements domain.EventRepository
func (s *Store) Add(ctx context.Context, userID string, event *domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, user_id, title, date, kind) VALUES (?, ?, ?, ?, ?)`,
		event.ID.String(), userID, event.Title, event.Date.Format(dateLayout), string(event.Kind),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListByRange implements domain.EventRepository
func (s *Store) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, date, kind FROM events
		 WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		userID, from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var (
			id, title, date, kind string
		)
		if err := rows.Scan(&id, &title, &date, &kind); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		eventID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse event id %q: %w", id, err)
		}
		eventDate, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse event date %q: %w", date, err)
		}

		events = append(events, &domain.Event{
			ID:    eventID,
			Title: title,
			Date:  eventDate,
			Kind:  domain.EventKind(kind),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Remove implements domain.EventRepository
func (s *Store) Remove(ctx context.Context, userID string, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE user_id = ? AND id = ?`,
		userID, id.String(),
	)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
